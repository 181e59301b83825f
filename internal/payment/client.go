package payment

import (
	"context"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ChargeAPI is the slice of the payment processor's API this service needs:
// a bounded listing of recent charges and a single-field update. The
// reconciler and tests depend on this interface rather than the SDK.
type ChargeAPI interface {
	ListRecentCharges(ctx context.Context, limit int64) ([]*stripe.Charge, error)
	UpdateChargeReceiptEmail(ctx context.Context, chargeID, email string) error
}

// StripeClient implements ChargeAPI against the Stripe REST API.
type StripeClient struct {
	api *client.API
}

// NewStripeClient constructs a Stripe-backed charge client. The underlying
// HTTP client carries an OpenTelemetry transport so outbound calls show up
// in traces alongside the inbound request.
func NewStripeClient(apiKey string, timeout time.Duration) *StripeClient {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	api := &client.API{}
	api.Init(apiKey, stripe.NewBackends(httpClient))
	return &StripeClient{api: api}
}

// ListRecentCharges fetches the most recent charges, newest first, capped at limit.
func (c *StripeClient) ListRecentCharges(ctx context.Context, limit int64) ([]*stripe.Charge, error) {
	params := &stripe.ChargeListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	charges := make([]*stripe.Charge, 0, limit)
	iter := c.api.Charges.List(params)
	for iter.Next() {
		charges = append(charges, iter.Charge())
		if int64(len(charges)) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return charges, nil
}

// UpdateChargeReceiptEmail sets the receipt email on an existing charge.
func (c *StripeClient) UpdateChargeReceiptEmail(ctx context.Context, chargeID, email string) error {
	params := &stripe.ChargeParams{ReceiptEmail: stripe.String(email)}
	params.Context = ctx
	_, err := c.api.Charges.Update(chargeID, params)
	return err
}
