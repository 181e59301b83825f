package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/noah-isme/receipt-relay/internal/obs"
)

// Metadata keys Stripe charges carry to tie them back to a form submission.
const (
	MetadataFormID     = "typeform_form_id"
	MetadataResponseID = "typeform_response_id"
)

var (
	// ErrNoMatchingCharge means no charge in the recent-history window carried
	// the submission's identifiers. The charge may not have settled yet, may be
	// older than the window, or may not exist at all.
	ErrNoMatchingCharge = errors.New("no matching charge in recent history")

	// ErrProviderFailure replaces any error coming back from the Stripe API.
	// The SDK is known to embed the API key in error payloads, so the original
	// error is discarded at this boundary and must never reach a log sink.
	ErrProviderFailure = errors.New("payment provider call failed")
)

// Reconciler correlates a form submission with a recent Stripe charge and
// attaches the payer's email as the charge's receipt address.
type Reconciler struct {
	Charges     ChargeAPI
	SearchLimit int64
}

// Reconcile lists the most recent charges and updates the first one whose
// metadata matches both the form id and the response token. Matching on only
// one of the two is not enough: tokens can be reused across forms and forms
// accumulate many responses.
func (r Reconciler) Reconcile(ctx context.Context, formID, token, email string) error {
	if r.Charges == nil {
		return ErrProviderFailure
	}
	limit := r.SearchLimit
	if limit <= 0 {
		limit = 5
	}

	start := time.Now()
	err := r.reconcile(ctx, limit, formID, token, email)
	result := "reconciled"
	switch {
	case errors.Is(err, ErrNoMatchingCharge):
		result = "no_match"
	case err != nil:
		result = "provider_error"
	}
	if obs.ReconcileTotal != nil {
		obs.ReconcileTotal.WithLabelValues(result).Inc()
	}
	if obs.ReconcileLatency != nil {
		obs.ReconcileLatency.WithLabelValues(result).Observe(obs.DurationMillis(time.Since(start)))
	}
	return err
}

func (r Reconciler) reconcile(ctx context.Context, limit int64, formID, token, email string) error {
	charges, err := r.Charges.ListRecentCharges(ctx, limit)
	if err != nil {
		return ErrProviderFailure
	}
	target := findCharge(charges, formID, token)
	if target == nil {
		return ErrNoMatchingCharge
	}
	if err := r.Charges.UpdateChargeReceiptEmail(ctx, target.ID, email); err != nil {
		return ErrProviderFailure
	}
	return nil
}

func findCharge(charges []*stripe.Charge, formID, token string) *stripe.Charge {
	for _, charge := range charges {
		if charge == nil || charge.Metadata == nil {
			continue
		}
		if strings.TrimSpace(charge.Metadata[MetadataFormID]) != formID {
			continue
		}
		if strings.TrimSpace(charge.Metadata[MetadataResponseID]) != token {
			continue
		}
		return charge
	}
	return nil
}
