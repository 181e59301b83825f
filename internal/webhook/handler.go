package webhook

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/receipt-relay/internal/common"
	"github.com/noah-isme/receipt-relay/internal/obs"
	"github.com/noah-isme/receipt-relay/internal/typeform"
)

// Reconciler correlates an extracted submission with a processor-side charge.
type Reconciler interface {
	Reconcile(ctx context.Context, formID, token, email string) error
}

// Handler processes form-submission webhooks: verify the signature, extract
// the submission, acknowledge the sender, then reconcile the charge. All
// state is request-scoped; the struct itself is immutable after startup.
type Handler struct {
	Secret          []byte
	VerifySignature bool
	Reconciler      Reconciler
	Logger          zerolog.Logger
}

// Handle implements POST /webhook.
func (h Handler) Handle(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info().Msg("processing incoming webhook")

	// The raw bytes must be kept around untouched: the signature is computed
	// over exactly what the sender signed, before any JSON decoding.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		body = nil
	}

	if !h.VerifySignature {
		h.Logger.Warn().Msg("(!!!) skipping request signature verification")
	} else if !h.checkSignature(w, r, body) {
		return
	}

	submission, err := typeform.ExtractSubmission(body)
	if err != nil {
		h.Logger.Error().Msg("rejected incoming webhook: request body is malformed")
		countOutcome(obs.OutcomeRejectedPayload)
		common.JSONError(w, http.StatusForbidden, "MALFORMED_PAYLOAD", "request body is malformed")
		return
	}

	// Acknowledge before touching the payment processor so the sender's
	// retry timer never fires because of a slow or failing downstream call.
	ack := newAckResponder(w)
	ack.Accept()
	h.Logger.Info().Msg("responded to the sender: 202 accepted")

	if !submission.PaymentCompleted {
		h.Logger.Info().Msg("payment was not completed by the form submitter, no action needed")
		countOutcome(obs.OutcomePaymentIncomplete)
		ack.WriteStatus(http.StatusForbidden)
		return
	}

	h.Logger.Info().Msg("attaching receipt email to charge")
	// The sender may hang up as soon as the 202 is flushed; reconciliation
	// still runs to completion, so detach from the request's cancellation.
	ctx := context.WithoutCancel(r.Context())
	if err := h.Reconciler.Reconcile(ctx, submission.FormID, submission.Token, submission.Email); err != nil {
		// The underlying error is deliberately not logged: provider errors can
		// embed the API credential in their message.
		h.Logger.Error().Msg("failed postprocessing the webhook: payment processor call did not succeed")
		countOutcome(obs.OutcomeReconcileFailed)
		ack.WriteStatus(http.StatusInternalServerError)
		return
	}
	h.Logger.Info().Msg("charge reconciled")
	countOutcome(obs.OutcomeReconciled)
}

// checkSignature rejects the request unless the claimed signature matches the
// one computed over the raw body. Missing header, missing body and mismatch
// all produce the same 403.
func (h Handler) checkSignature(w http.ResponseWriter, r *http.Request, body []byte) bool {
	provided := r.Header.Get(typeform.SignatureHeader)
	if provided == "" {
		h.Logger.Error().Msg("rejected incoming webhook: signature header is missing")
		countOutcome(obs.OutcomeRejectedSignature)
		common.JSONError(w, http.StatusForbidden, "SIGNATURE_MISSING", "signature header is missing")
		return false
	}
	if len(body) == 0 {
		h.Logger.Error().Msg("rejected incoming webhook: request body is missing")
		countOutcome(obs.OutcomeRejectedSignature)
		common.JSONError(w, http.StatusForbidden, "BODY_MISSING", "request body is missing")
		return false
	}
	if !typeform.VerifySignature(h.Secret, body, provided) {
		h.Logger.Error().Msg("rejected incoming webhook: request signature mismatch")
		countOutcome(obs.OutcomeRejectedSignature)
		common.JSONError(w, http.StatusForbidden, "INVALID_SIGNATURE", "request signature mismatch")
		return false
	}
	return true
}

func countOutcome(result string) {
	if obs.WebhookRequestsTotal != nil {
		obs.WebhookRequestsTotal.WithLabelValues(result).Inc()
	}
}
