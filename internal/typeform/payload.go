package typeform

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrMalformedPayload is returned for any structurally invalid webhook body.
// Callers treat every malformed case the same way, so sub-cases are not
// distinguished.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Submission carries the fields extracted from a form-submission webhook.
type Submission struct {
	FormID           string
	Token            string
	Email            string
	PaymentCompleted bool
}

type webhookEnvelope struct {
	FormResponse *formResponse `json:"form_response"`
}

type formResponse struct {
	FormID  string   `json:"form_id"`
	Token   string   `json:"token"`
	Answers []answer `json:"answers"`
}

type answer struct {
	Type    string         `json:"type"`
	Email   string         `json:"email"`
	Payment *paymentAnswer `json:"payment"`
}

type paymentAnswer struct {
	Success bool `json:"success"`
}

// ExtractSubmission parses a webhook body into a Submission. The answers list
// is walked once; the first answer typed "email" and the first typed "payment"
// win when duplicates exist. Field values are passed through untouched.
func ExtractSubmission(body []byte) (Submission, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Submission{}, ErrMalformedPayload
	}
	fr := envelope.FormResponse
	if fr == nil || strings.TrimSpace(fr.FormID) == "" || strings.TrimSpace(fr.Token) == "" {
		return Submission{}, ErrMalformedPayload
	}

	var emailFound, paymentFound *answer
	for i := range fr.Answers {
		a := &fr.Answers[i]
		switch a.Type {
		case "email":
			if emailFound == nil {
				emailFound = a
			}
		case "payment":
			if paymentFound == nil {
				paymentFound = a
			}
		}
		if emailFound != nil && paymentFound != nil {
			break
		}
	}
	if emailFound == nil || emailFound.Email == "" {
		return Submission{}, ErrMalformedPayload
	}
	if paymentFound == nil || paymentFound.Payment == nil {
		return Submission{}, ErrMalformedPayload
	}

	return Submission{
		FormID:           fr.FormID,
		Token:            fr.Token,
		Email:            emailFound.Email,
		PaymentCompleted: paymentFound.Payment.Success,
	}, nil
}
