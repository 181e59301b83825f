package typeform_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/receipt-relay/internal/typeform"
)

const completePayload = `{
  "form_response": {
    "form_id": "F1",
    "token": "T1",
    "answers": [
      {"type": "text", "text": "hello"},
      {"type": "email", "email": "a@b.com"},
      {"type": "payment", "payment": {"success": true}}
    ]
  }
}`

func TestExtractSubmissionComplete(t *testing.T) {
	sub, err := typeform.ExtractSubmission([]byte(completePayload))
	require.NoError(t, err)
	require.Equal(t, "F1", sub.FormID)
	require.Equal(t, "T1", sub.Token)
	require.Equal(t, "a@b.com", sub.Email)
	require.True(t, sub.PaymentCompleted)
}

func TestExtractSubmissionPaymentNotCompleted(t *testing.T) {
	payload := `{"form_response":{"form_id":"F1","token":"T1","answers":[
		{"type":"email","email":"a@b.com"},
		{"type":"payment","payment":{"success":false}}
	]}}`
	sub, err := typeform.ExtractSubmission([]byte(payload))
	require.NoError(t, err)
	require.False(t, sub.PaymentCompleted)
}

func TestExtractSubmissionFirstOccurrenceWins(t *testing.T) {
	payload := `{"form_response":{"form_id":"F1","token":"T1","answers":[
		{"type":"email","email":"first@example.com"},
		{"type":"email","email":"second@example.com"},
		{"type":"payment","payment":{"success":true}},
		{"type":"payment","payment":{"success":false}}
	]}}`
	sub, err := typeform.ExtractSubmission([]byte(payload))
	require.NoError(t, err)
	require.Equal(t, "first@example.com", sub.Email)
	require.True(t, sub.PaymentCompleted)
}

func TestExtractSubmissionMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"no form_response":  `{}`,
		"missing form_id":   `{"form_response":{"token":"T1","answers":[{"type":"email","email":"a@b.com"},{"type":"payment","payment":{"success":true}}]}}`,
		"missing token":     `{"form_response":{"form_id":"F1","answers":[{"type":"email","email":"a@b.com"},{"type":"payment","payment":{"success":true}}]}}`,
		"no answers":        `{"form_response":{"form_id":"F1","token":"T1"}}`,
		"no email answer":   `{"form_response":{"form_id":"F1","token":"T1","answers":[{"type":"payment","payment":{"success":true}}]}}`,
		"no payment answer": `{"form_response":{"form_id":"F1","token":"T1","answers":[{"type":"email","email":"a@b.com"}]}}`,
		"empty email":       `{"form_response":{"form_id":"F1","token":"T1","answers":[{"type":"email"},{"type":"payment","payment":{"success":true}}]}}`,
		"payment not object": `{"form_response":{"form_id":"F1","token":"T1","answers":[{"type":"email","email":"a@b.com"},{"type":"payment"}]}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := typeform.ExtractSubmission([]byte(payload))
			require.ErrorIs(t, err, typeform.ErrMalformedPayload)
		})
	}
}
