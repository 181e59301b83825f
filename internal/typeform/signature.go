package typeform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "Typeform-Signature"

// signaturePrefix tags the algorithm used for the digest.
const signaturePrefix = "sha256="

// ComputeSignature calculates the webhook signature for the provided body.
// The format is "sha256=" followed by the base64-encoded HMAC-SHA256 digest
// of the raw request body using the shared webhook secret.
func ComputeSignature(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return signaturePrefix + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the provided signature matches the one
// computed over body with secret. The comparison is constant-time. An empty
// body or an empty provided signature never verifies.
func VerifySignature(secret, body []byte, provided string) bool {
	if len(body) == 0 || provided == "" {
		return false
	}
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(provided))
}
