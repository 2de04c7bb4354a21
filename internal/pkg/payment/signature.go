package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
)

// VerificationMode controls how an absent checkout signature is treated.
// Strict rejects it; permissive lets it pass for local testing against
// sandbox credentials. A present-but-wrong signature always fails.
type VerificationMode string

const (
	ModeStrict     VerificationMode = "strict"
	ModePermissive VerificationMode = "permissive"
)

// VerificationModeFromEnv reads PAYMENT_VERIFICATION_MODE, defaulting to strict.
func VerificationModeFromEnv() VerificationMode {
	switch strings.ToLower(strings.TrimSpace(env.GetEnv("PAYMENT_VERIFICATION_MODE", "strict"))) {
	case string(ModePermissive):
		return ModePermissive
	default:
		return ModeStrict
	}
}

// PaymentSignature computes the hex HMAC-SHA256 Razorpay attaches to a
// successful checkout: the signed message is "<order_id>|<payment_id>".
func PaymentSignature(razorpayOrderID, razorpayPaymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature recomputes the checkout signature and compares in
// constant time. A mismatch is a normal negative result, not an error.
func VerifyPaymentSignature(razorpayOrderID, razorpayPaymentID, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	expected := PaymentSignature(razorpayOrderID, razorpayPaymentID, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(sig)))
}

// CheckPaymentSignature applies the configured verification mode and
// returns ErrSignatureInvalid when the signature must be rejected.
func CheckPaymentSignature(mode VerificationMode, razorpayOrderID, razorpayPaymentID, signature, secret string) error {
	if strings.TrimSpace(signature) == "" {
		if mode == ModePermissive {
			log.Printf("payment: accepting unsigned confirmation for order %s (permissive mode)", razorpayOrderID)
			return nil
		}
		return ErrSignatureInvalid
	}
	if !VerifyPaymentSignature(razorpayOrderID, razorpayPaymentID, signature, secret) {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header: hex
// HMAC-SHA256 over the raw request body with the webhook secret, which is
// distinct from the key secret used for checkout signatures.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
