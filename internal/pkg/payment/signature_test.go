package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestPaymentSignature(t *testing.T) {
	t.Parallel()

	secret := "test-key-secret"
	orderID := "order_abc12345"
	paymentID := "pay_def67890"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	want := hex.EncodeToString(mac.Sum(nil))

	if got := PaymentSignature(orderID, paymentID, secret); got != want {
		t.Fatalf("PaymentSignature() = %q, want %q", got, want)
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	t.Parallel()

	secret := "test-key-secret"
	orderID := "order_abc12345"
	paymentID := "pay_def67890"
	valid := PaymentSignature(orderID, paymentID, secret)

	if !VerifyPaymentSignature(orderID, paymentID, valid, secret) {
		t.Fatalf("expected valid signature to verify")
	}
	if !VerifyPaymentSignature(orderID, paymentID, strings.ToUpper(valid), secret) {
		t.Fatalf("expected uppercase signature to verify")
	}

	// flip one hex digit
	mutated := []byte(valid)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	if VerifyPaymentSignature(orderID, paymentID, string(mutated), secret) {
		t.Fatalf("expected mutated signature to fail")
	}

	if VerifyPaymentSignature(orderID, paymentID, "", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifyPaymentSignature(orderID, paymentID, valid, "") {
		t.Fatalf("expected empty secret to fail")
	}
	if VerifyPaymentSignature(orderID, "pay_other", valid, secret) {
		t.Fatalf("expected signature over different payment id to fail")
	}
}

func TestCheckPaymentSignature_Modes(t *testing.T) {
	t.Parallel()

	secret := "test-key-secret"
	orderID := "order_abc12345"
	paymentID := "pay_def67890"
	valid := PaymentSignature(orderID, paymentID, secret)

	tests := []struct {
		name      string
		mode      VerificationMode
		signature string
		wantErr   bool
	}{
		{name: "strict valid", mode: ModeStrict, signature: valid, wantErr: false},
		{name: "strict missing", mode: ModeStrict, signature: "", wantErr: true},
		{name: "strict wrong", mode: ModeStrict, signature: "deadbeef", wantErr: true},
		{name: "permissive missing", mode: ModePermissive, signature: "", wantErr: false},
		{name: "permissive wrong", mode: ModePermissive, signature: "deadbeef", wantErr: true},
	}

	for _, tt := range tests {
		err := CheckPaymentSignature(tt.mode, orderID, paymentID, tt.signature, secret)
		if tt.wantErr && !errors.Is(err, ErrSignatureInvalid) {
			t.Fatalf("%s: expected ErrSignatureInvalid, got %v", tt.name, err)
		}
		if !tt.wantErr && err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
	}
}

func TestVerificationModeFromEnv(t *testing.T) {
	t.Setenv("PAYMENT_VERIFICATION_MODE", "")
	if got := VerificationModeFromEnv(); got != ModeStrict {
		t.Fatalf("expected default mode strict, got %q", got)
	}

	t.Setenv("PAYMENT_VERIFICATION_MODE", "Permissive")
	if got := VerificationModeFromEnv(); got != ModePermissive {
		t.Fatalf("expected permissive, got %q", got)
	}

	t.Setenv("PAYMENT_VERIFICATION_MODE", "bogus")
	if got := VerificationModeFromEnv(); got != ModeStrict {
		t.Fatalf("expected unknown value to fall back to strict, got %q", got)
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"event":"payment.captured"}`)
	secret := "webhook-secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	if !VerifyWebhookSignature(payload, valid, secret) {
		t.Fatalf("expected valid webhook signature to verify")
	}
	if VerifyWebhookSignature(payload, valid, "other-secret") {
		t.Fatalf("expected wrong secret to fail")
	}
	if VerifyWebhookSignature(payload, "not-hex!!", secret) {
		t.Fatalf("expected non-hex signature to fail")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifyWebhookSignature([]byte(`{"event":"tampered"}`), valid, secret) {
		t.Fatalf("expected signature over different payload to fail")
	}
}
