package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func stripeHeader(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyStripeSignature(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Unix(1767225600, 0)

	header := stripeHeader(payload, secret, now)
	if err := VerifyStripeSignature(payload, header, secret, now, 5*time.Minute); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
}

func TestVerifyStripeSignatureTamperedPayload(t *testing.T) {
	secret := "whsec_test"
	now := time.Unix(1767225600, 0)
	header := stripeHeader([]byte(`{"amount":100}`), secret, now)

	if err := VerifyStripeSignature([]byte(`{"amount":99999}`), header, secret, now, 5*time.Minute); err == nil {
		t.Fatal("tampered payload accepted")
	}
}

func TestVerifyStripeSignatureWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Unix(1767225600, 0)
	header := stripeHeader(payload, "whsec_other", now)

	if err := VerifyStripeSignature(payload, header, "whsec_test", now, 5*time.Minute); err == nil {
		t.Fatal("signature under wrong secret accepted")
	}
}

func TestVerifyStripeSignatureExpiredTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	signedAt := time.Unix(1767225600, 0)
	header := stripeHeader(payload, secret, signedAt)

	// Replay ten minutes later, outside the five-minute tolerance.
	if err := VerifyStripeSignature(payload, header, secret, signedAt.Add(10*time.Minute), 5*time.Minute); err == nil {
		t.Fatal("expired timestamp accepted")
	}
	// Inside the tolerance it still verifies.
	if err := VerifyStripeSignature(payload, header, secret, signedAt.Add(4*time.Minute), 5*time.Minute); err != nil {
		t.Fatalf("signature within tolerance rejected: %v", err)
	}
}

func TestVerifyStripeSignatureMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "v1=abc", "t=123", "t=notanumber,v1=abc"} {
		if err := VerifyStripeSignature([]byte(`{}`), header, "whsec_test", time.Now(), 5*time.Minute); err == nil {
			t.Errorf("malformed header %q accepted", header)
		}
	}
}

func TestVerifyStripeSignatureMultipleV1(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_test"
	now := time.Unix(1767225600, 0)

	// A rotated-secret delivery carries two v1 entries; any match passes.
	header := "v1=deadbeef," + stripeHeader(payload, secret, now)
	if err := VerifyStripeSignature(payload, header, secret, now, 5*time.Minute); err != nil {
		t.Fatalf("header with extra stale v1 rejected: %v", err)
	}
}

func TestVerifyEduzzSignature(t *testing.T) {
	payload := []byte(`{"event":"invoice_paid","invoice_id":"inv_1"}`)
	secret := "eduzz_secret"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	sig := hex.EncodeToString(mac.Sum(nil))

	if err := VerifyEduzzSignature(payload, sig, secret); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := VerifyEduzzSignature([]byte(`{"event":"invoice_paid"}`), sig, secret); err == nil {
		t.Fatal("tampered payload accepted")
	}
	if err := VerifyEduzzSignature(payload, "not-a-signature", secret); err == nil {
		t.Fatal("garbage signature accepted")
	}
}
