package validation_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/env0/saga/internal/validation"
)

func TestSigningSecret_ValidateSignature(t *testing.T) {
	body := []byte("command=%2Fsaga&text=deploy+staging&user_name=jane")
	now := strconv.FormatInt(time.Now().Unix(), 10)
	stale := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	secret := validation.SigningSecret("key")

	testCases := []struct {
		Name        string
		Headers     map[string]string
		Body        []byte
		ExpectError bool
	}{
		{
			Name:        "missing_headers",
			Headers:     map[string]string{},
			ExpectError: true,
		},
		{
			Name: "missing_timestamp",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, now, body),
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "malformed_timestamp",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, "soon", body),
				validation.TimestampHeader: "soon",
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "stale_timestamp",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, stale, body),
				validation.TimestampHeader: stale,
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "tampered_signature",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, now, body) + "0",
				validation.TimestampHeader: now,
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "tampered_body",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, now, body),
				validation.TimestampHeader: now,
			},
			Body:        append([]byte(nil), append(body, '!')...),
			ExpectError: true,
		},
		{
			Name: "wrong_secret",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign("other", now, body),
				validation.TimestampHeader: now,
			},
			Body:        body,
			ExpectError: true,
		},
		{
			Name: "valid_signature",
			Headers: map[string]string{
				validation.SignatureHeader: validation.Sign(secret, now, body),
				validation.TimestampHeader: now,
			},
			Body: body,
		},
	}

	_inst := validation.NewSigningSecret("key")
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			if err := _inst.ValidateSignature(tc.Body, tc.Headers); (err != nil) != tc.ExpectError {
				t.Errorf("SigningSecret.ValidateSignature() error = %v, expectError %v", err, tc.ExpectError)
			}
		})
	}
}

func TestSigningSecret_MissingSecret(t *testing.T) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte("command=%2Fsaga")
	headers := map[string]string{
		validation.SignatureHeader: validation.Sign("", now, body),
		validation.TimestampHeader: now,
	}

	var nilSecret *validation.SigningSecret
	if err := nilSecret.ValidateSignature(body, headers); err == nil {
		t.Error("expected error for nil signing secret")
	}
	if err := validation.NewSigningSecret("").ValidateSignature(body, headers); err == nil {
		t.Error("expected error for empty signing secret")
	}
}

// Any body signed with a secret must verify against the same secret and
// timestamp, for arbitrary payload shapes.
func TestSigningSecret_SignVerifyAgreement(t *testing.T) {
	secret := validation.NewSigningSecret("s3cr3t")
	for i, body := range []string{
		"",
		"text=tag+v1.2.3",
		"command=%2Fsaga&text=deploy+staging+fast&response_url=https%3A%2F%2Fhooks.example.com%2Fabc",
	} {
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		headers := map[string]string{
			validation.SignatureHeader: validation.Sign(*secret, ts, []byte(body)),
			validation.TimestampHeader: ts,
		}
		if err := secret.ValidateSignature([]byte(body), headers); err != nil {
			t.Errorf("case %d: expected signed body to verify, got %v", i, err)
		}
	}
}

func TestSigningSecret_ToleranceWindow(t *testing.T) {
	secret := validation.NewSigningSecret("key")
	ts := strconv.FormatInt(time.Now().Add(-2*time.Minute).Unix(), 10)
	body := []byte("text=tag")
	headers := map[string]string{
		validation.SignatureHeader: validation.Sign(*secret, ts, body),
		validation.TimestampHeader: ts,
	}

	if err := secret.ValidateSignatureWithin(validation.DefaultTolerance, body, headers); err != nil {
		t.Errorf("expected 2m-old timestamp to pass the default window, got %v", err)
	}
	if err := secret.ValidateSignatureWithin(time.Minute, body, headers); err == nil {
		t.Error("expected 2m-old timestamp to fail a 1m window")
	}
}
