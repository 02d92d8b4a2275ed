// Package validation provides functionality for validating Slack request signatures to verify request authenticity.
package validation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// SignatureHeader is the lower-cased header carrying the claimed request signature.
	SignatureHeader = "x-slack-signature"
	// TimestampHeader is the lower-cased header carrying the request timestamp.
	TimestampHeader = "x-slack-request-timestamp"

	// DefaultTolerance is the maximum accepted age of a request timestamp.
	DefaultTolerance = 5 * time.Minute

	signatureVersion = "v0"
)

// ErrSignatureMismatch is returned when the claimed signature does not match
// the one computed from the request body. Callers receive a single
// authentication failure regardless of the underlying cause.
var ErrSignatureMismatch = errors.New("request signature mismatch")

// SigningSecret represents the pre-shared secret used to validate slash-command signatures.
type SigningSecret string

// NewSigningSecret creates a new SigningSecret instance from the provided secret string and returns its address.
func NewSigningSecret(secret string) *SigningSecret {
	s := SigningSecret(secret)
	return &s
}

// Sign computes the versioned hex-encoded HMAC-SHA256 signature over
// "<version>:<timestamp>:<body>", in the form carried by SignatureHeader.
func Sign(secret SigningSecret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s:%s:", signatureVersion, timestamp)
	mac.Write(body)
	return signatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}

// ValidateSignature validates the HMAC-SHA256 signature of a slash-command
// request using the provided raw body and lower-cased headers, applying
// DefaultTolerance as the anti-replay freshness window.
func (s *SigningSecret) ValidateSignature(body []byte, headers map[string]string) error {
	return s.ValidateSignatureWithin(DefaultTolerance, body, headers)
}

// ValidateSignatureWithin is ValidateSignature with an explicit freshness window.
func (s *SigningSecret) ValidateSignatureWithin(tolerance time.Duration, body []byte, headers map[string]string) error {
	if s == nil || *s == "" {
		return errors.New("missing signing secret")
	}
	signature, found := headers[SignatureHeader]
	if !found {
		return errors.New("missing request signature")
	}
	timestamp, found := headers[TimestampHeader]
	if !found {
		return errors.New("missing request timestamp")
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed request timestamp: %q", timestamp)
	}
	if age := time.Since(time.Unix(ts, 0)); age > tolerance || age < -tolerance {
		return fmt.Errorf("stale request timestamp: %s", timestamp)
	}

	expected := Sign(*s, timestamp, body)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrSignatureMismatch
	}
	return nil
}
