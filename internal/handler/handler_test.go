package handler_test

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/env0/saga/internal/handler"
	"github.com/env0/saga/internal/validation"
)

const testSecret = "handler-test-secret"

func signedBody(t *testing.T, text string) ([]byte, map[string]string) {
	t.Helper()
	payload := url.Values{}
	payload.Set("command", "/saga")
	payload.Set("text", text)
	payload.Set("user_name", "jane")
	payload.Set("response_url", "https://hooks.example.com/T0/B0/XYZ")
	body := []byte(payload.Encode())

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return body, map[string]string{
		validation.SignatureHeader: validation.Sign(testSecret, ts, body),
		validation.TimestampHeader: ts,
	}
}

func newHandler(t *testing.T, opts ...handler.Option) *handler.Handler {
	t.Helper()
	opts = append([]handler.Option{handler.WithSigningSecret(testSecret)}, opts...)
	hdl, err := handler.NewRelayHandler(opts...)
	require.NoError(t, err)
	return hdl
}

func TestProcess_Accepted(t *testing.T) {
	hdl := newHandler(t)
	body, headers := signedBody(t, "deploy staging fast")

	resp, job, err := hdl.Process(body, headers)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"response_type":"ephemeral"`)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "saga-deploy", job.EventType)
	assert.Equal(t, []string{"deploy", "staging", "fast"}, job.Args)
}

// The signature covers the payload Slack signed, so a base64 transport layer
// must be reversed before verification.
func TestProcess_Base64TransportBody(t *testing.T) {
	hdl := newHandler(t)
	body, headers := signedBody(t, "tag v1.2.3")
	encoded := []byte(base64.StdEncoding.EncodeToString(body))

	resp, job, err := hdl.Process(encoded, headers)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "saga-tag", job.EventType)
}

func TestProcess_RejectedSignature(t *testing.T) {
	hdl := newHandler(t)
	body, headers := signedBody(t, "tag v1.2.3")
	headers[validation.SignatureHeader] = "v0=deadbeef"

	resp, job, err := hdl.Process(body, headers)
	assert.Error(t, err)
	assert.Nil(t, job)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProcess_MissingEventType(t *testing.T) {
	hdl := newHandler(t)
	body, headers := signedBody(t, "")

	resp, job, err := hdl.Process(body, headers)
	assert.Error(t, err)
	assert.Nil(t, job)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcess_AllowedEvents(t *testing.T) {
	hdl := newHandler(t, handler.WithAllowedEvents([]string{"tag", "deploy"}))

	body, headers := signedBody(t, "deploy staging")
	_, job, err := hdl.Process(body, headers)
	require.NoError(t, err)
	require.NotNil(t, job)

	body, headers = signedBody(t, "destroy production")
	resp, job, err := hdl.Process(body, headers)
	assert.Error(t, err)
	assert.Nil(t, job)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProcess_CustomPrefixAndAck(t *testing.T) {
	hdl := newHandler(t,
		handler.WithEventTypePrefix("ops-"),
		handler.WithAckMessage("On it!"))
	body, headers := signedBody(t, "tag v1.2.3")

	resp, job, err := hdl.Process(body, headers)
	require.NoError(t, err)
	assert.Equal(t, "ops-tag", job.EventType)
	assert.Contains(t, resp.Body, "On it!")
}
