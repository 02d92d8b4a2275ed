package relay_test

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/env0/saga/internal/models"
	"github.com/env0/saga/internal/relay"
)

func TestArgs(t *testing.T) {
	testCases := []struct {
		Name     string
		Text     string
		Expected []string
	}{
		{Name: "empty", Text: "", Expected: nil},
		{Name: "blank", Text: "   ", Expected: nil},
		{Name: "single", Text: "tag", Expected: []string{"tag"}},
		{Name: "multiple", Text: "deploy staging fast", Expected: []string{"deploy", "staging", "fast"}},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			args := relay.Args(tc.Text)
			assert.Len(t, args, len(tc.Expected))
			assert.ElementsMatch(t, tc.Expected, args)
		})
	}
}

func TestNewJob(t *testing.T) {
	cmd := &models.SlashCommand{
		Command:     "/saga",
		Text:        "deploy staging fast",
		UserName:    "jane",
		ChannelID:   "C123",
		ResponseURL: "https://hooks.example.com/T0/B0/XYZ",
	}

	job, err := relay.NewJob(cmd, relay.DefaultEventTypePrefix)
	require.NoError(t, err)
	assert.Equal(t, "saga-deploy", job.EventType)
	assert.Equal(t, []string{"deploy", "staging", "fast"}, job.Args)
	assert.Equal(t, "/saga", job.Command)
	assert.Equal(t, "jane", job.UserName)
	assert.Equal(t, cmd.ResponseURL, job.ResponseURL)
}

func TestNewJob_MissingEventType(t *testing.T) {
	for _, text := range []string{"", "  "} {
		_, err := relay.NewJob(&models.SlashCommand{Text: text}, relay.DefaultEventTypePrefix)
		assert.ErrorIs(t, err, relay.ErrMissingEventType)
	}
}

// Identical inputs must derive identical jobs: the payload shape carries no
// hidden request-specific state.
func TestNewJob_Deterministic(t *testing.T) {
	cmd := &models.SlashCommand{Command: "/saga", Text: "tag v1.2.3", UserName: "jane"}

	first, err := relay.NewJob(cmd, relay.DefaultEventTypePrefix)
	require.NoError(t, err)
	second, err := relay.NewJob(cmd, relay.DefaultEventTypePrefix)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Decoding is a left-inverse of encoding: an arbitrary flat payload survives
// form-encoding, base64 transport encoding, and the decode pipeline.
func TestParseSlashCommand_RoundTrip(t *testing.T) {
	payload := url.Values{}
	payload.Set("command", "/saga")
	payload.Set("text", "tag v1.2.3")
	payload.Set("user_name", "jane")
	payload.Set("channel_id", "C123")
	payload.Set("response_url", "https://hooks.example.com/T0/B0/XYZ")
	payload.Set("unknown_future_field", "ignored")

	encoded := base64.StdEncoding.EncodeToString([]byte(payload.Encode()))

	cmd, err := relay.ParseSlashCommand(relay.DecodeTransport([]byte(encoded)))
	require.NoError(t, err)
	assert.Equal(t, "/saga", cmd.Command)
	assert.Equal(t, "tag v1.2.3", cmd.Text)
	assert.Equal(t, "jane", cmd.UserName)
	assert.Equal(t, "C123", cmd.ChannelID)
	assert.Equal(t, "https://hooks.example.com/T0/B0/XYZ", cmd.ResponseURL)
}

func TestDecodeTransport_PassThrough(t *testing.T) {
	// Plain form payloads contain characters outside the base64 alphabet and
	// must pass through untouched.
	raw := []byte("command=%2Fsaga&text=tag+v1.2.3")
	assert.Equal(t, raw, relay.DecodeTransport(raw))
}

func TestParseSlashCommand_Malformed(t *testing.T) {
	_, err := relay.ParseSlashCommand([]byte("%zz=bad"))
	assert.Error(t, err)
}
