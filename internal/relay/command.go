// Package relay implements slash-command decoding and the deferred dispatch pipeline.
package relay

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"

	"github.com/env0/saga/internal/models"
)

const (
	// DefaultEventTypePrefix is prepended to the first argument token to form the dispatch event type.
	DefaultEventTypePrefix = "saga-"
	// DefaultAckMessage is returned to the caller before the dispatch is attempted.
	DefaultAckMessage = "Got it! Dispatching your command..."
)

var (
	// ErrMissingEventType is returned when the command text yields no argument
	// tokens, leaving the dispatch event type undefined.
	ErrMissingEventType = errors.New("missing event type: empty command text")
	// ErrUnsupportedEventType is returned when the first argument token is not
	// in the configured allow-list.
	ErrUnsupportedEventType = errors.New("unsupported event type")
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	// Slack adds payload fields over time; unknown keys must not fail decoding.
	d.IgnoreUnknownKeys(true)
	return d
}

// DecodeTransport reverses the base64 transport encoding applied by the
// invocation platform, yielding the form-urlencoded payload Slack signed.
// Bodies that are not valid base64 are passed through untouched.
func DecodeTransport(body []byte) []byte {
	decoded, err := base64.StdEncoding.DecodeString(string(body))
	if err != nil {
		return body
	}
	return decoded
}

// ParseSlashCommand parses a form-urlencoded slash-command payload into its
// flat key-value representation.
func ParseSlashCommand(raw []byte) (*models.SlashCommand, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, errors.Wrap(err, "malformed form payload")
	}
	var cmd models.SlashCommand
	if err = formDecoder.Decode(&cmd, values); err != nil {
		return nil, errors.Wrap(err, "failed to decode slash command")
	}
	return &cmd, nil
}

// Args splits command text into its whitespace-separated argument tokens.
// Empty or missing text yields an empty sequence.
func Args(text string) []string {
	return strings.Fields(text)
}

// NewJob derives the dispatch job for a parsed command. The first argument
// token designates the event type; the remaining tokens pass through
// verbatim. An empty argument sequence is a validation error: no dispatch may
// be attempted with an undefined event type.
func NewJob(cmd *models.SlashCommand, prefix string) (*models.DispatchJob, error) {
	args := Args(cmd.Text)
	if len(args) == 0 {
		return nil, ErrMissingEventType
	}
	return &models.DispatchJob{
		EventType:   prefix + args[0],
		Command:     cmd.Command,
		UserName:    cmd.UserName,
		Args:        args,
		ResponseURL: cmd.ResponseURL,
		ChannelID:   cmd.ChannelID,
	}, nil
}
