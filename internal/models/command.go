package models

// SlashCommand is the flat key-value payload carried by a Slack slash command.
// The wire format is application/x-www-form-urlencoded.
type SlashCommand struct {
	Token       string `schema:"token"`
	TeamID      string `schema:"team_id"`
	TeamDomain  string `schema:"team_domain"`
	ChannelID   string `schema:"channel_id"`
	ChannelName string `schema:"channel_name"`
	UserID      string `schema:"user_id"`
	UserName    string `schema:"user_name"`
	Command     string `schema:"command"`
	Text        string `schema:"text"`
	ResponseURL string `schema:"response_url"`
	TriggerID   string `schema:"trigger_id"`
}

// DispatchJob is the unit of deferred work produced by the handler once a
// command has been verified and decoded. It is JSON-serialisable because it
// crosses the invocation boundary in two-stage (lambda) mode.
type DispatchJob struct {
	EventType   string   `json:"event_type"`
	Command     string   `json:"command"`
	UserName    string   `json:"user_name"`
	Args        []string `json:"args"`
	ResponseURL string   `json:"response_url"`
	ChannelID   string   `json:"channel_id,omitempty"`
}
