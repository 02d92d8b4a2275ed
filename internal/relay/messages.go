package relay

import (
	"fmt"
	"strings"

	"github.com/env0/saga/internal/models"
)

// SuccessMessage names the dispatched event type so the caller can correlate
// the triggered workflow.
func SuccessMessage(job *models.DispatchJob) string {
	return fmt.Sprintf("Triggered `%s` with args `%s`.", job.EventType, strings.Join(job.Args, " "))
}

// FailureMessage deliberately carries no detail; operators consult the logs.
func FailureMessage(job *models.DispatchJob) string {
	return fmt.Sprintf("Failed to trigger `%s`. Please check the operational logs.", job.EventType)
}

// BroadcastMessage announces who triggered which action class.
func BroadcastMessage(job *models.DispatchJob) string {
	switch job.Args[0] {
	case "tag":
		return fmt.Sprintf("%s tagged a new release", job.UserName)
	case "deploy":
		return fmt.Sprintf("%s triggered a deployment", job.UserName)
	default:
		return fmt.Sprintf("%s ran `%s %s`", job.UserName, job.Command, job.Args[0])
	}
}
