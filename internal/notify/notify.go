// Package notify sends desktop notifications through notify-send. Delivery
// is best effort: a missing notification daemon must never break a switch.
package notify

import (
	"fmt"
	"os/exec"

	"github.com/yourusername/hyprswitch/internal/logging"
)

// Urgency levels understood by notify-send
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

const appName = "hyprswitch"

// Send shows a desktop notification. Errors are logged, not returned, so
// callers can fire and forget.
func Send(summary, body string, urgency Urgency) {
	if _, err := exec.LookPath("notify-send"); err != nil {
		logging.Debug().Msg("notify-send not installed, skipping notification")
		return
	}

	args := []string{
		"--app-name", appName,
		"--urgency", string(urgency),
		summary,
	}
	if body != "" {
		args = append(args, body)
	}

	if err := exec.Command("notify-send", args...).Run(); err != nil {
		logging.Warn().Err(err).Str("summary", summary).Msg("failed to send notification")
	}
}

// Errorf shows a critical notification for failures the user must see, like
// a dead daemon behind a bound key.
func Errorf(summary string, args ...interface{}) {
	Send(fmt.Sprintf(summary, args...), "", UrgencyCritical)
}
