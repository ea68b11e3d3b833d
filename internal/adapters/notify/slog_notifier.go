// Package notify adapts the pipeline's notification sink. The console itself
// has no toast surface; notifications land in the structured log and, through
// it, whatever ships logs to the operator.
package notify

import (
	"log/slog"

	portssvc "github.com/orbitcrm/record_console_app/internal/core/ports/services"
)

// SlogNotifier writes notifications to a structured logger.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier builds a SlogNotifier.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logger}
}

var _ portssvc.Notifier = (*SlogNotifier)(nil)

// Notify is fire-and-forget; callers never consume a result.
func (n *SlogNotifier) Notify(kind portssvc.NotifyKind, message string) {
	switch kind {
	case portssvc.NotifyError:
		n.logger.Warn("Notification", slog.String("kind", string(kind)), slog.String("message", message))
	default:
		n.logger.Info("Notification", slog.String("kind", string(kind)), slog.String("message", message))
	}
}
