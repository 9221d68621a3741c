package notifications

import "log/slog"

// NewLogListener returns a subscriber that writes each account event to the
// given logger.
func NewLogListener(log *slog.Logger) func(Event) {
	return func(ev Event) {
		log.Info("account_event",
			"kind", string(ev.Kind),
			"email", ev.Email,
			"at_ms", ev.At,
			"changed_fields", len(ev.Changes),
		)
	}
}
