package audit

// ChangeEntry records one field-level difference between two versions of a
// user record.
type ChangeEntry struct {
	Key      string `json:"key"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// ChangeSet is an ordered list of change entries produced by a single update.
type ChangeSet []ChangeEntry

// LogEntry groups the change set of one update, keyed by the update's
// timestamp in epoch milliseconds. encoding/json renders the integer key as a
// string, which matches the persisted blob layout.
type LogEntry map[int64]ChangeSet

// History is the append-only, oldest-first sequence of log entries for one
// user.
type History []LogEntry

// HistoryMap maps a user's email to their log history.
type HistoryMap map[string]History
