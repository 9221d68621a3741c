package audit

// Append wraps a change set as a log entry keyed by timestampMs and appends it
// to the user's history. An empty change set is a no-op, so the log never
// holds empty entries.
//
// The input map is not mutated; the caller gets an updated copy to persist.
func Append(logs HistoryMap, email string, changes ChangeSet, timestampMs int64) HistoryMap {
	if len(changes) == 0 {
		return logs
	}

	entry := LogEntry{timestampMs: changes}

	out := make(HistoryMap, len(logs)+1)

	for k, v := range logs {
		out[k] = v
	}

	history := make(History, 0, len(logs[email])+1)
	history = append(history, logs[email]...)
	history = append(history, entry)

	out[email] = history

	return out
}
