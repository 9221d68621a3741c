package audit

import "github.com/sisuapp/sisu/internal/domain/user"

// skipped from diffing: it changes on every update and would produce a
// trivial always-changed entry
const updateDateField = "updateDateUtc"

// Diff compares a stored record against its updated version and returns the
// field-level changes, in the stored record's field order.
//
// updatedFields is the set of field names present in the updated record (the
// client payload plus the fields the directory forces in). If any stored
// field is missing from it, the schemas do not line up and the whole diff is
// skipped — an empty change set, not an error.
func Diff(stored, updated user.User, updatedFields []string) ChangeSet {
	present := make(map[string]bool, len(updatedFields))

	for _, f := range updatedFields {
		present[f] = true
	}

	fields := user.Fields()

	for _, f := range fields {
		if !present[f.Key] {
			return nil
		}
	}

	var changes ChangeSet

	for _, f := range fields {
		if f.Key == updateDateField {
			continue
		}

		oldValue := f.Value(stored)
		newValue := f.Value(updated)

		if oldValue != newValue {
			changes = append(changes, ChangeEntry{
				Key:      f.Key,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	return changes
}
