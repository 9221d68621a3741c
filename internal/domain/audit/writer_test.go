package audit

import "testing"

func TestAppend_EmptyChangeSetIsNoOp(t *testing.T) {
	logs := HistoryMap{"a@x.com": History{{1: ChangeSet{{Key: "phone"}}}}}

	out := Append(logs, "a@x.com", nil, 2)

	if len(out["a@x.com"]) != 1 {
		t.Fatalf("expected history unchanged, got %d entries", len(out["a@x.com"]))
	}
}

func TestAppend_CreatesHistoryWhenAbsent(t *testing.T) {
	changes := ChangeSet{{Key: "firstName", OldValue: "Ann", NewValue: "Anna"}}

	out := Append(HistoryMap{}, "a@x.com", changes, 42)

	history := out["a@x.com"]
	if len(history) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(history))
	}

	got, ok := history[0][42]
	if !ok {
		t.Fatalf("entry not keyed by timestamp: %v", history[0])
	}
	if len(got) != 1 || got[0].NewValue != "Anna" {
		t.Fatalf("unexpected change set: %v", got)
	}
}

func TestAppend_DoesNotMutateInput(t *testing.T) {
	logs := HistoryMap{"a@x.com": History{{1: ChangeSet{{Key: "phone"}}}}}

	out := Append(logs, "a@x.com", ChangeSet{{Key: "gender", OldValue: "", NewValue: "other"}}, 2)

	if len(logs["a@x.com"]) != 1 {
		t.Fatalf("input map was mutated: %v", logs)
	}
	if len(out["a@x.com"]) != 2 {
		t.Fatalf("expected 2 entries in output, got %d", len(out["a@x.com"]))
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	logs := HistoryMap{}

	logs = Append(logs, "a@x.com", ChangeSet{{Key: "firstName"}}, 10)
	logs = Append(logs, "a@x.com", ChangeSet{{Key: "lastName"}}, 20)
	logs = Append(logs, "a@x.com", ChangeSet{{Key: "phone"}}, 30)

	history := logs["a@x.com"]
	if len(history) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(history))
	}

	for i, ts := range []int64{10, 20, 30} {
		if _, ok := history[i][ts]; !ok {
			t.Fatalf("entry %d not keyed by %d: %v", i, ts, history[i])
		}
	}
}
