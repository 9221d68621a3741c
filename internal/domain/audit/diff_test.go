package audit

import (
	"testing"

	"github.com/sisuapp/sisu/internal/domain/user"
)

func allFieldNames() []string {
	fields := user.Fields()
	names := make([]string, 0, len(fields))

	for _, f := range fields {
		names = append(names, f.Key)
	}
	return names
}

func baseUser() user.User {
	return user.User{
		Email:         "a@x.com",
		Password:      "pw1",
		FirstName:     "Ann",
		LastName:      "Lee",
		Gender:        "female",
		Phone:         "555-0101",
		CreateDateUtc: 1700000000000,
	}
}

func TestDiff_SingleChangedField(t *testing.T) {
	stored := baseUser()
	updated := stored
	updated.FirstName = "Anna"

	changes := Diff(stored, updated, allFieldNames())

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(changes), changes)
	}

	c := changes[0]
	if c.Key != "firstName" || c.OldValue != "Ann" || c.NewValue != "Anna" {
		t.Fatalf("unexpected change entry: %+v", c)
	}
}

func TestDiff_OrderFollowsFieldOrder(t *testing.T) {
	stored := baseUser()
	updated := stored
	updated.Phone = "555-0202"
	updated.LastName = "Chan"
	updated.Password = "pw2"

	changes := Diff(stored, updated, allFieldNames())

	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}

	// natural record order: password before lastName before phone
	want := []string{"password", "lastName", "phone"}

	for i, key := range want {
		if changes[i].Key != key {
			t.Fatalf("change %d: expected key %s, got %s", i, key, changes[i].Key)
		}
	}
}

func TestDiff_NoChanges(t *testing.T) {
	stored := baseUser()

	changes := Diff(stored, stored, allFieldNames())

	if len(changes) != 0 {
		t.Fatalf("expected empty change set, got %v", changes)
	}
}

func TestDiff_UpdateDateExcluded(t *testing.T) {
	stored := baseUser()
	updated := stored

	ts := int64(1700000001000)
	updated.UpdateDateUtc = &ts

	changes := Diff(stored, updated, allFieldNames())

	if len(changes) != 0 {
		t.Fatalf("updateDateUtc must never be diffed, got %v", changes)
	}
}

func TestDiff_SchemaMismatchProducesNothing(t *testing.T) {
	stored := baseUser()
	updated := stored
	updated.FirstName = "Anna"

	// payload missing the gender field entirely
	partial := []string{"email", "password", "firstName", "lastName", "phone", "createDateUtc", "updateDateUtc"}

	changes := Diff(stored, updated, partial)

	if changes != nil {
		t.Fatalf("expected nil change set on schema mismatch, got %v", changes)
	}
}
