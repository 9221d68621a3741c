package user

import "strconv"

// User is a single account record. Email doubles as the record key in the
// database blob. Password is kept as-is in the store (this is a simulated
// backend) but must never leave the service in a response payload.
type User struct {
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Gender        string `json:"gender"`
	Phone         string `json:"phone"`
	CreateDateUtc int64  `json:"createDateUtc"`
	UpdateDateUtc *int64 `json:"updateDateUtc"`
}

// Stripped returns a copy safe for response payloads.
func (u User) Stripped() User {
	u.Password = ""
	return u
}

// HasRequired reports whether the minimum data a client must supply is present.
func (u User) HasRequired() bool {
	return u.Email != "" && u.Password != ""
}

// Field pairs a record field name with an accessor for its stringified value.
type Field struct {
	Key   string
	Value func(User) string
}

// Fields returns the record's fields in their natural order. The diff engine
// iterates this table, so the order here is the order change entries come out.
func Fields() []Field {
	return []Field{
		{Key: "email", Value: func(u User) string { return u.Email }},
		{Key: "password", Value: func(u User) string { return u.Password }},
		{Key: "firstName", Value: func(u User) string { return u.FirstName }},
		{Key: "lastName", Value: func(u User) string { return u.LastName }},
		{Key: "gender", Value: func(u User) string { return u.Gender }},
		{Key: "phone", Value: func(u User) string { return u.Phone }},
		{Key: "createDateUtc", Value: func(u User) string { return strconv.FormatInt(u.CreateDateUtc, 10) }},
		{Key: "updateDateUtc", Value: func(u User) string {
			if u.UpdateDateUtc == nil {
				return ""
			}
			return strconv.FormatInt(*u.UpdateDateUtc, 10)
		}},
	}
}
