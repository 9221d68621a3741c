package session

import "time"

// JS Date.toUTCString layout; "GMT" is literal text here, parsed times come
// back as UTC.
const expirationFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// Session is the client-held proof of a prior successful login. It lives
// entirely on the caller's side — the backend never stores or checks it.
type Session struct {
	Email      string `json:"email"`
	Expiration string `json:"expiration"`
}

// New creates a session expiring one month from now.
func New(email string, now time.Time) Session {
	return Session{
		Email:      email,
		Expiration: now.UTC().AddDate(0, 1, 0).Format(expirationFormat),
	}
}

// Valid reports whether the session has not expired yet. Expiration checking
// is the caller's responsibility; the directory itself never consults it.
func (s Session) Valid(now time.Time) bool {
	exp, err := time.Parse(expirationFormat, s.Expiration)

	if err != nil {
		return false
	}

	return now.UTC().Before(exp)
}
