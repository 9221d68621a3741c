package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sisuapp/sisu/internal/cache"
	"github.com/sisuapp/sisu/internal/domain/audit"
	"github.com/sisuapp/sisu/internal/domain/user"
	"github.com/sisuapp/sisu/internal/notifications"
	"github.com/sisuapp/sisu/internal/store"
)

// Business error taxonomy. The gateway turns these into error envelopes, it
// never lets them escape as hard failures.
var (
	ErrValidation = errors.New("required data is missing")
	ErrConflict   = errors.New("email already in use")
	ErrNotFound   = errors.New("user not found")
	ErrAuth       = errors.New("email or password is not correct")
)

// UpdateInput carries the parsed record plus the field names that were
// actually present in the client payload. The diff engine needs the field
// set to apply its schema-mismatch guard; a fixed Go struct alone cannot
// tell an omitted field from an empty one.
type UpdateInput struct {
	User   user.User
	Fields []string
}

// Directory owns user records and their audit histories on top of a Store.
//
// Every mutation is a full read-modify-write of the database blob. Writes to
// the same email are serialized with a per-key mutex, so two updates for one
// user can never interleave their critical sections. Writes to different
// users remain last-write-wins at the blob level — the store holds one value.
type Directory struct {
	store store.Store
	cache *cache.Cache
	bus   *notifications.Bus

	now func() time.Time

	// monotonic millisecond clock: two updates can never share a timestamp,
	// so a history never carries colliding entry keys
	clockMu sync.Mutex
	lastMs  int64

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

type Option func(*Directory)

// WithCache enables a read-through cache for Get lookups.
func WithCache(c *cache.Cache) Option {
	return func(d *Directory) { d.cache = c }
}

// WithBus publishes account events after successful mutations and logins.
func WithBus(b *notifications.Bus) Option {
	return func(d *Directory) { d.bus = b }
}

// WithNow overrides the wall clock. Tests only.
func WithNow(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func New(s store.Store, opts ...Option) *Directory {
	d := &Directory{
		store: s,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Create stores a new account. Only email and password are taken from the
// candidate — profile fields always start out blank.
func (d *Directory) Create(ctx context.Context, candidate user.User) (user.User, error) {
	if !candidate.HasRequired() {
		return user.User{}, ErrValidation
	}

	unlock := d.lockEmail(candidate.Email)
	defer unlock()

	db, err := d.store.Load(ctx)

	if err != nil {
		return user.User{}, fmt.Errorf("load store: %w", err)
	}

	if _, exists := db.Users[candidate.Email]; exists {
		return user.User{}, ErrConflict
	}

	record := user.User{
		Email:         candidate.Email,
		Password:      candidate.Password,
		CreateDateUtc: d.nowMs(),
		UpdateDateUtc: nil,
	}

	db.Users[record.Email] = record

	if err := d.store.Save(ctx, db); err != nil {
		return user.User{}, fmt.Errorf("save store: %w", err)
	}

	stripped := record.Stripped()

	if d.cache != nil {
		d.cache.Set(record.Email, stripped)
	}

	d.publish(notifications.Event{
		Kind:  notifications.KindUserCreated,
		Email: record.Email,
		At:    record.CreateDateUtc,
	})

	return stripped, nil
}

// Get returns the stored record with the password stripped.
func (d *Directory) Get(ctx context.Context, email string) (user.User, error) {
	if d.cache != nil {
		if u, ok := d.cache.Get(email); ok {
			return u, nil
		}
	}

	db, err := d.store.Load(ctx)

	if err != nil {
		return user.User{}, fmt.Errorf("load store: %w", err)
	}

	stored, ok := db.Users[email]

	if !ok {
		return user.User{}, ErrNotFound
	}

	stripped := stored.Stripped()

	if d.cache != nil {
		d.cache.Set(email, stripped)
	}

	return stripped, nil
}

// Update replaces the stored record with the incoming one, preserving
// createDateUtc and stamping updateDateUtc, and appends the field-level diff
// to the user's audit history. Record and log land in one store write.
func (d *Directory) Update(ctx context.Context, in UpdateInput) (user.User, error) {
	if !in.User.HasRequired() {
		return user.User{}, ErrValidation
	}

	email := in.User.Email

	unlock := d.lockEmail(email)
	defer unlock()

	db, err := d.store.Load(ctx)

	if err != nil {
		return user.User{}, fmt.Errorf("load store: %w", err)
	}

	stored, ok := db.Users[email]

	if !ok {
		return user.User{}, ErrNotFound
	}

	now := d.nowMs()

	updated := in.User
	updated.CreateDateUtc = stored.CreateDateUtc
	updated.UpdateDateUtc = &now

	fields := append([]string{}, in.Fields...)
	fields = append(fields, "createDateUtc", "updateDateUtc")

	changes := audit.Diff(stored, updated, fields)

	db.Logs = audit.Append(db.Logs, email, changes, now)
	db.Users[email] = updated

	if err := d.store.Save(ctx, db); err != nil {
		return user.User{}, fmt.Errorf("save store: %w", err)
	}

	stripped := updated.Stripped()

	if d.cache != nil {
		d.cache.Set(email, stripped)
	}

	if len(changes) > 0 {
		d.publish(notifications.Event{
			Kind:    notifications.KindUserUpdated,
			Email:   email,
			At:      now,
			Changes: changes,
		})
	}

	return stripped, nil
}

// Login checks the supplied credentials against the stored record. The match
// is an exact string comparison — this simulated store keeps passwords as-is.
func (d *Directory) Login(ctx context.Context, email, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, ErrValidation
	}

	db, err := d.store.Load(ctx)

	if err != nil {
		return user.User{}, fmt.Errorf("load store: %w", err)
	}

	stored, ok := db.Users[email]

	if !ok || stored.Password != password {
		return user.User{}, ErrAuth
	}

	d.publish(notifications.Event{
		Kind:  notifications.KindUserLoggedIn,
		Email: email,
		At:    d.now().UnixMilli(),
	})

	return stored.Stripped(), nil
}

// Logs returns the user's change history, oldest first. A user that has
// never been updated has no history and reports not found, matching the
// lookup semantics of the log map itself.
func (d *Directory) Logs(ctx context.Context, email string) (audit.History, error) {
	db, err := d.store.Load(ctx)

	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	history, ok := db.Logs[email]

	if !ok {
		return nil, ErrNotFound
	}

	out := make(audit.History, len(history))
	copy(out, history)

	return out, nil
}

func (d *Directory) lockEmail(email string) func() {
	d.lockMu.Lock()
	m, ok := d.locks[email]

	if !ok {
		m = &sync.Mutex{}
		d.locks[email] = m
	}
	d.lockMu.Unlock()

	m.Lock()
	return m.Unlock
}

func (d *Directory) nowMs() int64 {
	d.clockMu.Lock()
	defer d.clockMu.Unlock()

	ms := d.now().UnixMilli()

	if ms <= d.lastMs {
		ms = d.lastMs + 1
	}
	d.lastMs = ms

	return ms
}

func (d *Directory) publish(ev notifications.Event) {
	if d.bus != nil {
		d.bus.Publish(ev)
	}
}
