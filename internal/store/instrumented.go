package store

import (
	"context"

	"github.com/sisuapp/sisu/internal/observability"
)

// Instrumented decorates a Store with load/save metrics.
type Instrumented struct {
	inner Store
	prom  *observability.Prom
}

func NewInstrumented(inner Store, prom *observability.Prom) *Instrumented {
	return &Instrumented{inner: inner, prom: prom}
}

func (s *Instrumented) Load(ctx context.Context) (Database, error) {
	var db Database

	err := s.prom.ObserveStore("load", func() error {
		var err error
		db, err = s.inner.Load(ctx)
		return err
	})

	return db, err
}

func (s *Instrumented) Save(ctx context.Context, db Database) error {
	return s.prom.ObserveStore("save", func() error {
		return s.inner.Save(ctx, db)
	})
}
