// Package store implements the asset graph: the six entity tables of
// the tracker plus the referential rules between them. All cascade and
// membership logic lives here; the db package underneath is a plain
// persistence provider with no knowledge of the rules.
package store

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/siteledger/siteledger/pkg/db"
)

const dateLayout = "2006-01-02"

type Store struct {
	db    db.Database
	clock func() time.Time
	log   *logrus.Entry
}

type Option func(*Store)

// WithClock overrides the timestamp source. Tests use this to pin "now".
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

func New(database db.Database, opts ...Option) *Store {
	s := &Store{
		db:    database,
		clock: time.Now,
		log:   logrus.WithField("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) now() time.Time {
	return s.clock()
}

// parseDate accepts the wire format for date-only fields. An empty
// string means the caller never set the date.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrValidation, value)
	}
	return t, nil
}

type owned interface {
	Owner() string
}

// fetch loads a record and enforces row ownership: a record owned by a
// different account is indistinguishable from a missing one.
func fetch[T owned](t db.Table[T], accountID, id string) (T, error) {
	rec, ok, err := t.Get(id)
	if err != nil {
		return rec, err
	}
	if !ok || rec.Owner() != accountID {
		return rec, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return rec, nil
}
