// Package store holds the persistence contracts of the session portal and
// their gorm implementations.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/models"

	"gorm.io/gorm"
)

// ErrStaleSession signals that a session update lost an optimistic
// concurrency race: the row changed since it was read.
var ErrStaleSession = errors.New("session was modified concurrently")

// SessionStore persists sessions. Lookups and listings never return deleted
// rows; MaxSequence scans all rows so identifiers are never reused.
type SessionStore interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	Create(ctx context.Context, s *models.Session) error
	Update(ctx context.Context, s *models.Session) error
	FindByStatusPaged(ctx context.Context, status models.SessionStatus, page, size int, sortColumn string) ([]models.Session, int64, error)
	FindByStatus(ctx context.Context, status models.SessionStatus, sortColumn string) ([]models.Session, error)
	MaxSequence(ctx context.Context) (uint64, error)
}

// CustomerStore persists customers. Customers are create-and-read only.
type CustomerStore interface {
	FindByID(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, c *models.Customer) error
	EmailExists(ctx context.Context, email string) (bool, error)
	MaxSequence(ctx context.Context) (uint64, error)
}

// HistoryStore persists session history snapshots, append-only.
type HistoryStore interface {
	Create(ctx context.Context, h *models.SessionHistory) error
}

// Stores bundles the gorm-backed stores over one database handle.
type Stores struct {
	db *gorm.DB

	Sessions  SessionStore
	Customers CustomerStore
	History   HistoryStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		db:        db,
		Sessions:  &sessionStore{db: db},
		Customers: &customerStore{db: db},
		History:   &historyStore{db: db},
	}
}

// Transaction runs fn against transaction-scoped stores; any error rolls the
// whole transaction back.
func (s *Stores) Transaction(ctx context.Context, fn func(tx *Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// MaxSequence routes an identifier class to its store, making Stores the
// idgen.SequenceSource for the whole database.
func (s *Stores) MaxSequence(ctx context.Context, class idgen.Class) (uint64, error) {
	switch class.Name {
	case idgen.Sessions.Name:
		return s.Sessions.MaxSequence(ctx)
	case idgen.Customers.Name:
		return s.Customers.MaxSequence(ctx)
	}
	return 0, fmt.Errorf("unknown entity class %q", class.Name)
}
