// Package store implements the PersistenceStore contract (§6):
// findById, findManyByIds, updateFields, with no transactions required.
package store

import (
	"context"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/model"
)

// Fields is the set of lead fields the core is allowed to write — exactly
// phoneNumber and emailVerified (§3). Nil pointers mean "leave unchanged."
type Fields struct {
	PhoneNumber   *string
	EmailVerified *model.TriState
}

// Store is the persistence interface the orchestrator and workflows depend
// on. Implementations: memory (tests, single-process demo), postgres
// (production), sqlite (local/dev).
type Store interface {
	// FindByID returns the lead with id, or nil if absent.
	FindByID(ctx context.Context, id int64) (*model.Lead, error)

	// FindManyByIDs returns leads for ids, in no particular order. Missing
	// ids are silently omitted from the result.
	FindManyByIDs(ctx context.Context, ids []int64) ([]model.Lead, error)

	// UpdateFields writes the non-nil fields of f onto the lead with id.
	UpdateFields(ctx context.Context, id int64, f Fields) error

	Close() error
}
