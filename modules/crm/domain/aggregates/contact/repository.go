package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/coldreach/cedb/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewError("CONTACT_NOT_FOUND", "contact not found")
	ErrEmailTaken = serrors.NewError("CONTACT_EMAIL_CONFLICT", "a contact with this email already exists")
)

type Repository interface {
	// GetAll returns every non-deleted contact ordered by created_at
	// descending. Soft-deleted rows are never returned.
	GetAll(ctx context.Context) ([]Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, c Contact) (Contact, error)
	Update(ctx context.Context, c Contact) (Contact, error)
	// SoftDelete stamps deleted_at; the row stays in the table but leaves
	// every listing.
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
