package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/infrastructure/persistence/models"
	"github.com/coldreach/cedb/pkg/composables"
	"github.com/coldreach/cedb/pkg/repo"
)

const (
	contactFindQuery = `
		SELECT id, email, company_name, industry, state, status,
		       first_name, last_name, job_title, phone, website, notes,
		       created_at, updated_at
		FROM contacts`

	contactCountQuery = `SELECT COUNT(*) FROM contacts WHERE deleted_at IS NULL`

	contactInsertQuery = `
		INSERT INTO contacts (
			email, company_name, industry, state, status,
			first_name, last_name, job_title, phone, website, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	contactUpdateQuery = `
		UPDATE contacts
		SET email = $1, company_name = $2, industry = $3, state = $4, status = $5,
		    first_name = $6, last_name = $7, job_title = $8, phone = $9,
		    website = $10, notes = $11, updated_at = now()
		WHERE id = $12 AND deleted_at IS NULL
		RETURNING id`

	contactSoftDeleteQuery = `
		UPDATE contacts
		SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on lower(email).
const uniqueViolation = "23505"

type PgContactRepository struct{}

func NewContactRepository() contact.Repository {
	return &PgContactRepository{}
}

func (r *PgContactRepository) GetAll(ctx context.Context) ([]contact.Contact, error) {
	query := repo.Join(contactFindQuery, repo.JoinWhere("deleted_at IS NULL"), "ORDER BY created_at DESC")
	return r.queryContacts(ctx, query)
}

func (r *PgContactRepository) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	query := repo.Join(contactFindQuery, repo.JoinWhere("id = $1", "deleted_at IS NULL"))
	contacts, err := r.queryContacts(ctx, query, id.String())
	if err != nil {
		return contact.Contact{}, err
	}
	if len(contacts) == 0 {
		return contact.Contact{}, contact.ErrNotFound
	}
	return contacts[0], nil
}

func (r *PgContactRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, contactCountQuery).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count contacts")
	}
	return count, nil
}

func (r *PgContactRepository) Create(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	m := toDBContact(c)
	var idStr string
	if err := tx.QueryRow(
		ctx,
		contactInsertQuery,
		m.Email,
		m.CompanyName,
		m.Industry,
		m.State,
		m.Status,
		m.FirstName,
		m.LastName,
		m.JobTitle,
		m.Phone,
		m.Website,
		m.Notes,
	).Scan(&idStr); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return contact.Contact{}, contact.ErrEmailTaken
		}
		return contact.Contact{}, errors.Wrap(err, "failed to create contact")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return contact.Contact{}, err
	}
	return r.GetByID(ctx, id)
}

func (r *PgContactRepository) Update(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return contact.Contact{}, err
	}

	m := toDBContact(c)
	var idStr string
	if err := tx.QueryRow(
		ctx,
		contactUpdateQuery,
		m.Email,
		m.CompanyName,
		m.Industry,
		m.State,
		m.Status,
		m.FirstName,
		m.LastName,
		m.JobTitle,
		m.Phone,
		m.Website,
		m.Notes,
		m.ID,
	).Scan(&idStr); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contact.Contact{}, contact.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return contact.Contact{}, contact.ErrEmailTaken
		}
		return contact.Contact{}, errors.Wrap(err, "failed to update contact")
	}

	return r.GetByID(ctx, c.ID())
}

func (r *PgContactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, contactSoftDeleteQuery, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete contact")
	}
	if tag.RowsAffected() == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) queryContacts(ctx context.Context, query string, args ...interface{}) ([]contact.Contact, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		var m models.Contact
		if err := rows.Scan(
			&m.ID,
			&m.Email,
			&m.CompanyName,
			&m.Industry,
			&m.State,
			&m.Status,
			&m.FirstName,
			&m.LastName,
			&m.JobTitle,
			&m.Phone,
			&m.Website,
			&m.Notes,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact row")
		}
		c, err := toDomainContact(&m)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "row iteration error")
	}

	return contacts, nil
}
