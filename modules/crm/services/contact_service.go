package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/pkg/composables"
	"github.com/coldreach/cedb/pkg/eventbus"
)

type ContactService struct {
	repo      contact.Repository
	publisher eventbus.EventBus
}

func NewContactService(repo contact.Repository, publisher eventbus.EventBus) *ContactService {
	return &ContactService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ContactService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ContactService) GetAll(ctx context.Context) ([]contact.Contact, error) {
	return s.repo.GetAll(ctx)
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) Create(ctx context.Context, data *contact.CreateDTO) (contact.Contact, error) {
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		return s.repo.Create(txCtx, data.ToEntity())
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewCreatedEvent(*data, created))
	return created, nil
}

func (s *ContactService) Update(ctx context.Context, id uuid.UUID, data *contact.UpdateDTO) (contact.Contact, error) {
	updated, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return contact.Contact{}, err
		}
		entity := contact.Hydrate(
			existing.ID(),
			data.Email,
			data.CompanyName,
			data.Industry,
			data.State,
			contact.Status(data.Status),
			data.FirstName,
			data.LastName,
			data.JobTitle,
			data.Phone,
			data.Website,
			data.Notes,
			existing.CreatedAt(),
			existing.UpdatedAt(),
		)
		return s.repo.Update(txCtx, entity)
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewUpdatedEvent(*data, updated))
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) (contact.Contact, error) {
	deleted, err := composables.InTxResult(ctx, func(txCtx context.Context) (contact.Contact, error) {
		entity, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return contact.Contact{}, err
		}
		if err := s.repo.SoftDelete(txCtx, id); err != nil {
			return contact.Contact{}, err
		}
		return entity, nil
	})
	if err != nil {
		return contact.Contact{}, err
	}
	s.publisher.Publish(contact.NewDeletedEvent(deleted))
	return deleted, nil
}
