package services_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/domain/entities/stagedupload"
)

func TestMain(m *testing.M) {
	// The fallback logger opens the configured log file; keep it out of the
	// package directory.
	dir, err := os.MkdirTemp("", "crm-services-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv("LOG_PATH", filepath.Join(dir, "app.log"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// inMemContactRepository backs service tests without a database. It mirrors
// the real repository's behavior: newest-first listings, case-insensitive
// email uniqueness, soft-deleted rows invisible.
type inMemContactRepository struct {
	mu       sync.Mutex
	contacts []contact.Contact
	deleted  map[uuid.UUID]bool
}

func newInMemContactRepository() *inMemContactRepository {
	return &inMemContactRepository{deleted: map[uuid.UUID]bool{}}
}

func (r *inMemContactRepository) GetAll(_ context.Context) ([]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]contact.Contact, 0, len(r.contacts))
	for i := len(r.contacts) - 1; i >= 0; i-- {
		if !r.deleted[r.contacts[i].ID()] {
			out = append(out, r.contacts[i])
		}
	}
	return out, nil
}

func (r *inMemContactRepository) GetByID(_ context.Context, id uuid.UUID) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.contacts {
		if c.ID() == id && !r.deleted[id] {
			return c, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *inMemContactRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, c := range r.contacts {
		if !r.deleted[c.ID()] {
			n++
		}
	}
	return n, nil
}

func (r *inMemContactRepository) Create(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.contacts {
		if !r.deleted[existing.ID()] && strings.EqualFold(existing.Email(), c.Email()) {
			return contact.Contact{}, contact.ErrEmailTaken
		}
	}

	now := time.Now()
	stored := contact.Hydrate(
		uuid.New(), c.Email(), c.CompanyName(), c.Industry(), c.State(), c.Status(),
		c.FirstName(), c.LastName(), c.JobTitle(), c.Phone(), c.Website(), c.Notes(),
		now, now,
	)
	r.contacts = append(r.contacts, stored)
	return stored, nil
}

func (r *inMemContactRepository) Update(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.contacts {
		if existing.ID() == c.ID() && !r.deleted[c.ID()] {
			stored := contact.Hydrate(
				c.ID(), c.Email(), c.CompanyName(), c.Industry(), c.State(), c.Status(),
				c.FirstName(), c.LastName(), c.JobTitle(), c.Phone(), c.Website(), c.Notes(),
				existing.CreatedAt(), time.Now(),
			)
			r.contacts[i] = stored
			return stored, nil
		}
	}
	return contact.Contact{}, contact.ErrNotFound
}

func (r *inMemContactRepository) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.contacts {
		if c.ID() == id && !r.deleted[id] {
			r.deleted[id] = true
			return nil
		}
	}
	return contact.ErrNotFound
}

// stubPublisher records published events.
type stubPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *stubPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, args...)
}

func (p *stubPublisher) PublishE(args ...any) error {
	p.Publish(args...)
	return nil
}

func (p *stubPublisher) Subscribe(handler interface{})   {}
func (p *stubPublisher) Unsubscribe(handler interface{}) {}
func (p *stubPublisher) Clear()                          {}
func (p *stubPublisher) SubscribersCount() int           { return 0 }

func (p *stubPublisher) published() []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]interface{}(nil), p.events...)
}

// inMemStagingStore is a map-free single slot for import tests.
type inMemStagingStore struct {
	mu     sync.Mutex
	upload *stagedupload.StagedUpload
}

func (s *inMemStagingStore) Put(_ context.Context, upload stagedupload.StagedUpload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = &upload
	return nil
}

func (s *inMemStagingStore) Get(_ context.Context) (stagedupload.StagedUpload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upload == nil {
		return stagedupload.StagedUpload{}, stagedupload.ErrNotFound
	}
	return *s.upload, nil
}

func (s *inMemStagingStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = nil
	return nil
}

func (s *inMemStagingStore) Clear(ctx context.Context) error {
	return s.Delete(ctx)
}

// brokenDeleteStore stages and reads fine but cannot clear its slot.
type brokenDeleteStore struct {
	inMemStagingStore
	deleteErr error
}

func (s *brokenDeleteStore) Delete(context.Context) error {
	return s.deleteErr
}
