package handlers

import (
	"sync/atomic"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/pkg/eventbus"
)

// RefreshTracker counts contact mutations so clients can cheaply detect that
// their cached list is stale. Every create, update, delete and import bumps
// the counter; a client compares the value it last saw and refetches on
// mismatch.
type RefreshTracker struct {
	counter atomic.Int64
}

func NewRefreshTracker(publisher eventbus.EventBus) *RefreshTracker {
	t := &RefreshTracker{}
	publisher.Subscribe(t.onCreated)
	publisher.Subscribe(t.onUpdated)
	publisher.Subscribe(t.onDeleted)
	publisher.Subscribe(t.onImported)
	return t
}

func (t *RefreshTracker) Version() int64 { return t.counter.Load() }

func (t *RefreshTracker) onCreated(_ *contact.CreatedEvent)   { t.counter.Add(1) }
func (t *RefreshTracker) onUpdated(_ *contact.UpdatedEvent)   { t.counter.Add(1) }
func (t *RefreshTracker) onDeleted(_ *contact.DeletedEvent)   { t.counter.Add(1) }
func (t *RefreshTracker) onImported(_ *contact.ImportedEvent) { t.counter.Add(1) }
