package contact

// CreatedEvent is published after a contact is persisted.
type CreatedEvent struct {
	Data   CreateDTO
	Result Contact
}

// UpdatedEvent is published after a contact is updated.
type UpdatedEvent struct {
	Data   UpdateDTO
	Result Contact
}

// DeletedEvent is published after a contact is soft-deleted.
type DeletedEvent struct {
	Result Contact
}

// ImportedEvent is published after a CSV import finishes, whatever the mix
// of per-row outcomes.
type ImportedEvent struct {
	Inserted int
	Failed   int
}

func NewCreatedEvent(data CreateDTO, result Contact) *CreatedEvent {
	return &CreatedEvent{Data: data, Result: result}
}

func NewUpdatedEvent(data UpdateDTO, result Contact) *UpdatedEvent {
	return &UpdatedEvent{Data: data, Result: result}
}

func NewDeletedEvent(result Contact) *DeletedEvent {
	return &DeletedEvent{Result: result}
}

func NewImportedEvent(inserted, failed int) *ImportedEvent {
	return &ImportedEvent{Inserted: inserted, Failed: failed}
}
