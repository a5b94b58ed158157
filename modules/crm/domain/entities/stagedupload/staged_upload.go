package stagedupload

import (
	"context"
	"time"

	"github.com/coldreach/cedb/pkg/serrors"
)

// SlotID is the fixed key of the single staging slot. Writing always
// replaces the previous occupant.
const SlotID = "current_upload"

var (
	// ErrNotFound is returned by Get when no upload is staged.
	ErrNotFound = serrors.NewError("STAGING_NOT_FOUND", "no staged upload")
	// ErrQuotaExceeded is kept distinct from generic I/O failures so callers
	// can show a dedicated message.
	ErrQuotaExceeded = serrors.NewError("STAGING_QUOTA", "staging storage quota exceeded")
	// ErrUnavailable signals the store cannot be reached at all.
	ErrUnavailable = serrors.NewError("STAGING_UNAVAILABLE", "staging storage unavailable")
)

// StagedUpload is the one pending file awaiting import confirmation.
type StagedUpload struct {
	id       string
	fileName string
	blob     []byte
	storedAt time.Time
}

func New(fileName string, blob []byte, storedAt time.Time) StagedUpload {
	return StagedUpload{
		id:       SlotID,
		fileName: fileName,
		blob:     blob,
		storedAt: storedAt,
	}
}

func (u StagedUpload) ID() string          { return u.id }
func (u StagedUpload) FileName() string    { return u.fileName }
func (u StagedUpload) Blob() []byte        { return u.blob }
func (u StagedUpload) StoredAt() time.Time { return u.storedAt }
func (u StagedUpload) Size() int64         { return int64(len(u.blob)) }

// Store is a durable single-slot store. At most one StagedUpload exists at a
// time; Put overwrites. No operation retries, failures surface immediately.
type Store interface {
	Put(ctx context.Context, upload StagedUpload) error
	Get(ctx context.Context) (StagedUpload, error)
	Delete(ctx context.Context) error
	Clear(ctx context.Context) error
}
