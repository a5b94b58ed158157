package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-faster/errors"

	"github.com/coldreach/cedb/modules/crm/domain/entities/stagedupload"
)

const (
	stagingBlobFile = stagedupload.SlotID + ".blob"
	stagingMetaFile = stagedupload.SlotID + ".json"
)

// stagingMeta is the JSON sidecar persisted next to the blob.
type stagingMeta struct {
	FileName string    `json:"file_name"`
	StoredAt time.Time `json:"stored_at"`
}

// FSStagingStore keeps the single staging slot on the local filesystem as a
// blob plus a JSON sidecar. Put replaces both files, so the slot never holds
// more than one upload.
type FSStagingStore struct {
	dir         string
	maxFileSize int64
}

func NewStagingStore(dir string, maxFileSize int64) *FSStagingStore {
	return &FSStagingStore{dir: dir, maxFileSize: maxFileSize}
}

func (s *FSStagingStore) Put(_ context.Context, upload stagedupload.StagedUpload) error {
	if s.maxFileSize > 0 && upload.Size() > s.maxFileSize {
		return stagedupload.ErrQuotaExceeded
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return classifyStagingErr(err)
	}

	meta, err := json.Marshal(stagingMeta{
		FileName: upload.FileName(),
		StoredAt: upload.StoredAt(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode staging metadata")
	}

	// The blob lands first so a crash between the two writes leaves no
	// readable slot, only an orphaned blob the next Put overwrites.
	if err := os.WriteFile(s.blobPath(), upload.Blob(), 0o644); err != nil {
		return classifyStagingErr(err)
	}
	if err := os.WriteFile(s.metaPath(), meta, 0o644); err != nil {
		_ = os.Remove(s.blobPath())
		return classifyStagingErr(err)
	}
	return nil
}

func (s *FSStagingStore) Get(_ context.Context) (stagedupload.StagedUpload, error) {
	raw, err := os.ReadFile(s.metaPath())
	if err != nil {
		if os.IsNotExist(err) {
			return stagedupload.StagedUpload{}, stagedupload.ErrNotFound
		}
		return stagedupload.StagedUpload{}, classifyStagingErr(err)
	}

	var meta stagingMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return stagedupload.StagedUpload{}, errors.Wrap(err, "corrupt staging metadata")
	}

	blob, err := os.ReadFile(s.blobPath())
	if err != nil {
		if os.IsNotExist(err) {
			return stagedupload.StagedUpload{}, stagedupload.ErrNotFound
		}
		return stagedupload.StagedUpload{}, classifyStagingErr(err)
	}

	return stagedupload.New(meta.FileName, blob, meta.StoredAt), nil
}

func (s *FSStagingStore) Delete(_ context.Context) error {
	// Metadata goes first so a partial delete cannot leave a readable slot.
	for _, path := range []string{s.metaPath(), s.blobPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return classifyStagingErr(err)
		}
	}
	return nil
}

func (s *FSStagingStore) Clear(ctx context.Context) error {
	return s.Delete(ctx)
}

func (s *FSStagingStore) blobPath() string { return filepath.Join(s.dir, stagingBlobFile) }
func (s *FSStagingStore) metaPath() string { return filepath.Join(s.dir, stagingMetaFile) }

func classifyStagingErr(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return stagedupload.ErrQuotaExceeded
	}
	if errors.Is(err, os.ErrPermission) {
		return stagedupload.ErrUnavailable
	}
	return errors.Wrap(err, "staging storage failure")
}
