package services

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/coldreach/cedb/modules/crm/domain/aggregates/contact"
	"github.com/coldreach/cedb/modules/crm/domain/entities/stagedupload"
	"github.com/coldreach/cedb/modules/crm/importcsv"
	"github.com/coldreach/cedb/pkg/composables"
	"github.com/coldreach/cedb/pkg/constants"
	"github.com/coldreach/cedb/pkg/eventbus"
	"github.com/coldreach/cedb/pkg/serrors"
)

var (
	ErrImportInProgress = serrors.NewError("IMPORT_IN_PROGRESS", "an import is already running")
	ErrNoEmailMapping   = serrors.NewError("IMPORT_NO_EMAIL_MAPPING", "no column is mapped to email")
)

// stageValidationRows caps how much of the file is parsed at staging time.
// Staging only proves the file is readable CSV; the full parse happens at
// import.
const stageValidationRows = 10

// StagedOverview is what the mapping screen needs: the header row, an
// auto-derived mapping proposal, and a short preview.
type StagedOverview struct {
	FileName string
	StoredAt time.Time
	Headers  []string
	Mapping  importcsv.Mapping
	RowCount int
	Preview  [][]string
}

// RowError records one row the import could not insert. Row numbers count
// from the top of the file, header included, so row 2 is the first data row.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Inserted int        `json:"inserted"`
	Failed   []RowError `json:"failed"`
}

// ImportService owns the staged-upload lifecycle: stage, inspect, execute,
// cancel. At most one import runs at a time.
type ImportService struct {
	store     stagedupload.Store
	repo      contact.Repository
	publisher eventbus.EventBusWithError

	batchSize int
	workers   int
	running   atomic.Bool
}

func NewImportService(
	store stagedupload.Store,
	repo contact.Repository,
	publisher eventbus.EventBusWithError,
	batchSize int,
	workers int,
) *ImportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	if workers <= 0 {
		workers = 1
	}
	return &ImportService{
		store:     store,
		repo:      repo,
		publisher: publisher,
		batchSize: batchSize,
		workers:   workers,
	}
}

// Stage validates that the file parses as CSV and stores it in the single
// staging slot, replacing whatever was there.
func (s *ImportService) Stage(ctx context.Context, fileName string, blob []byte) error {
	if _, err := importcsv.Parse(bytes.NewReader(blob), importcsv.ParseOptions{Preview: stageValidationRows}); err != nil {
		return err
	}
	return s.store.Put(ctx, stagedupload.New(fileName, blob, time.Now()))
}

// Staged parses the staged file and returns the mapping screen payload.
func (s *ImportService) Staged(ctx context.Context) (*StagedOverview, error) {
	upload, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	table, err := importcsv.Parse(bytes.NewReader(upload.Blob()), importcsv.ParseOptions{})
	if err != nil {
		return nil, err
	}

	return &StagedOverview{
		FileName: upload.FileName(),
		StoredAt: upload.StoredAt(),
		Headers:  table.Headers,
		Mapping:  importcsv.AutoMap(table.Headers),
		RowCount: len(table.Rows),
		Preview:  importcsv.Preview(table, importcsv.DefaultPreviewRows),
	}, nil
}

// Cancel discards the staged upload without importing it.
func (s *ImportService) Cancel(ctx context.Context) error {
	return s.store.Delete(ctx)
}

// Execute imports the staged file using the given mapping. Rows insert
// independently, so one bad row never rolls back its neighbors; failures come
// back in the result instead. The staged slot clears once the run finishes;
// a cleanup failure is logged, never surfaced as a failed import.
func (s *ImportService) Execute(ctx context.Context, mapping importcsv.Mapping) (*ImportResult, error) {
	if !mapping.Valid() {
		return nil, ErrNoEmailMapping
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrImportInProgress
	}
	defer s.running.Store(false)

	upload, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	table, err := importcsv.Parse(bytes.NewReader(upload.Blob()), importcsv.ParseOptions{})
	if err != nil {
		return nil, err
	}

	result := s.insertRows(ctx, table, mapping)

	// The rows are already in; a stuck staging slot must not make the run
	// look failed.
	if err := s.store.Delete(ctx); err != nil {
		composables.UseLogger(ctx).WithError(err).Warn("import: failed to clear staged upload")
	}

	event := contact.NewImportedEvent(result.Inserted, len(result.Failed))
	if err := s.publisher.PublishE(event); err != nil && !errors.Is(err, eventbus.ErrNoSubscribers) {
		composables.UseLogger(ctx).WithError(err).Warn("import: subscriber failed handling imported event")
	}
	return result, nil
}

func (s *ImportService) insertRows(ctx context.Context, table *importcsv.Table, mapping importcsv.Mapping) *ImportResult {
	var (
		mu       sync.Mutex
		inserted int
		failed   []RowError
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for start := 0; start < len(table.Rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		batch := table.Rows[start:end]
		offset := start

		g.Go(func() error {
			for i, row := range batch {
				// Header is line 1, the first data row line 2.
				line := offset + i + 2

				dto := importcsv.Project(table.Headers, row, mapping)
				dto.Normalize()
				if err := constants.Validate.Var(dto.Email, "required,email"); err != nil {
					mu.Lock()
					failed = append(failed, RowError{Row: line, Reason: "invalid email"})
					mu.Unlock()
					continue
				}

				err := composables.InTx(gCtx, func(txCtx context.Context) error {
					_, err := s.repo.Create(txCtx, dto.ToEntity())
					return err
				})

				mu.Lock()
				if err != nil {
					failed = append(failed, RowError{Row: line, Reason: err.Error()})
				} else {
					inserted++
				}
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return an error; the group only bounds concurrency.
	_ = g.Wait()

	sort.Slice(failed, func(i, j int) bool { return failed[i].Row < failed[j].Row })
	return &ImportResult{Inserted: inserted, Failed: failed}
}
