package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/qbank/internal/csv"
	"github.com/JonMunkholm/qbank/internal/logging"
)

// Options configures a Service. Zero values pick defaults.
type Options struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration
	Recorder      Recorder
	Now           func() time.Time
}

// Service is the entry point for all question bank operations. It owns one
// Session and serializes every access to it: reads of uploaded files may run
// in parallel, but merges apply one file at a time in arrival order.
type Service struct {
	mu      sync.RWMutex
	session *Session
	journal *Journal

	limiter       *ImportLimiter
	recorder      Recorder
	maxFileSize   int64
	maxConcurrent int
	now           func() time.Time
}

// NewService creates a Service with an empty store.
func NewService(opts Options) *Service {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrentImports
	}
	return &Service{
		session:       NewSession(opts.Now),
		journal:       NewJournal(DefaultJournalSize),
		limiter:       NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		recorder:      opts.Recorder,
		maxFileSize:   opts.MaxFileSize,
		maxConcurrent: opts.MaxConcurrent,
		now:           opts.Now,
	}
}

// ImportResult summarizes one merged file.
type ImportResult struct {
	ImportID    string        `json:"import_id"`
	FileName    string        `json:"file_name"`
	Rows        int           `json:"rows"`
	Inserted    int           `json:"inserted"`
	Updated     int           `json:"updated"`
	Skipped     int           `json:"skipped"`
	SkippedRows []int         `json:"skipped_rows,omitempty"`
	StoreSize   int           `json:"store_size"`
	Duration    time.Duration `json:"duration_ns"`
}

// importBatch is a fully parsed file waiting to be merged.
type importBatch struct {
	id    string
	name  string
	rows  int
	norm  NormalizeResult
	start time.Time
}

func newBatch(name string, table csv.Table, start time.Time) importBatch {
	return importBatch{
		id:    uuid.NewString(),
		name:  name,
		rows:  len(table.Rows),
		norm:  NormalizeTable(table),
		start: start,
	}
}

// ImportCSV reads a question file from r and merges it under name. The file
// is read and parsed completely before the merge; on any read error nothing
// is merged.
func (s *Service) ImportCSV(ctx context.Context, name string, r io.Reader) (*ImportResult, error) {
	start := s.now()
	if err := s.limiter.Acquire(ctx); err != nil {
		s.recorder.ImportFailed(failureReason(err))
		return nil, fmt.Errorf("import %s: %w", name, err)
	}
	text, err := csv.ReadText(r, s.maxFileSize)
	s.limiter.Release()
	if err != nil {
		s.recorder.ImportFailed(failureReason(err))
		logging.FromContext(ctx).Warn("import read failed", "file", name, "error", err)
		return nil, fmt.Errorf("import %s: %w", name, err)
	}

	return s.merge(ctx, newBatch(name, csv.ParseTable(text), start))
}

// ImportFiles reads the files at paths concurrently and merges them in the
// order given, so later files win field conflicts. If any file cannot be read,
// or ctx is done once every file has been read, no file is merged. Once merging
// starts every file is merged.
func (s *Service) ImportFiles(ctx context.Context, paths []string) ([]*ImportResult, error) {
	batches := make([]importBatch, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, path := range paths {
		g.Go(func() error {
			start := s.now()
			table, err := csv.ReadFile(path, s.maxFileSize)
			if err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			batches[i] = newBatch(filepath.Base(path), table, start)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.recorder.ImportFailed(failureReason(err))
		return nil, fmt.Errorf("import files: %w", err)
	}

	results := make([]*ImportResult, len(batches))
	stats := make([]MergeStats, len(batches))
	s.mu.Lock()
	for i, b := range batches {
		results[i], stats[i] = s.applyBatch(ctx, b)
	}
	s.mu.Unlock()

	for i, res := range results {
		s.reportBatch(ctx, res, stats[i])
	}
	return results, nil
}

// merge applies one parsed batch under the session lock.
func (s *Service) merge(ctx context.Context, b importBatch) (*ImportResult, error) {
	if err := ctx.Err(); err != nil {
		s.recorder.ImportFailed(failureReason(err))
		logging.WithFields(logging.ContextWithImportID(ctx, b.id), "file", b.name).
			Warn("import abandoned before merge", "error", err)
		return nil, fmt.Errorf("import %s: %w", b.name, err)
	}

	s.mu.Lock()
	res, stats := s.applyBatch(ctx, b)
	s.mu.Unlock()

	s.reportBatch(ctx, res, stats)
	return res, nil
}

// applyBatch merges b into the session. The caller holds s.mu.
func (s *Service) applyBatch(ctx context.Context, b importBatch) (*ImportResult, MergeStats) {
	stats := s.session.Merge(b.norm.Records, b.name)
	s.journal.Add(logging.ContextWithImportID(ctx, b.id), JournalEntry{
		Action:       ActionImport,
		FileName:     b.name,
		ImportID:     b.id,
		RowsAffected: stats.Inserted + stats.Updated,
	}, s.now())

	return &ImportResult{
		ImportID:    b.id,
		FileName:    b.name,
		Rows:        b.rows,
		Inserted:    stats.Inserted,
		Updated:     stats.Updated,
		Skipped:     len(b.norm.SkippedRows),
		SkippedRows: b.norm.SkippedRows,
		StoreSize:   s.session.Store().Len(),
		Duration:    s.now().Sub(b.start),
	}, stats
}

// reportBatch records and logs a merged batch.
func (s *Service) reportBatch(ctx context.Context, res *ImportResult, stats MergeStats) {
	s.recorder.ImportCompleted(stats, res.Skipped, res.Duration)
	s.recorder.StoreSize(res.StoreSize)

	logging.WithFields(logging.ContextWithImportID(ctx, res.ImportID), "file", res.FileName).
		Info("import completed",
			"rows", res.Rows,
			"inserted", res.Inserted,
			"updated", res.Updated,
			"skipped", res.Skipped,
			"duration_ms", res.Duration.Milliseconds(),
		)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, csv.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ErrTooManyImports):
		return "busy"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "read_error"
	}
}

// LoadHistory replaces the exam history with the contents of r.
func (s *Service) LoadHistory(ctx context.Context, name string, r io.Reader) (int, error) {
	text, err := csv.ReadText(r, s.maxFileSize)
	if err != nil {
		return 0, fmt.Errorf("load history %s: %w", name, err)
	}
	return s.setHistory(ctx, name, csv.ParseTable(text)), nil
}

// LoadHistoryFile replaces the exam history with the file at path.
func (s *Service) LoadHistoryFile(ctx context.Context, path string) (int, error) {
	table, err := csv.ReadFile(path, s.maxFileSize)
	if err != nil {
		return 0, fmt.Errorf("load history: %w", err)
	}
	return s.setHistory(ctx, filepath.Base(path), table), nil
}

func (s *Service) setHistory(ctx context.Context, name string, table csv.Table) int {
	h := ParseHistory(table)

	s.mu.Lock()
	s.session.SetHistory(h)
	s.journal.Add(ctx, JournalEntry{Action: ActionHistoryLoad, FileName: name, RowsAffected: h.Len()}, s.now())
	s.mu.Unlock()

	logging.FromContext(ctx).Info("history loaded", "file", name, "entries", h.Len())
	return h.Len()
}

// Records returns copies of all records in presentation order.
func (s *Service) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Store().List()
}

// Search returns list rows for the records matching f.
func (s *Service) Search(f Filter) []ListRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := []ListRow{}
	s.session.Store().each(func(rec Record) {
		if f.Match(rec) {
			rows = append(rows, ToListRow(rec))
		}
	})
	return rows
}

// Get returns a copy of one record.
func (s *Service) Get(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.session.Store().Get(id)
	if !ok {
		return nil, recordNotFound(id)
	}
	return rec, nil
}

// Detail is everything shown about one record: the record, its case and
// revision relations and its exam history.
type Detail struct {
	Record    Record         `json:"record"`
	Case      CaseGroup      `json:"case"`
	Revisions RevisionGroup  `json:"revisions"`
	History   []HistoryEntry `json:"history"`
}

// Detail assembles the detail view of record id.
func (s *Service) Detail(id string) (*Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	store := s.session.Store()
	rec, ok := store.Get(id)
	if !ok {
		return nil, recordNotFound(id)
	}
	cg, err := CaseGroupOf(store, id)
	if err != nil {
		return nil, err
	}
	return &Detail{
		Record:    rec,
		Case:      cg,
		Revisions: RevisionGroupOf(store, id),
		History:   s.session.History().For(id),
	}, nil
}

// CaseMembers returns the records sharing caseID.
func (s *Service) CaseMembers(caseID string) CaseGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CaseMembers(s.session.Store(), caseID)
}

// RevisionGroup returns the records sharing id's base identifier.
func (s *Service) RevisionGroup(id string) RevisionGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RevisionGroupOf(s.session.Store(), id)
}

// CaseGroups returns every case group.
func (s *Service) CaseGroups() []CaseGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CaseGroups(s.session.Store())
}

// RevisionGroups returns every revision group.
func (s *Service) RevisionGroups() []RevisionGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return RevisionGroups(s.session.Store())
}

// Form returns the current form state.
func (s *Service) Form() Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Form()
}

// EnterMode switches the form to mode, loading id for edit and revise.
func (s *Service) EnterMode(ctx context.Context, mode Mode, id string) (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.session.EnterMode(mode, id)
	if err != nil {
		return f, err
	}
	logging.FromContext(ctx).Debug("form mode changed", "mode", f.Mode, "target", f.Target, "locked", f.Locked)
	return f, nil
}

// Reset returns the form to a blank new-mode state.
func (s *Service) Reset(ctx context.Context) Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	logging.FromContext(ctx).Debug("form reset")
	return s.session.Reset()
}

// Unlock releases the edit lock after explicit confirmation.
func (s *Service) Unlock(ctx context.Context, confirmed bool) (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wasLocked := s.session.Form().Locked
	f, err := s.session.Unlock(confirmed)
	if err != nil {
		return f, err
	}
	if wasLocked {
		s.journal.Add(ctx, JournalEntry{Action: ActionUnlock, QuestionID: f.Target}, s.now())
		logging.FromContext(ctx).Warn("edit lock released", "target", f.Target)
	}
	return f, nil
}

// Save applies a form submission.
func (s *Service) Save(ctx context.Context, input Record) (SaveOutcome, error) {
	s.mu.Lock()
	mode := s.session.Form().Mode
	out, err := s.session.Save(input)
	size := s.session.Store().Len()
	if err == nil {
		s.journal.Add(ctx, JournalEntry{Action: saveAction(out), QuestionID: out.Record.ID(), RowsAffected: 1}, s.now())
	}
	s.mu.Unlock()

	s.recorder.SaveCompleted(mode, err)
	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Info("save rejected", "mode", mode, "error", err)
		return out, err
	}
	s.recorder.StoreSize(size)
	logger.Info("question saved", "mode", out.Mode, "kind", out.Kind, "question_id", out.Record.ID())
	return out, nil
}

func saveAction(out SaveOutcome) JournalAction {
	switch {
	case out.Kind == SaveUpdate:
		return ActionEdit
	case out.Mode == ModeRevise:
		return ActionRevise
	default:
		return ActionCreate
	}
}

// ExportStore renders the whole store as CSV.
func (s *Service) ExportStore() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.ExportStore()
}

// ExportAuthored renders the records authored in this session as CSV.
func (s *Service) ExportAuthored() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.ExportAuthored()
}

// Journal returns recorded session changes, newest first.
func (s *Service) Journal() []JournalEntry {
	return s.journal.Entries()
}

// ImportStatus reports read-slot usage.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight reads finish or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
