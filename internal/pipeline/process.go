package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"pedidos/internal"
	"pedidos/internal/config"
	"pedidos/internal/normalize"
	"pedidos/internal/storage"
)

// ProcessingService drains pending submissions from storage through the
// extractor and persists the resulting canonical rows. Submissions are
// row-independent, so extraction runs on a bounded worker pool; only the
// SQLite writes stay sequential.
type ProcessingService struct {
	db        *storage.DB
	cfg       config.Config
	extractor *Extractor
}

func NewProcessingService(db *storage.DB, cfg config.Config, vocab normalize.Vocabulary) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg, extractor: NewExtractor(cfg, vocab)}
}

type ProcessResult struct {
	Submissions int
	Items       int
}

func (s *ProcessingService) ProcessPending(limit int) (ProcessResult, error) {
	start := time.Now()

	pending, err := s.db.ListSubmissionsByStatus("imported", limit)
	if err != nil {
		return ProcessResult{}, err
	}
	if len(pending) == 0 {
		return ProcessResult{}, nil
	}

	rowsBySubmission := make([][]internal.CanonicalRow, len(pending))
	var g errgroup.Group
	workers := s.cfg.ProcessWorkers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)
	for i := range pending {
		i := i
		sub := submissionFromRow(pending[i])
		g.Go(func() error {
			rowsBySubmission[i] = s.extractor.Rows(sub)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ProcessResult{}, err
	}

	itemCount := 0
	for i, subRow := range pending {
		if err := s.db.ClearSubmissionItems(subRow.ID); err != nil {
			return ProcessResult{}, err
		}
		for pos, row := range rowsBySubmission[i] {
			if err := s.db.InsertItem(subRow.ID, pos+1, row); err != nil {
				return ProcessResult{}, err
			}
			itemCount++
		}
		if err := s.db.UpdateSubmissionStatus(subRow.ID, "processed"); err != nil {
			return ProcessResult{}, err
		}
	}

	_ = s.db.InsertRun(traceID(),
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"submissions": len(pending), "items": itemCount})

	return ProcessResult{Submissions: len(pending), Items: itemCount}, nil
}

func submissionFromRow(row internal.SubmissionRow) internal.Submission {
	sub := internal.Submission{
		RowNo:       row.RowNo,
		Source:      internal.SubmissionSource(row.Source),
		Description: row.Description,
		State:       row.State,
		Requester:   row.Requester,
		Reason:      row.Reason,
	}
	if row.SubmittedAt != nil {
		if parsed, err := time.Parse(time.RFC3339, *row.SubmittedAt); err == nil {
			sub.SubmittedAt = internal.TimePtr(parsed)
		}
	}
	return sub
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
