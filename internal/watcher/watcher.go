package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pedidos/internal/config"
	"pedidos/internal/connectors"
	gmailconnector "pedidos/internal/connectors/gmail"
	imapconnector "pedidos/internal/connectors/imap"
	"pedidos/internal/ingest"
	"pedidos/internal/normalize"
	"pedidos/internal/pipeline"
	"pedidos/internal/storage"
)

// Service polls the inbox directory (and optionally a mailbox) for new
// order submissions, processes whatever is pending and refreshes the
// exported workbooks.
type Service struct {
	db    *storage.DB
	cfg   config.Config
	vocab normalize.Vocabulary
}

func NewService(db *storage.DB, cfg config.Config, vocab normalize.Vocabulary) *Service {
	return &Service{db: db, cfg: cfg, vocab: vocab}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(); err != nil {
			fmt.Printf("watcher cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatcherIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle() error {
	imported, err := s.importInbox()
	if err != nil {
		return err
	}

	fetched := 0
	if s.cfg.WatcherFetchMail {
		result, err := s.fetchMail()
		if err != nil {
			return err
		}
		fetched = result.Submissions
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg, s.vocab)
	processed, err := processor.ProcessPending(s.cfg.WatcherProcessBatch)
	if err != nil {
		return err
	}

	if s.cfg.WatcherAutoExport && processed.Items > 0 {
		if err := s.exportAll(); err != nil {
			return err
		}
	}

	fmt.Printf("watcher cycle done imported=%d fetched=%d processed=%d items=%d\n",
		imported, fetched, processed.Submissions, processed.Items)
	return nil
}

// importInbox ingests every file dropped into the inbox directory and
// moves it to done/ so the next cycle does not pick it up again. A file
// that fails to decode moves to failed/ instead of blocking the cycle.
func (s *Service) importInbox() (int, error) {
	entries, err := os.ReadDir(s.cfg.InboxDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.cfg.InboxDir, entry.Name())

		subs, err := ingest.FromFile(path, s.cfg)
		if err != nil {
			fmt.Printf("watcher: %s: %v\n", entry.Name(), err)
			if err := s.moveTo(path, "failed"); err != nil {
				return imported, err
			}
			continue
		}

		for _, sub := range subs {
			if _, err := s.db.UpsertSubmission(sub, path); err != nil {
				return imported, err
			}
			imported++
		}
		if err := s.moveTo(path, "done"); err != nil {
			return imported, err
		}
	}
	return imported, nil
}

func (s *Service) moveTo(path, subdir string) error {
	dir := filepath.Join(s.cfg.InboxDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.Rename(path, filepath.Join(dir, filepath.Base(path)))
}

func (s *Service) fetchMail() (connectors.FetchResult, error) {
	connector, err := s.makeConnector(strings.ToLower(strings.TrimSpace(s.cfg.WatcherProvider)))
	if err != nil {
		return connectors.FetchResult{}, err
	}
	fetchService := connectors.NewFetchService(s.db, s.cfg, connector)
	return fetchService.FetchAndImport(s.cfg.WatcherLabel, s.cfg.WatcherFetchMax)
}

func (s *Service) exportAll() error {
	rows, err := s.db.GetCanonicalRows()
	if err != nil {
		return err
	}
	if err := pipeline.ExportRowsToXLSX(rows, filepath.Join(s.cfg.OutputDir, "pedidos.xlsx")); err != nil {
		return err
	}

	report, err := pipeline.BuildReport(s.db)
	if err != nil {
		return err
	}
	if err := pipeline.ExportReportToXLSX(report, filepath.Join(s.cfg.OutputDir, "relatorio.xlsx")); err != nil {
		return err
	}

	_, err = s.db.MarkProcessedExported()
	return err
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported watcher provider: %s", provider)
	}
}
