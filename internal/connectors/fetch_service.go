package connectors

import (
	"fmt"

	"pedidos/internal/config"
	"pedidos/internal/ingest"
	"pedidos/internal/storage"
)

type FetchService struct {
	db        *storage.DB
	cfg       config.Config
	connector MailConnector
	store     *MailStore
}

type FetchResult struct {
	Fetched     int
	Orders      int
	Submissions int
}

func NewFetchService(db *storage.DB, cfg config.Config, connector MailConnector) *FetchService {
	return &FetchService{
		db:        db,
		cfg:       cfg,
		connector: connector,
		store:     NewMailStore(cfg.RawMailDir),
	}
}

// FetchAndImport pulls messages off the mailbox, keeps the ones that
// look like order requests and lands their submissions in the database.
// Messages scored below the detection threshold are stored on disk but
// never imported.
func (s *FetchService) FetchAndImport(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		rawPath, err := s.store.Store(msg)
		if err != nil {
			return result, err
		}

		subs, subject, text, attachments, err := ingest.FromEmailRaw(msg.Raw, s.cfg)
		if err != nil {
			fmt.Printf("mail %s: decode failed: %v\n", msg.MessageID, err)
			continue
		}

		detect := ingest.DetectOrderRequest(subject, text, attachments)
		if !detect.IsOrder {
			fmt.Printf("mail %s: skipped (%s, score %.2f)\n", msg.MessageID, detect.Reason, detect.Score)
			continue
		}
		result.Orders++

		for _, sub := range subs {
			if _, err := s.db.UpsertSubmission(sub, rawPath); err != nil {
				return result, err
			}
			result.Submissions++
		}
	}

	return result, nil
}
