package connectors

import (
	"path/filepath"
	"testing"

	"pedidos/internal"
	"pedidos/internal/config"
	"pedidos/internal/storage"
)

type fakeConnector struct {
	messages []internal.FetchedMailMessage
}

func (f *fakeConnector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	return f.messages, nil
}

const orderMail = "From: vendedor@example.com\r\n" +
	"Subject: Pedido de desconto\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"favor cotar 00011279 - 12 e 00012026 por R$ 10,00\r\n"

const chatterMail = "From: rh@example.com\r\n" +
	"Subject: Confraternizacao\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"nos vemos na sexta\r\n"

func TestFetchAndImport(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.RawMailDir = filepath.Join(tmp, "raw")

	conn := &fakeConnector{messages: []internal.FetchedMailMessage{
		{Provider: "imap", MessageID: "<order-1@example.com>", Raw: []byte(orderMail)},
		{Provider: "imap", MessageID: "<chatter-1@example.com>", Raw: []byte(chatterMail)},
	}}

	svc := NewFetchService(db, cfg, conn)
	result, err := svc.FetchAndImport("INBOX", 50)
	if err != nil {
		t.Fatal(err)
	}
	if result.Fetched != 2 {
		t.Fatalf("fetched=%d", result.Fetched)
	}
	if result.Orders != 1 {
		t.Fatalf("orders=%d", result.Orders)
	}
	if result.Submissions != 1 {
		t.Fatalf("submissions=%d", result.Submissions)
	}

	pending, err := db.ListSubmissionsByStatus("imported", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending=%v", pending)
	}
	if pending[0].Source != string(internal.SourceEmail) {
		t.Fatalf("source=%q", pending[0].Source)
	}
}

func TestFetchAndImportIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.RawMailDir = filepath.Join(tmp, "raw")

	conn := &fakeConnector{messages: []internal.FetchedMailMessage{
		{Provider: "imap", MessageID: "<order-1@example.com>", Raw: []byte(orderMail)},
	}}
	svc := NewFetchService(db, cfg, conn)

	if _, err := svc.FetchAndImport("INBOX", 50); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FetchAndImport("INBOX", 50); err != nil {
		t.Fatal(err)
	}

	pending, err := db.ListSubmissionsByStatus("imported", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("refetching the same message must not duplicate, pending=%v", pending)
	}
}
