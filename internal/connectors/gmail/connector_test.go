package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"pedidos/internal/config"
)

func TestNewConnectorRequiresCredentials(t *testing.T) {
	t.Setenv("GMAIL_CLIENT_ID", "client-id")
	t.Setenv("GMAIL_CLIENT_SECRET", "client-secret")
	t.Setenv("GMAIL_REFRESH_TOKEN", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewConnector(cfg); err == nil {
		t.Fatal("expected error for missing GMAIL_REFRESH_TOKEN")
	}
}

func TestDecodeRaw(t *testing.T) {
	payload := []byte("From: a@example.com\r\n\r\npedido 00011279")

	for _, encoded := range []string{
		base64.RawURLEncoding.EncodeToString(payload),
		base64.URLEncoding.EncodeToString(payload),
	} {
		blob, err := decodeRaw(encoded)
		if err != nil {
			t.Fatal(err)
		}
		if string(blob) != string(payload) {
			t.Fatalf("got %q", blob)
		}
	}

	if _, err := decodeRaw("!!not base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestHeaderMap(t *testing.T) {
	msg := &gmailapi.Message{Payload: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
		{Name: "Subject", Value: "Pedido"},
		{Name: "Message-ID", Value: "<x@example.com>"},
	}}}
	headers := headerMap(msg)
	if headers["subject"] != "Pedido" || headers["message-id"] != "<x@example.com>" {
		t.Fatalf("headers=%v", headers)
	}
	if got := headerMap(&gmailapi.Message{}); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestReceivedAt(t *testing.T) {
	got := receivedAt("Sat, 14 Mar 2026 10:00:00 -0300")
	if got != "2026-03-14T13:00:00Z" {
		t.Fatalf("got %q", got)
	}

	fallback := receivedAt("not a date")
	if _, err := time.Parse(time.RFC3339, fallback); err != nil {
		t.Fatalf("fallback %q is not RFC3339: %v", fallback, err)
	}
}
