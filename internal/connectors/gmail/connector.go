package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"pedidos/internal"
	"pedidos/internal/config"
)

// Connector reads the form notification mailbox through the Gmail API
// with an offline refresh token. Fetching is read-only: messages are
// never labeled or archived from here, and order detection happens
// downstream in the fetch service.
type Connector struct {
	service *gmail.Service
}

func NewConnector(cfg config.Config) (*Connector, error) {
	required := []struct {
		name  string
		value string
	}{
		{"GMAIL_CLIENT_ID", cfg.GmailClientID},
		{"GMAIL_CLIENT_SECRET", cfg.GmailClientSecret},
		{"GMAIL_REFRESH_TOKEN", cfg.GmailRefreshToken},
	}
	for _, r := range required {
		if err := cfg.Require(r.name, r.value); err != nil {
			return nil, err
		}
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GmailClientID,
		ClientSecret: cfg.GmailClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GmailRedirectURI,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}
	source := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.GmailRefreshToken})
	svc, err := gmail.NewService(context.Background(), option.WithTokenSource(source))
	if err != nil {
		return nil, err
	}
	return &Connector{service: svc}, nil
}

func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	listed, err := c.service.Users.Messages.List("me").LabelIds(label).MaxResults(int64(max)).Do()
	if err != nil {
		return nil, err
	}

	out := make([]internal.FetchedMailMessage, 0, len(listed.Messages))
	for _, ref := range listed.Messages {
		if ref.Id == "" {
			continue
		}
		fetched, err := c.fetchOne(ref.Id)
		if err != nil {
			return nil, err
		}
		if fetched != nil {
			out = append(out, *fetched)
		}
	}
	return out, nil
}

// fetchOne downloads one message in raw RFC 822 form. The interesting
// headers ride along in a second metadata call because the raw format
// carries no parsed payload.
func (c *Connector) fetchOne(id string) (*internal.FetchedMailMessage, error) {
	raw, err := c.service.Users.Messages.Get("me", id).Format("raw").Do()
	if err != nil {
		return nil, err
	}
	if raw.Raw == "" {
		return nil, nil
	}
	blob, err := decodeRaw(raw.Raw)
	if err != nil {
		return nil, err
	}

	meta, err := c.service.Users.Messages.Get("me", id).Format("metadata").
		MetadataHeaders("Subject", "From", "Date", "Message-ID").Do()
	if err != nil {
		return nil, err
	}
	headers := headerMap(meta)

	fetched := internal.FetchedMailMessage{
		Provider:   "gmail",
		MessageID:  headers["message-id"],
		Subject:    headers["subject"],
		From:       headers["from"],
		ReceivedAt: receivedAt(headers["date"]),
		Raw:        blob,
	}
	if fetched.MessageID == "" {
		fetched.MessageID = id
	}
	return &fetched, nil
}

func headerMap(msg *gmail.Message) map[string]string {
	out := map[string]string{}
	if msg.Payload == nil {
		return out
	}
	for _, h := range msg.Payload.Headers {
		out[strings.ToLower(h.Name)] = h.Value
	}
	return out
}

// receivedAt falls back to the fetch time when the Date header is absent
// or malformed.
func receivedAt(dateHeader string) string {
	if parsed, err := mail.ParseDate(dateHeader); err == nil {
		return parsed.UTC().Format(time.RFC3339)
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// Gmail is inconsistent about padding in raw payloads, so both URL
// alphabets are tried.
func decodeRaw(input string) ([]byte, error) {
	if blob, err := base64.RawURLEncoding.DecodeString(input); err == nil {
		return blob, nil
	}
	blob, err := base64.URLEncoding.DecodeString(input)
	if err != nil {
		return nil, fmt.Errorf("decode gmail raw payload: %w", err)
	}
	return blob, nil
}
