package imap

import (
	"crypto/tls"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"

	"pedidos/internal"
	"pedidos/internal/config"
)

// Connector pulls unread messages out of a plain IMAP mailbox. It is the
// intake used when the form notification address lives on a generic mail
// host rather than Gmail. Order detection happens downstream in the fetch
// service; the connector only moves raw messages.
type Connector struct {
	cfg config.Config
}

func NewConnector(cfg config.Config) (*Connector, error) {
	required := []struct {
		name  string
		value string
	}{
		{"IMAP_HOST", cfg.IMAPHost},
		{"IMAP_USER", cfg.IMAPUser},
		{"IMAP_PASSWORD", cfg.IMAPPassword},
	}
	for _, r := range required {
		if err := cfg.Require(r.name, r.value); err != nil {
			return nil, err
		}
	}
	return &Connector{cfg: cfg}, nil
}

// FetchInbox returns the newest unseen messages in label, at most max.
// Messages are flagged seen only when IMAP_MARK_SEEN is set, so a dry run
// leaves the mailbox untouched.
func (c *Connector) FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error) {
	client, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer client.Logout()

	if err := client.Login(c.cfg.IMAPUser, c.cfg.IMAPPassword); err != nil {
		return nil, err
	}
	if _, err := client.Select(label, false); err != nil {
		return nil, err
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}
	ids, err := client.Search(criteria)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > max {
		ids = ids[len(ids)-max:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	fetchItems := []imap.FetchItem{imap.FetchEnvelope, imap.FetchInternalDate, imap.FetchUid, section.FetchItem()}
	ch := make(chan *imap.Message, len(ids))
	done := make(chan error, 1)
	go func() { done <- client.Fetch(seqset, fetchItems, ch) }()

	out := make([]internal.FetchedMailMessage, 0, len(ids))
	read := new(imap.SeqSet)
	readCount := 0
	for msg := range ch {
		fetched, ok := toFetched(msg, section)
		if !ok {
			continue
		}
		out = append(out, fetched)
		read.AddNum(msg.SeqNum)
		readCount++
	}
	if err := <-done; err != nil {
		return nil, err
	}

	if c.cfg.IMAPMarkSeen && readCount > 0 {
		op := imap.FormatFlagsOp(imap.AddFlags, true)
		if err := client.Store(read, op, []interface{}{imap.SeenFlag}, nil); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (c *Connector) dial() (*imapclient.Client, error) {
	addr := fmt.Sprintf("%s:%d", c.cfg.IMAPHost, c.cfg.IMAPPort)
	if c.cfg.IMAPSecure {
		return imapclient.DialTLS(addr, &tls.Config{ServerName: c.cfg.IMAPHost})
	}
	return imapclient.Dial(addr)
}

// toFetched converts one fetched message, skipping anything without a
// readable body. A skipped message stays unseen and gets retried on the
// next cycle.
func toFetched(msg *imap.Message, section *imap.BodySectionName) (internal.FetchedMailMessage, bool) {
	if msg == nil {
		return internal.FetchedMailMessage{}, false
	}
	body := msg.GetBody(section)
	if body == nil {
		return internal.FetchedMailMessage{}, false
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return internal.FetchedMailMessage{}, false
	}

	fetched := internal.FetchedMailMessage{
		Provider:   "imap",
		MessageID:  fmt.Sprintf("imap-%d", msg.Uid),
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		Raw:        raw,
	}
	if env := msg.Envelope; env != nil {
		if env.MessageId != "" {
			fetched.MessageID = env.MessageId
		}
		fetched.Subject = env.Subject
		fetched.From = senderLine(env.From)
	}
	if !msg.InternalDate.IsZero() {
		fetched.ReceivedAt = msg.InternalDate.UTC().Format(time.RFC3339)
	}
	return fetched, true
}

func senderLine(addrs []*imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		if a == nil {
			continue
		}
		email := strings.Trim(a.MailboxName+"@"+a.HostName, "@")
		if a.PersonalName != "" {
			parts = append(parts, fmt.Sprintf("%s <%s>", a.PersonalName, email))
			continue
		}
		parts = append(parts, email)
	}
	return strings.Join(parts, ", ")
}
