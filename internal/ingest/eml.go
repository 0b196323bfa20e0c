package ingest

import (
	"bytes"
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"pedidos/internal"
	"pedidos/internal/config"
)

// FromEmailRaw decodes one raw RFC 822 message: the text body becomes a
// free-text submission and XLSX/HTML/PDF attachments are recursed with
// their own decoders. Attachment decode failures are swallowed so a bad
// attachment does not sink the body text. Returns the submissions plus
// subject, body text and attachment names for order detection.
func FromEmailRaw(raw []byte, cfg config.Config) ([]internal.Submission, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", nil, err
	}

	submittedAt := parseMailDate(env.GetHeader("Date"))

	out := make([]internal.Submission, 0, 1)
	if strings.TrimSpace(env.Text) != "" {
		out = append(out, internal.Submission{
			Source:      internal.SourceEmail,
			Description: env.Text,
			SubmittedAt: submittedAt,
		})
	}

	attachmentNames := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)
		lower := strings.ToLower(filename)

		var extra []internal.Submission
		switch {
		case strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls"):
			extra, _ = FromXLSX(att.Content, cfg)
		case strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm"):
			extra, _ = FromHTML(string(att.Content), cfg)
		case strings.HasSuffix(lower, ".pdf"):
			extra, _ = FromPDF(att.Content)
		}
		for i := range extra {
			if extra[i].Meta == nil {
				extra[i].Meta = map[string]any{}
			}
			extra[i].Meta["attachment"] = filename
			if extra[i].SubmittedAt == nil {
				extra[i].SubmittedAt = submittedAt
			}
		}
		out = append(out, extra...)
	}

	for i := range out {
		out[i].RowNo = i + 1
	}

	return out, env.GetHeader("Subject"), env.Text, attachmentNames, nil
}

func parseMailDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if parsed, err := mail.ParseDate(value); err == nil {
		return internal.TimePtr(parsed)
	}
	return nil
}
