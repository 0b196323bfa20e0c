package extract

import (
	"regexp"
	"strings"
)

// Fields carries the labeled values found inside the free text. They are
// raw captures: normalization happens later, and callers must prefer a
// structured column over these whenever one is present and non-blank.
type Fields struct {
	Requester *string
	State     *string
	Reason    *string
}

var (
	requesterLabelRe = regexp.MustCompile(`(?i)solicitantes?\s*:\s*(.*)`)
	stateLabelRe     = regexp.MustCompile(`(?i)estado\s*:\s*(.*)`)
	reasonLabelRe    = regexp.MustCompile(`(?i)motivo\s*:\s*(.*)`)
)

// ScanFields pulls the "solicitante:", "estado:" and "motivo:" labeled
// segments out of the text. Each capture runs to the end of its line; a
// missing label leaves the field nil.
func ScanFields(text string) Fields {
	return Fields{
		Requester: captureLabel(requesterLabelRe, text),
		State:     captureLabel(stateLabelRe, text),
		Reason:    captureLabel(reasonLabelRe, text),
	}
}

func captureLabel(re *regexp.Regexp, text string) *string {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}
	value := strings.TrimSpace(groups[1])
	if value == "" {
		return nil
	}
	return &value
}
