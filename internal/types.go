package internal

import "time"

type SubmissionSource string

const (
	SourceXLSX      SubmissionSource = "xlsx"
	SourceText      SubmissionSource = "text"
	SourceHTMLTable SubmissionSource = "html_table"
	SourceEmail     SubmissionSource = "email"
	SourcePDF       SubmissionSource = "pdf"
)

// Submission is one raw input row: the free-text description plus whatever
// structured columns the dataset happened to carry.
type Submission struct {
	RowNo       int
	Source      SubmissionSource
	Description string
	State       *string
	Requester   *string
	Reason      *string
	SubmittedAt *time.Time
	Meta        map[string]any
}

// LineItem is one resolved (code, quantity, price) tuple. Code is always
// set; a line item without a product anchor is never emitted.
type LineItem struct {
	Code      string
	Qty       *int
	UnitPrice *float64
}

// CanonicalRow is a LineItem joined with the normalized auxiliary fields.
// TotalValue is Quantity*UnitPrice, nil when either operand is nil.
type CanonicalRow struct {
	Date        *time.Time
	ProductCode string
	Quantity    *int
	UnitPrice   *float64
	State       *string
	Requester   *string
	Reason      *string
	ReasonGroup string
	TotalValue  *float64
}

type SubmissionRow struct {
	ID          int
	Source      string
	SourceRef   string
	RowNo       int
	Description string
	State       *string
	Requester   *string
	Reason      *string
	SubmittedAt *string
	Hash        string
	Status      string
}

// Aggregation rows served to the reporting/export collaborators.
type ProductTotal struct {
	ProductCode string
	TotalQty    int
	Submissions int
}

type NameCount struct {
	Name  string
	Count int
}

type StateProductTotal struct {
	State       string
	ProductCode string
	TotalQty    int
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}

func StringPtr(v string) *string { return &v }

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

func TimePtr(v time.Time) *time.Time { return &v }
