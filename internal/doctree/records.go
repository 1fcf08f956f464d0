package doctree

import "strconv"

// Record is one exported row. Fields and Values are parallel and follow the
// column order of the record's granularity.
type Record interface {
	Fields() []string
	Values() []string
	RecordText() string
}

// PageRecord is emitted for KindPages and KindPage.
type PageRecord struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	TotalPages int    `json:"total_pages"`
}

// WholeRecord is the single record emitted for KindWhole.
type WholeRecord struct {
	Document   string `json:"document"`
	Text       string `json:"text"`
	TotalPages int    `json:"total_pages"`
}

// LineRecord is emitted for KindLines.
type LineRecord struct {
	LineNumber int    `json:"line_number"`
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

// SentenceRecord is emitted for KindSentences.
type SentenceRecord struct {
	SentenceNumber int    `json:"sentence_number"`
	PageNumber     int    `json:"page_number"`
	Text           string `json:"text"`
}

var (
	pageColumns     = []string{"page_number", "text", "total_pages"}
	wholeColumns    = []string{"document", "text", "total_pages"}
	lineColumns     = []string{"line_number", "page_number", "text"}
	sentenceColumns = []string{"sentence_number", "page_number", "text"}
)

// Columns returns the column schema for records of kind k.
func Columns(k Kind) []string {
	var cols []string
	switch k {
	case KindWhole:
		cols = wholeColumns
	case KindLines:
		cols = lineColumns
	case KindSentences:
		cols = sentenceColumns
	default:
		cols = pageColumns
	}
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

func (r PageRecord) Fields() []string   { return Columns(KindPages) }
func (r PageRecord) RecordText() string { return r.Text }
func (r PageRecord) Values() []string {
	return []string{strconv.Itoa(r.PageNumber), r.Text, strconv.Itoa(r.TotalPages)}
}

func (r WholeRecord) Fields() []string   { return Columns(KindWhole) }
func (r WholeRecord) RecordText() string { return r.Text }
func (r WholeRecord) Values() []string {
	return []string{r.Document, r.Text, strconv.Itoa(r.TotalPages)}
}

func (r LineRecord) Fields() []string   { return Columns(KindLines) }
func (r LineRecord) RecordText() string { return r.Text }
func (r LineRecord) Values() []string {
	return []string{strconv.Itoa(r.LineNumber), strconv.Itoa(r.PageNumber), r.Text}
}

func (r SentenceRecord) Fields() []string   { return Columns(KindSentences) }
func (r SentenceRecord) RecordText() string { return r.Text }
func (r SentenceRecord) Values() []string {
	return []string{strconv.Itoa(r.SentenceNumber), strconv.Itoa(r.PageNumber), r.Text}
}
