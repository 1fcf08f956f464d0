package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pdfchunk/internal/assemble"
	"github.com/dgallion1/pdfchunk/internal/doctree"
)

func assembleMem(t *testing.T, g doctree.Granularity, pages ...string) *assemble.Result {
	t.Helper()
	res, err := assemble.Assemble(context.Background(), doctree.NewMemDocument("sample.pdf", pages...), g)
	require.NoError(t, err)
	return res
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	_, err = ParseFormat("xlsx")
	var fErr *doctree.UnsupportedFormatError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "xlsx", fErr.Format)
}

func TestFilename(t *testing.T) {
	tests := []struct {
		g    doctree.Granularity
		f    Format
		want string
	}{
		{doctree.AllPages(), JSON, "report_extracted.json"},
		{doctree.SinglePage(2), CSV, "report_page_2.csv"},
		{doctree.Whole(), CSV, "report_whole_document.csv"},
		{doctree.Lines(), JSON, "report_lines.json"},
		{doctree.Sentences(), CSV, "report_sentences.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename("/tmp/uploads/report.pdf", tt.g, tt.f))
	}
	assert.Equal(t, "document_extracted.json", Filename("", doctree.AllPages(), JSON))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", JSON.ContentType())
	assert.Equal(t, "text/csv; charset=utf-8", CSV.ContentType())
}

func TestJSON_LinesEnvelopeRoundTrip(t *testing.T) {
	res := assembleMem(t, doctree.Lines(), "a\nb\n", "", "c")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)

	var got struct {
		Filename   string `json:"filename"`
		TotalPages int    `json:"total_pages"`
		TotalLines int    `json:"total_lines"`
		Data       []struct {
			LineNumber int    `json:"line_number"`
			PageNumber int    `json:"page_number"`
			Text       string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "sample.pdf", got.Filename)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 3, got.TotalLines)
	require.Len(t, got.Data, 3)
	for i, d := range got.Data {
		assert.Equal(t, i+1, d.LineNumber)
	}
	assert.Equal(t, 3, got.Data[2].PageNumber)
	assert.NotContains(t, string(out), "total_sentences")
}

func TestJSON_FieldOrder(t *testing.T) {
	res := assembleMem(t, doctree.Sentences(), "One. Two.")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)

	s := string(out)
	assertOrdered(t, s, `"filename"`, `"total_pages"`, `"total_sentences"`, `"data"`)
	assertOrdered(t, s, `"sentence_number"`, `"page_number"`, `"text"`)
}

func TestJSON_PagesEnvelopeHasNoUnitTotal(t *testing.T) {
	res := assembleMem(t, doctree.AllPages(), "p1", "p2")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.NotContains(t, got, "total_lines")
	assert.NotContains(t, got, "total_sentences")
	assert.Len(t, got["data"], 2)
	data := string(out)[bytes.Index(out, []byte(`"data"`)):]
	assertOrdered(t, data, `"page_number"`, `"text"`, `"total_pages"`)
}

func TestJSON_SingleRecordIsBareObject(t *testing.T) {
	res := assembleMem(t, doctree.Whole(), "a", "b")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "sample.pdf", got["document"])
	assert.Equal(t, "a\n\nb", got["text"])
	assert.EqualValues(t, 2, got["total_pages"])
	assert.NotContains(t, got, "data")

	res = assembleMem(t, doctree.SinglePage(2), "a", "b")
	out, err = Bytes(res, JSON)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, &got))
	assert.EqualValues(t, 2, got["page_number"])
}

func TestJSON_EmptyDataArray(t *testing.T) {
	res := assembleMem(t, doctree.Sentences(), "   ", "")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, []any{}, got["data"])
	assert.EqualValues(t, 2, got["total_pages"])
	assert.EqualValues(t, 0, got["total_sentences"])
}

func TestJSON_NoHTMLEscaping(t *testing.T) {
	res := assembleMem(t, doctree.AllPages(), "a < b & c")
	out, err := Bytes(res, JSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a < b & c")
}

func TestCSV_EmptyIsHeaderOnly(t *testing.T) {
	tests := []struct {
		g    doctree.Granularity
		want string
	}{
		{doctree.Lines(), "line_number,page_number,text\n"},
		{doctree.Sentences(), "sentence_number,page_number,text\n"},
	}
	for _, tt := range tests {
		res := assembleMem(t, tt.g, "  ")
		out, err := Bytes(res, CSV)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(out))
	}

	empty := &assemble.Result{Filename: "x.pdf", TotalPages: 1, Granularity: doctree.AllPages()}
	out, err := Bytes(empty, CSV)
	require.NoError(t, err)
	assert.Equal(t, "page_number,text,total_pages\n", string(out))
}

func TestCSV_EscapingRoundTrip(t *testing.T) {
	page := "He said \"hi\", then left\nNew line"
	res := assembleMem(t, doctree.AllPages(), page)
	out, err := Bytes(res, CSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"page_number", "text", "total_pages"}, rows[0])
	assert.Equal(t, []string{"1", page, "1"}, rows[1])
}

func TestCSV_WholeDocument(t *testing.T) {
	res := assembleMem(t, doctree.Whole(), "one", "two")
	out, err := Bytes(res, CSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"document", "text", "total_pages"},
		{"sample.pdf", "one\n\ntwo", "2"},
	}, rows)
}

func TestCSV_LineNumbersContiguous(t *testing.T) {
	res := assembleMem(t, doctree.Lines(), "a\nb", "\n", "c\nd\ne")
	out, err := Bytes(res, CSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	for i, row := range rows[1:] {
		n, err := strconv.Atoi(row[0])
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	res := assembleMem(t, doctree.AllPages(), "x")
	err := Write(&bytes.Buffer{}, res, Format("yaml"))
	var fErr *doctree.UnsupportedFormatError
	require.ErrorAs(t, err, &fErr)
}

func assertOrdered(t *testing.T, s string, keys ...string) {
	t.Helper()
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, k)
		require.GreaterOrEqual(t, idx, 0, "missing %s", k)
		assert.Greater(t, idx, last, "%s out of order", k)
		last = idx
	}
}
