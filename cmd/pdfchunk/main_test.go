package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExtract_DefaultOutputFile(t *testing.T) {
	pdf := writeFixture(t, "report.pdf", testutil.PDF(t, "", []string{"Alpha"}, []string{"Bravo"}))
	t.Chdir(t.TempDir())

	stdout, _, err := run(t, "extract", pdf)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total pages: 2")
	assert.Contains(t, stdout, "Exported to JSON: report_extracted.json")
	assert.Contains(t, stdout, "Extracted 2 page(s)")

	data, err := os.ReadFile("report_extracted.json")
	require.NoError(t, err)
	var env struct {
		TotalPages int `json:"total_pages"`
		Data       []struct {
			PageNumber int    `json:"page_number"`
			Text       string `json:"text"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, 2, env.TotalPages)
	require.Len(t, env.Data, 2)
	assert.Contains(t, env.Data[1].Text, "Bravo")
}

func TestExtract_SentencesToStdout(t *testing.T) {
	txt := writeFixture(t, "notes.txt", []byte("One. Two!\fThree"))

	stdout, stderr, err := run(t, "extract", txt, "--sentences", "-f", "csv", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, "sentence_number,page_number,text\n1,1,One.\n2,1,Two!\n3,2,Three\n", stdout)
	assert.Contains(t, stderr, "Extracted 3 sentences")
}

func TestExtract_PageAndOutputPath(t *testing.T) {
	txt := writeFixture(t, "notes.txt", []byte("first\fsecond"))
	dest := filepath.Join(t.TempDir(), "out.json")

	stdout, _, err := run(t, "extract", txt, "-p", "2", "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Extracted page 2")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var rec doctree.PageRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, 2, rec.PageNumber)
	assert.Equal(t, "second", rec.Text)
	assert.Equal(t, 2, rec.TotalPages)
}

func TestExtract_Errors(t *testing.T) {
	txt := writeFixture(t, "notes.txt", []byte("only"))

	_, _, err := run(t, "extract", txt, "--page", "3", "-o", "-")
	var pnf *doctree.PageNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "page 3 not found: valid range is 1-1", err.Error())

	_, _, err = run(t, "extract", txt, "--format", "xml")
	var ufe *doctree.UnsupportedFormatError
	assert.ErrorAs(t, err, &ufe)

	_, _, err = run(t, "extract", txt, "--whole", "--lines")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "none of the others can be"), err.Error())

	bad := writeFixture(t, "bad.pdf", []byte("not a pdf"))
	_, _, err = run(t, "extract", bad, "-o", "-")
	assert.ErrorIs(t, err, doctree.ErrUnreadableDocument)

	_, _, err = run(t, "extract", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	pdf := writeFixture(t, "three.pdf", testutil.PDF(t, "Handbook", []string{"a"}, []string{"b"}, []string{"c"}))

	stdout, _, err := run(t, "info", pdf)
	require.NoError(t, err)
	var info struct {
		Filename   string `json:"filename"`
		TotalPages int    `json:"total_pages"`
		FileSize   int64  `json:"file_size"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Equal(t, "three.pdf", info.Filename)
	assert.Equal(t, 3, info.TotalPages)
	assert.Positive(t, info.FileSize)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "pdfchunk "))
}
