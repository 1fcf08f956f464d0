package parser

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
)

// csvRowsPerPage groups data rows into pages.
const csvRowsPerPage = 20

// CSVLoader handles CSV files. Every data row becomes one line of
// "header: cell" pairs; rows are paged in batches of csvRowsPerPage.
type CSVLoader struct{}

func (p *CSVLoader) Load(data []byte, filename string) (doctree.Document, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, unreadable("csv", err)
	}
	if len(records) == 0 {
		return doctree.NewMemDocument(filename), nil
	}

	headers := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		return doctree.NewMemDocument(filename, strings.Join(headers, ", ")), nil
	}

	var pages []string
	for i := 0; i < len(dataRows); i += csvRowsPerPage {
		end := min(i+csvRowsPerPage, len(dataRows))
		var text strings.Builder
		for _, row := range dataRows[i:end] {
			text.WriteString(csvRowLine(headers, row))
			text.WriteByte('\n')
		}
		pages = append(pages, strings.TrimSuffix(text.String(), "\n"))
	}
	return doctree.NewMemDocument(filename, pages...), nil
}

func csvRowLine(headers, row []string) string {
	parts := make([]string, 0, len(row))
	for j, cell := range row {
		cell = strings.ReplaceAll(cell, "\n", " ")
		if j < len(headers) && headers[j] != "" {
			parts = append(parts, headers[j]+": "+cell)
		} else {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, ", ")
}
