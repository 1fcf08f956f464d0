package parser

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info is document metadata gathered without extracting text.
type Info struct {
	Filename   string `json:"filename"`
	TotalPages int    `json:"total_pages"`
	FileSize   int64  `json:"file_size"`
	Title      string `json:"title,omitempty"`
	Author     string `json:"author,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Creator    string `json:"creator,omitempty"`
	Producer   string `json:"producer,omitempty"`
	Validated  bool   `json:"validated"`
}

var disablePdfcpuConfig sync.Once

// Inspect reports page count and metadata for a document. PDFs are
// validated with pdfcpu first; when pdfcpu rejects a file the page count
// comes from the regular loader, which is more lenient.
func Inspect(data []byte, filename string, opts Options) (*Info, error) {
	info := &Info{
		Filename: filename,
		FileSize: int64(len(data)),
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		if err := inspectPDF(data, info); err == nil {
			return info, nil
		}
	}

	doc, err := OpenBytes(data, filename, opts)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	info.TotalPages = doc.PageCount()
	return info, nil
}

func inspectPDF(data []byte, info *Info) error {
	disablePdfcpuConfig.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount <= 0 {
		return fmt.Errorf("pdfcpu read: no pages")
	}

	info.TotalPages = ctx.PageCount
	info.Title = strings.TrimSpace(ctx.Title)
	info.Author = strings.TrimSpace(ctx.Author)
	info.Subject = strings.TrimSpace(ctx.Subject)
	info.Creator = strings.TrimSpace(ctx.Creator)
	info.Producer = strings.TrimSpace(ctx.Producer)
	info.Validated = true
	return nil
}
