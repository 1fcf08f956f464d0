package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/pdfchunk/internal/doctree"
	"github.com/dgallion1/pdfchunk/internal/export"
	"github.com/dgallion1/pdfchunk/internal/extract"
	"github.com/dgallion1/pdfchunk/internal/parser"
	"github.com/dgallion1/pdfchunk/internal/pipeline"
)

// httpError carries a status code chosen by the handler.
type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &httpError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type legacyRoute int

const (
	legacyAll legacyRoute = iota
	legacyPage
	legacyWhole
	legacyLines
	legacySentences
)

// handleExtract is the unified extraction route:
// POST /api/extract?granularity=&page=&format=
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := parseRequest(q.Get("granularity"), q.Get("page"), q.Get("format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	filename, data, err := s.readUpload(w, r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.extractAndWrite(w, r.Context(), filename, data, req)
}

func (s *Server) handleLegacyExtract(route legacyRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var kind string
		switch route {
		case legacyAll:
			kind = string(doctree.KindPages)
		case legacyPage:
			kind = string(doctree.KindPage)
		case legacyWhole:
			kind = string(doctree.KindWhole)
		case legacyLines:
			kind = string(doctree.KindLines)
		case legacySentences:
			kind = string(doctree.KindSentences)
		}
		req, err := parseRequest(kind, q.Get("page"), q.Get("format"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		filename, data, err := s.readUpload(w, r, true)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.extractAndWrite(w, r.Context(), filename, data, req)
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r, false)
	if err != nil {
		s.writeError(w, err)
		return
	}
	info, err := parser.Inspect(data, filename, s.cfg.ParserOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) extractAndWrite(w http.ResponseWriter, ctx context.Context, filename string, data []byte, req extract.Request) {
	doc, err := parser.OpenBytes(data, filename, s.cfg.ParserOptions())
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer doc.Close()

	out, err := s.extractor.Run(ctx, doc, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOutput(w, out)
}

func writeOutput(w http.ResponseWriter, out *extract.Output) {
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Body)
}

// parseRequest validates the selectors before any upload is read.
func parseRequest(granularity, page, format string) (extract.Request, error) {
	if _, err := export.ParseFormat(format); err != nil {
		return extract.Request{}, err
	}
	n := 0
	if strings.EqualFold(strings.TrimSpace(granularity), string(doctree.KindPage)) {
		if page == "" {
			return extract.Request{}, badRequest("page is required for page granularity")
		}
		v, err := strconv.Atoi(strings.TrimSpace(page))
		if err != nil {
			return extract.Request{}, badRequest("page must be an integer: %q", page)
		}
		n = v
	}
	g, err := doctree.ParseGranularity(granularity, n)
	if err != nil {
		return extract.Request{}, err
	}
	return extract.Request{Granularity: g, Format: format}, nil
}

// readUpload reads the multipart "file" field, enforcing the size limit and
// the extension allow-list.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, pdfOnly bool) (string, []byte, error) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", nil, err
		}
		return "", nil, badRequest("invalid multipart form: %v", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, badRequest("file is required: %v", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if pdfOnly && ext != ".pdf" {
		return "", nil, badRequest("File must be a PDF")
	}
	if !parser.IsSupportedExtension(filename) {
		return "", nil, badRequest("unsupported file type: %s", ext)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return "", nil, &httpError{
			code: http.StatusRequestEntityTooLarge,
			msg:  fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes),
		}
	}
	return filename, data, nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var he *httpError
	var pnf *doctree.PageNotFoundError
	var ufe *doctree.UnsupportedFormatError
	var uge *doctree.UnsupportedGranularityError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &he):
		return he.code
	case errors.As(err, &pnf):
		return http.StatusNotFound
	case errors.As(err, &ufe), errors.As(err, &uge), errors.Is(err, parser.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, doctree.ErrUnreadableDocument):
		return http.StatusUnprocessableEntity
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pipeline.ErrQueueFull):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	} else {
		s.log.Debug("request rejected", "status", code, "error", err)
	}
	jsonError(w, err.Error(), code)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == '"' {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
