package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mdcount/internal/counter"
	"github.com/dgallion1/mdcount/internal/parser"
	"github.com/dgallion1/mdcount/internal/pipeline"
)

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := sanitizeFilename(r.URL.Query().Get("filename"))
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	res := s.orchestrator.Counter().Count(r.Context(), pipeline.Document{Name: filename, Data: data}, opts)
	if err := res.Err(); err != nil {
		jsonError(w, err.Error(), countErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    res.Name,
		"words":   res.Words,
		"options": opts.String(),
		"cached":  res.Cached,
	})
}

func (s *Server) handleCountBatch(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	uploads, ok := s.readUploads(w, r)
	if !ok {
		return
	}

	var docs []pipeline.Document
	for _, u := range uploads {
		if u.err == "" {
			docs = append(docs, u.doc)
		}
	}
	counted, err := s.orchestrator.Counter().CountAll(r.Context(), docs, opts, s.cfg.WorkerCount)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	results := make([]pipeline.Result, 0, len(uploads))
	next := 0
	for _, u := range uploads {
		if u.err != "" {
			results = append(results, pipeline.Result{Name: u.doc.Name, Error: u.err})
			continue
		}
		results = append(results, counted[next])
		next++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files":   results,
		"total":   pipeline.Total(results),
		"options": opts.String(),
	})
}

// upload is a multipart file read into memory, or the reason it was not.
type upload struct {
	doc pipeline.Document
	err string
}

// readUploads reads the "files" parts of a multipart request. It writes
// the error response itself and returns false when the request as a whole
// is unusable.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) ([]upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return nil, false
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return nil, false
	}

	uploads := make([]upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, s.readUpload(fh))
	}
	return uploads, true
}

func (s *Server) readUpload(fh *multipart.FileHeader) upload {
	filename := sanitizeFilename(fh.Filename)
	u := upload{doc: pipeline.Document{Name: filename}}
	if !parser.IsSupportedExtension(filename) {
		u.err = fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename))
		return u
	}

	f, err := fh.Open()
	if err != nil {
		u.err = "failed to open file"
		return u
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
		u.err = "file too large or read error"
		return u
	}
	u.doc.Data = data
	return u
}

// requestOptions reads the include query parameter, falling back to the
// configured default.
func (s *Server) requestOptions(r *http.Request) (counter.Options, error) {
	include := r.URL.Query().Get("include")
	if include == "" {
		return s.defaultOpts, nil
	}
	opts, err := counter.ParseOptions(include)
	if err != nil {
		return 0, fmt.Errorf("invalid include: %w", err)
	}
	return opts, nil
}

func countErrorStatus(err error) int {
	switch {
	case errors.Is(err, parser.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, counter.ErrImbalancedStructure):
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
