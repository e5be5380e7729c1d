package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/logger"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// docsResponse is the stored-documents aggregate.
type docsResponse struct {
	Filenames  []string               `json:"filenames"`
	Highlights []domain.HighlightSpan `json:"highlights"`
	Comments   []domain.Comment       `json:"comments"`
	Paragraphs []domain.ParagraphRef  `json:"paragraphs"`
	Errors     []domain.FileError     `json:"errors,omitempty"`
}

// handleParse extracts a single uploaded document.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	ups, err := readUploads(r, "file")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(ups) != 1 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("expected exactly one file: %w", domain.ErrInvalidInput))
		return
	}

	ex, err := s.parse.Parse(r.Context(), ups[0])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDocument) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

// handleParseMulti extracts a batch without persisting it. Per-file failures
// land in the errors array; the response is 200 regardless.
func (s *Server) handleParseMulti(w http.ResponseWriter, r *http.Request) {
	ups, err := readUploads(r, "files")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.parse.ParseAll(r.Context(), ups))
}

// handleUploadMulti parses and persists a batch, responding with the
// aggregate of all stored documents.
func (s *Server) handleUploadMulti(w http.ResponseWriter, r *http.Request) {
	ups, err := readUploads(r, "files")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	batch, err := s.parse.Upload(r.Context(), ups)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// handleListDocs returns the stored filenames and their aggregate rows.
func (s *Server) handleListDocs(w http.ResponseWriter, r *http.Request) {
	names, err := s.parse.Filenames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	batch, err := s.parse.Aggregate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, docsResponse{
		Filenames:  names,
		Highlights: batch.Highlights,
		Comments:   batch.Comments,
		Paragraphs: batch.Paragraphs,
		Errors:     batch.Errors,
	})
}

// handleDeleteDoc removes a stored document and returns the remaining
// filenames. Deleting an unknown filename is a no-op, not an error.
func (s *Server) handleDeleteDoc(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if err := s.parse.Delete(r.Context(), filename); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	names, err := s.parse.Filenames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"filenames": names})
}

// handleGetState returns the current mapping state.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Get())
}

// handlePatchState applies a partial state update and returns the resulting
// state. Unknown top-level keys are silently ignored.
func (s *Server) handlePatchState(w http.ResponseWriter, r *http.Request) {
	var patch domain.StatePatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding state patch: %w", err))
		return
	}

	state, err := s.state.Patch(r.Context(), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// readUploads collects multipart files from the named field.
func readUploads(r *http.Request, field string) ([]domain.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("no files in field %q: %w", field, domain.ErrInvalidInput)
	}

	ups := make([]domain.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload %s: %w", h.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading upload %s: %w", h.Filename, err)
		}
		ups = append(ups, domain.Upload{Filename: h.Filename, Data: data})
	}
	return ups, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.Debug("request failed: %v", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
