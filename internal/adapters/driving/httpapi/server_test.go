package httpapi

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evidenzia-labs/evidenzia-cli/internal/adapters/driven/storage/memory"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/domain"
	"github.com/evidenzia-labs/evidenzia-cli/internal/core/services"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	parse := services.NewParseService(memory.NewDocStore())
	state := services.NewStateService(memory.NewStateStore(), nil)
	require.NoError(t, state.Load(context.Background()))
	t.Cleanup(func() { state.Close() })
	return NewServer(Config{}, parse, state)
}

func sampleDocx(t *testing.T, text string) []byte {
	t.Helper()
	doc := `<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:rPr><w:highlight w:val="yellow"/></w:rPr>` +
		`<w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func multipartRequest(t *testing.T, url, field string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, data := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleParse_OK(t *testing.T) {
	srv := newTestServer(t)
	req := multipartRequest(t, "/api/parse", "file", map[string][]byte{
		"a.docx": sampleDocx(t, "testo evidenziato"),
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var ex domain.Extraction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ex))
	require.Len(t, ex.Highlights, 1)
	assert.Equal(t, "testo evidenziato", ex.Highlights[0].Text)
}

func TestHandleParse_InvalidDocument(t *testing.T) {
	srv := newTestServer(t)
	req := multipartRequest(t, "/api/parse", "file", map[string][]byte{
		"bad.docx": []byte("not a docx"),
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestHandleParse_NoFile(t *testing.T) {
	srv := newTestServer(t)
	req := multipartRequest(t, "/api/parse", "wrongfield", map[string][]byte{
		"a.docx": sampleDocx(t, "x"),
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleParseMulti_IsolatesFailures(t *testing.T) {
	srv := newTestServer(t)
	req := multipartRequest(t, "/api/parse-multi", "files", map[string][]byte{
		"ok.docx":  sampleDocx(t, "valido"),
		"bad.docx": []byte("junk"),
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var batch domain.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Len(t, batch.Highlights, 1)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, "bad.docx", batch.Errors[0].Filename)
}

func TestUploadListDelete(t *testing.T) {
	srv := newTestServer(t)

	req := multipartRequest(t, "/api/upload-multi", "files", map[string][]byte{
		"a.docx": sampleDocx(t, "contenuto"),
	})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var docs docsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Equal(t, []string{"a.docx"}, docs.Filenames)
	assert.Len(t, docs.Highlights, 1)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/docs/a.docx", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var after map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Empty(t, after["filenames"])
}

func TestStateRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.MappingState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, []string{"XX_X"}, state.ExtraCategories)

	patch := bytes.NewBufferString(`{"codeMap":{"CE_T":"Territorio"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/state", patch)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "Territorio", state.CodeMap["CE_T"])

	// The patch persisted: a fresh GET returns it.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "Territorio", state.CodeMap["CE_T"])
}

func TestStatePatch_UnknownKeysIgnored(t *testing.T) {
	srv := newTestServer(t)

	body := `{"codeMap":{"CE_T":"Territorio"},"sconosciuto":{"x":1}}`
	req := httptest.NewRequest(http.MethodPost, "/api/state", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.MappingState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "Territorio", state.CodeMap["CE_T"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/state", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDPreserved(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("X-Request-Id", "fisso-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "fisso-123", rec.Header().Get("X-Request-Id"))
}
