package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insights/internal/config"
	"insights/internal/dataset"
	"insights/internal/logging"
	"insights/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	provider *dataset.Provider
}

func newTestServer(t *testing.T, maxBytes int64, replace bool) *testServer {
	t.Helper()

	provider := dataset.NewProvider(dataset.BuiltIn(), dataset.SourceBuiltIn)
	svc := service.NewAnalysisService(
		provider,
		service.NewIntentParser(config.DefaultKnownAreas, 4),
		2024,
		nil,
		logging.Discard(),
	)
	router := NewRouter(
		config.ServerConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,OPTIONS", AllowedHeaders: "Content-Type"},
		BuildInfo{Version: "test"},
		NewAnalyzeHandler(svc),
		NewUploadHandler(provider, maxBytes, replace, logging.Discard()),
	)
	return &testServer{router: router, provider: provider}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAnalyze(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)

	for _, path := range []string{"/api/analyze/", "/api/v1/analyze"} {
		t.Run(path, func(t *testing.T) {
			w := srv.do(postJSON(path, `{"query": "compare wakad and aundh price"}`))
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, service.SourceRules, w.Header().Get(SummarySourceHeader))

			var body struct {
				Summary      string                   `json:"summary"`
				Chart        []map[string]float64     `json:"chart"`
				Table        []map[string]interface{} `json:"table"`
				Areas        []string                 `json:"areas"`
				IsComparison bool                     `json:"isComparison"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			assert.True(t, body.IsComparison)
			assert.Equal(t, []string{"wakad", "aundh"}, body.Areas)
			assert.Contains(t, body.Summary, "better investment potential")
			require.Len(t, body.Chart, 4)
			assert.Equal(t, float64(2021), body.Chart[0]["year"])
			assert.Equal(t, float64(7200), body.Chart[0]["aundh_price"])
			require.Len(t, body.Table, 8)
			assert.Len(t, body.Table[0], 6, "table rows carry exactly the record fields")
		})
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "invalid json", body: `{"query":`, wantErr: "Invalid JSON body"},
		{name: "missing query", body: `{}`, wantErr: "Query is required"},
		{name: "blank query", body: `{"query": "   "}`, wantErr: "Query is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(postJSON("/api/analyze/", tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
}

func TestAnalyze_UnknownAreaIsStillOK(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)

	w := srv.do(postJSON("/api/analyze/", `{"query": "show me data"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"summary": "Please specify an area (Wakad, Aundh, Ambegaon Budruk, or Akurdi)",
		"chart": [], "table": [], "areas": [], "isComparison": false
	}`, w.Body.String())
}

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellName, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "market.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_ReplacesDataset(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)
	data := workbook(t, [][]interface{}{
		{"year", "area", "price", "demand", "size", "type"},
		{2023, "Wakad", 8000, 1000, 1200, "2BHK"},
		{2024, "Wakad", 8800, 1200, 1200, "2BHK"},
		{2024, "Baner", 9100, 1100, 1100, "3BHK"},
	})

	w := srv.do(uploadRequest(t, "file", data))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message": "File uploaded successfully", "rows": 3, "areas": ["Wakad", "Baner"], "applied": true}`, w.Body.String())
	assert.Equal(t, dataset.SourceUpload, srv.provider.Snapshot().Source)

	w = srv.do(postJSON("/api/analyze/", `{"query": "wakad"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Price Growth: 10.0%")
}

func TestUpload_KeepsDatasetWhenDisabled(t *testing.T) {
	srv := newTestServer(t, 1<<20, false)
	data := workbook(t, [][]interface{}{
		{"year", "area", "price", "demand"},
		{2024, "Baner", 9100, 1100},
	})

	w := srv.do(uploadRequest(t, "file", data))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"applied":false`)
	assert.Len(t, srv.provider.Records(), 16)
}

func TestUpload_Errors(t *testing.T) {
	valid := workbook(t, [][]interface{}{
		{"year", "area", "price", "demand"},
		{2024, "Baner", 9100, 1100},
	})

	tests := []struct {
		name     string
		maxBytes int64
		req      func(t *testing.T) *http.Request
		wantCode int
		wantErr  string
	}{
		{
			name:     "no file",
			maxBytes: 1 << 20,
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "other", valid) },
			wantCode: http.StatusBadRequest,
			wantErr:  "No file uploaded",
		},
		{
			name:     "too large",
			maxBytes: 10,
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", valid) },
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  "too large",
		},
		{
			name:     "missing columns",
			maxBytes: 1 << 20,
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", workbook(t, [][]interface{}{{"year", "area"}, {2024, "Baner"}}))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "Excel must contain columns: year, area, price, demand",
		},
		{
			name:     "not a workbook",
			maxBytes: 1 << 20,
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", []byte("hello")) },
			wantCode: http.StatusBadRequest,
			wantErr:  "Error processing file",
		},
		{
			name:     "non-finite price",
			maxBytes: 1 << 20,
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", workbook(t, [][]interface{}{
					{"year", "area", "price", "demand"},
					{2023, "Wakad", "NaN", 100},
					{2024, "Wakad", 1200, 100},
				}))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "row 2: column price",
		},
		{
			name:     "header only",
			maxBytes: 1 << 20,
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", workbook(t, [][]interface{}{{"year", "area", "price", "demand"}}))
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "no data rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.maxBytes, true)
			w := srv.do(tt.req(t))
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
			assert.Len(t, srv.provider.Records(), 16, "dataset untouched")
		})
	}
}

func TestUpload_RejectedValuesKeepAnalyzeValid(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)
	data := workbook(t, [][]interface{}{
		{"year", "area", "price", "demand"},
		{2023, "Wakad", 1000, "Inf"},
		{2024, "Wakad", 1200, 100},
	})

	w := srv.do(uploadRequest(t, "file", data))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(postJSON("/api/analyze/", `{"query": "wakad price"}`))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["summary"], "Real Estate Analysis: Wakad")
}

func TestAreasAndHealth(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)

	w := srv.do(httptest.NewRequest(http.MethodGet, "/api/v1/areas", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"known": ["Wakad", "Aundh", "Ambegaon Budruk", "Akurdi"],
		"dataset": ["Wakad", "Aundh", "Ambegaon Budruk", "Akurdi"],
		"rows": 16
	}`, w.Body.String())

	w = srv.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = srv.do(httptest.NewRequest(http.MethodGet, "/api/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, 1<<20, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/analyze/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := srv.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
