package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "estatepulse/internal/errors"
	custommw "estatepulse/internal/middleware"
	"estatepulse/internal/services"
	"estatepulse/pkg/contracts/domain"
)

// MockMarketService is a mock implementation of MarketServiceInterface.
type MockMarketService struct {
	mock.Mock
}

func (m *MockMarketService) Analyze(ctx context.Context, area string) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, area)
	if result := args.Get(0); result != nil {
		return result.(*domain.AnalysisResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMarketService) Upload(ctx context.Context, filename string, r io.Reader) error {
	args := m.Called(ctx, filename, r)
	return args.Error(0)
}

func (m *MockMarketService) DatasetLoaded() bool {
	return m.Called().Bool(0)
}

func newTestHandler(service MarketServiceInterface) *MarketHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMarketHandler(
		service,
		custommw.NewRequestValidator(logger),
		logger,
		apierrors.NewErrorHandler(logger, false),
		32<<20,
	)
}

func decodeProblem(t *testing.T, body *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Bytes(), &problem))
	return problem
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Summary: []domain.LocationSummary{
			{Location: "Wakad", Summary: "Wakad has shown 20.0% average change over period in prices, with demand rising over the past 3 years."},
		},
		ChartData: []domain.YearRecord{
			{"year": 2020, "Wakad": 25, "Wakad_price": 1100.0},
		},
		TableData: []domain.TableRow{
			{"final_location": "wakad", "year": 2020},
		},
	}
}

func TestAnalyzeJSONRequest(t *testing.T) {
	service := new(MockMarketService)
	service.On("Analyze", mock.Anything, "price growth in wakad").Return(sampleResult(), nil)

	handler := newTestHandler(service)

	body := strings.NewReader(`{"area": "price growth in wakad"}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Summary, 1)
	assert.Equal(t, "Wakad", result.Summary[0].Location)
	assert.Len(t, result.ChartData, 1)
	service.AssertExpectations(t)
}

func TestAnalyzeFormRequest(t *testing.T) {
	service := new(MockMarketService)
	service.On("Analyze", mock.Anything, "wakad").Return(sampleResult(), nil)

	handler := newTestHandler(service)

	form := url.Values{"area": {"wakad"}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestAnalyzeMissingQuery(t *testing.T) {
	service := new(MockMarketService)
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"area": "  "}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "Missing query.", problem["detail"])
	service.AssertNotCalled(t, "Analyze")
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	service := new(MockMarketService)
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"area":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Analyze")
}

func TestAnalyzeNoLocationMatch(t *testing.T) {
	service := new(MockMarketService)
	service.On("Analyze", mock.Anything, "price growth in mumbai").
		Return(nil, fmt.Errorf("%w: %q", services.ErrNoLocationMatch, "price growth in mumbai"))

	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"area": "price growth in mumbai"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "No matching location found for 'price growth in mumbai'.", problem["detail"])
	assert.Equal(t, apierrors.TypeNoLocationMatch, problem["type"])
}

func TestAnalyzeNoDataset(t *testing.T) {
	service := new(MockMarketService)
	service.On("Analyze", mock.Anything, "wakad").Return(nil, services.ErrNoDataset)

	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"area": "wakad"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "No data available.", problem["detail"])
	assert.Equal(t, apierrors.TypeDatasetMissing, problem["type"])
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadSuccess(t *testing.T) {
	service := new(MockMarketService)
	service.On("Upload", mock.Anything, "market.xlsx", mock.Anything).Return(nil)

	handler := newTestHandler(service)

	body, contentType := multipartUpload(t, "file", "market.xlsx", []byte("workbook bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File uploaded successfully.", resp["message"])
	service.AssertExpectations(t)
}

func TestUploadMissingFileField(t *testing.T) {
	service := new(MockMarketService)
	handler := newTestHandler(service)

	body, contentType := multipartUpload(t, "document", "market.xlsx", []byte("bytes"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "No file provided.", problem["detail"])
	service.AssertNotCalled(t, "Upload")
}

func TestUploadNonMultipartBody(t *testing.T) {
	service := new(MockMarketService)
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("just bytes"))
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadInvalidFileType(t *testing.T) {
	service := new(MockMarketService)
	service.On("Upload", mock.Anything, "data.csv", mock.Anything).
		Return(fmt.Errorf("%w: .csv", services.ErrInvalidFileType))

	handler := newTestHandler(service)

	body, contentType := multipartUpload(t, "file", "data.csv", []byte("a,b"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "Invalid file format.", problem["detail"])
}

func TestUploadParseFailure(t *testing.T) {
	service := new(MockMarketService)
	service.On("Upload", mock.Anything, "bad.xlsx", mock.Anything).
		Return(apierrors.NewParsingError("open uploaded workbook", fmt.Errorf("zip: not a valid zip file")))

	handler := newTestHandler(service)

	body, contentType := multipartUpload(t, "file", "bad.xlsx", []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	problem := decodeProblem(t, rec.Body)
	assert.Equal(t, "Failed to process file.", problem["detail"])
	assert.Equal(t, apierrors.TypeDatasetCorrupted, problem["type"])
}
