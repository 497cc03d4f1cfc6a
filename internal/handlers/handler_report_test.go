package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/apperrors"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/dto"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/handlers"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock PriceReportService ---
type MockPriceReportService struct {
	mock.Mock
}

func (m *MockPriceReportService) Generate(ctx context.Context, opts portssvc.ReportOptions) (*domain.PriceReport, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceReport), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.PriceReportSvc = (*MockPriceReportService)(nil)

// --- Test Suite ---
type ReportHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockPriceReportService
}

func (suite *ReportHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockPriceReportService)

	limiter, err := middleware.NewMemoryLimiter("100-M")
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{PriceReport: suite.mockService}, metrics, limiter)
}

func (suite *ReportHandlerTestSuite) post(body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/reports/last-prices", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/api/v1/reports/last-prices", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleReport() *domain.PriceReport {
	rateDate := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	return &domain.PriceReport{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC),
		Rows: []domain.MaterialReport{
			{MaterialID: "M1", PriceHome: decimal.RequireFromString("50"), PriceOriginal: decimal.RequireFromString("10"), CurrencyCode: "USD", PurchaseDate: purchase, OrderID: "1", RateDate: &rateDate, Converted: true},
			{MaterialID: "M2", PriceHome: decimal.RequireFromString("10.5"), PriceOriginal: decimal.RequireFromString("10.5"), CurrencyCode: "BRL", PurchaseDate: purchase, OrderID: "2"},
		},
		Summary: domain.ReportSummary{Materials: 2, HomeCurrency: 1, ForeignCurrency: 1},
	}
}

// --- Test Cases ---

func (suite *ReportHandlerTestSuite) TestGenerateLastPrices_Success() {
	opts := portssvc.ReportOptions{HomeCurrency: "BRL", WriteOutput: true}
	suite.mockService.On("Generate", mock.Anything, opts).Return(sampleReport(), nil).Once()

	w := suite.post(`{"homeCurrency":"BRL","writeOutput":true}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotEmpty(w.Header().Get("X-Request-ID"))

	var resp dto.PriceReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("run-1", resp.RunID)
	suite.Require().Len(resp.Rows, 2)
	suite.Equal("50.00", resp.Rows[0].PriceHome)
	suite.Equal("10.00", resp.Rows[0].PriceOriginal)
	suite.Equal("2023-01-10", resp.Rows[0].PurchaseDate)
	suite.Require().NotNil(resp.Rows[0].RateDate)
	suite.Equal("2024-05-17", *resp.Rows[0].RateDate)
	suite.Equal("10.50", resp.Rows[1].PriceHome)
	suite.Nil(resp.Rows[1].RateDate)
	suite.Equal(2, resp.Summary.Materials)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestGenerateLastPrices_EmptyBody() {
	suite.mockService.On("Generate", mock.Anything, portssvc.ReportOptions{}).Return(sampleReport(), nil).Once()

	w := suite.post("")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportHandlerTestSuite) TestGenerateLastPrices_InvalidBody() {
	for _, body := range []string{`{"homeCurrency":"REAL"}`, `{"homeCurrency":"B1L"}`, `{not json`} {
		w := suite.post(body)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}
	suite.mockService.AssertNotCalled(suite.T(), "Generate", mock.Anything, mock.Anything)
}

func (suite *ReportHandlerTestSuite) TestGenerateLastPrices_ErrorMapping() {
	tests := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("failed to load orders: %w: item_pedido.csv", apperrors.ErrMissingInput), http.StatusServiceUnavailable},
		{fmt.Errorf("failed to load orders: %w: line 3", apperrors.ErrValidation), http.StatusUnprocessableEntity},
		{fmt.Errorf("failed to write report: %w", apperrors.ErrReportWrite), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.mockService.ExpectedCalls = nil
		suite.mockService.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

		w := suite.post("")

		suite.Equal(tt.code, w.Code, tt.err.Error())
	}
}

func (suite *ReportHandlerTestSuite) TestHealthAndMetrics() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())

	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "# metrics")
}

func TestReportHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportHandlerTestSuite))
}

func TestRateLimitRejectsExcessRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := new(MockPriceReportService)
	svc.On("Generate", mock.Anything, mock.Anything).Return(sampleReport(), nil)

	limiter, err := middleware.NewMemoryLimiter("1-M")
	require.NoError(t, err)
	router := gin.New()
	handlers.RegisterRoutes(router, &portssvc.ServiceContainer{PriceReport: svc}, nil, limiter)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reports/last-prices", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	svc.AssertNumberOfCalls(t, "Generate", 1)

	// No metrics handler, no route.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
