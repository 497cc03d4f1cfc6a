package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock OrderReader ---
type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) LoadOrders(ctx context.Context) ([]domain.OrderHeader, []domain.OrderItem, error) {
	args := m.Called(ctx)
	var headers []domain.OrderHeader
	if h := args.Get(0); h != nil {
		headers = h.([]domain.OrderHeader)
	}
	var items []domain.OrderItem
	if it := args.Get(1); it != nil {
		items = it.([]domain.OrderItem)
	}
	return headers, items, args.Error(2)
}

// --- Mock QuotationReader ---
type MockQuotationReader struct {
	mock.Mock
	quote string
}

// QuoteCurrency returns BRL unless quote is set.
func (m *MockQuotationReader) QuoteCurrency() string {
	if m.quote == "" {
		return "BRL"
	}
	return m.quote
}

func (m *MockQuotationReader) FetchQuotations(ctx context.Context, currency string, from, to time.Time) ([]domain.Quotation, error) {
	args := m.Called(ctx, currency, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quotation), args.Error(1)
}

// --- Mock ReportWriter ---
type MockReportWriter struct {
	mock.Mock
}

func (m *MockReportWriter) WriteReport(ctx context.Context, rows []domain.MaterialReport) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockReportWriter) Location() string {
	return "memory://report.csv"
}

// recordingObserver keeps every notification it receives.
type recordingObserver struct {
	mu        sync.Mutex
	loaded    [2]int
	joined    domain.JoinStats
	dropped   []error
	selected  int
	lookups   []string
	progress  [][2]int
	completed *domain.PriceReport
}

var _ portssvc.RunObserver = (*recordingObserver)(nil)

func (o *recordingObserver) OrdersLoaded(_ context.Context, headers, items int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loaded = [2]int{headers, items}
}

func (o *recordingObserver) OrdersJoined(_ context.Context, stats domain.JoinStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.joined = stats
}

func (o *recordingObserver) EventDropped(_ context.Context, _ domain.PurchaseEvent, reason error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped = append(o.dropped, reason)
}

func (o *recordingObserver) MaterialsSelected(_ context.Context, n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = n
}

func (o *recordingObserver) RateLookup(_ context.Context, currency, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups = append(o.lookups, currency+":"+outcome)
}

func (o *recordingObserver) Progress(_ context.Context, done, total int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, [2]int{done, total})
}

func (o *recordingObserver) ReportCompleted(_ context.Context, report *domain.PriceReport) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = report
}

// --- helpers ---

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func header(id string, date time.Time, currency string) domain.OrderHeader {
	return domain.OrderHeader{OrderID: id, OrderDate: date, CurrencyCode: currency}
}

func item(orderID, materialID, quantity, total string) domain.OrderItem {
	return domain.OrderItem{OrderID: orderID, MaterialID: materialID, Quantity: dec(quantity), TotalValue: dec(total)}
}
