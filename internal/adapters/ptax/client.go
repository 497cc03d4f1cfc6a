// Package ptax reads exchange-rate quotations from the Banco Central do Brasil PTAX
// OData service.
package ptax

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the public PTAX OData endpoint.
const DefaultBaseURL = "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata"

// QuoteCurrency is the currency PTAX quotes every other currency against.
const QuoteCurrency = "BRL"

// DefaultTimeout bounds a single quotation request.
const DefaultTimeout = 30 * time.Second

const (
	requestDateLayout   = "01-02-2006"
	quotationTimeLayout = "2006-01-02 15:04:05"
)

// ErrInvalidResponse is returned when the service answers with a payload that cannot be
// decoded into quotations.
var ErrInvalidResponse = errors.New("PTAX API returned an invalid response")

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements QuotationReader against the PTAX service.
type Client struct {
	http    Doer
	baseURL string
}

var _ portsrepo.QuotationReader = (*Client)(nil)

// NewClient creates a client for baseURL using a plain http.Client with timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClientWithDoer(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithDoer creates a client that sends requests through doer.
func NewClientWithDoer(baseURL string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: doer, baseURL: strings.TrimRight(baseURL, "/")}
}

// QuoteCurrency returns BRL.
func (c *Client) QuoteCurrency() string {
	return QuoteCurrency
}

type periodResponse struct {
	Value []quotationJSON `json:"value"`
}

type quotationJSON struct {
	SellRate     decimal.NullDecimal `json:"cotacaoVenda"`
	QuotedAt     string              `json:"dataHoraCotacao"`
	BulletinKind string              `json:"tipoBoletim"`
}

// FetchQuotations returns the quotations of currency published between from and to, in
// the order the service lists them (oldest first). An empty window yields an empty slice.
func (c *Client) FetchQuotations(ctx context.Context, currency string, from, to time.Time) ([]domain.Quotation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.periodURL(currency, from, to), nil)
	if err != nil {
		return nil, fmt.Errorf("building PTAX request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PTAX request for %s: %w", currency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PTAX request for %s failed with status %d", currency, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading PTAX response: %w", err)
	}

	var payload periodResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	quotations := make([]domain.Quotation, 0, len(payload.Value))
	for _, v := range payload.Value {
		if !v.SellRate.Valid {
			return nil, fmt.Errorf("%w: quotation without cotacaoVenda", ErrInvalidResponse)
		}
		quotedAt, err := time.Parse(quotationTimeLayout, v.QuotedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: dataHoraCotacao %q: %v", ErrInvalidResponse, v.QuotedAt, err)
		}
		quotations = append(quotations, domain.Quotation{QuotedAt: quotedAt, SellRate: v.SellRate.Decimal})
	}
	return quotations, nil
}

// periodURL builds the CotacaoMoedaPeriodo function call with its aliased parameters.
func (c *Client) periodURL(currency string, from, to time.Time) string {
	q := url.Values{}
	q.Set("@moeda", quoted(currency))
	q.Set("@dataInicial", quoted(from.Format(requestDateLayout)))
	q.Set("@dataFinalCotacao", quoted(to.Format(requestDateLayout)))
	q.Set("$format", "json")
	q.Set("$select", "cotacaoVenda,dataHoraCotacao,tipoBoletim")
	return c.baseURL + "/CotacaoMoedaPeriodo(moeda=@moeda,dataInicial=@dataInicial,dataFinalCotacao=@dataFinalCotacao)?" + q.Encode()
}

func quoted(s string) string {
	return "'" + s + "'"
}
