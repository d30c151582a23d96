package ledger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	domain "github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// Client exposes the ledger API operations used by the command line tool.
type Client interface {
	Summary(ctx context.Context) ([]models.ProductSummary, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (int, error)
	CreateSheet(ctx context.Context, product int, req models.CreateSheetRequest) (int, error)
	CreatePage(ctx context.Context, product, sheet int, req models.CreatePageRequest) (domain.Path, error)
	Page(ctx context.Context, path domain.Path) (*models.PageView, error)
	AppendRecord(ctx context.Context, path domain.Path, req models.RecordRequest) (*RecordResponse, error)
	UpdateRecord(ctx context.Context, path domain.Path, record int, req models.RecordRequest) (*RecordResponse, error)
	DeleteRecord(ctx context.Context, path domain.Path, record int) error
	Save(ctx context.Context) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a ledger API client for the server at baseURL.
func NewClient(baseURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// RecordResponse mirrors the body returned by record mutations.
type RecordResponse struct {
	Index  int           `json:"index"`
	Record domain.Record `json:"record"`
}

// APIError is a failure reported by the ledger API.
type APIError struct {
	Status int
	Body   models.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("ledger api error: status=%d", e.Status)
	}
	return fmt.Sprintf("ledger api error: status=%d, message=%s", e.Status, e.Body.Error)
}

// Summary fetches GET /ledger/summary.
func (c *APIClient) Summary(ctx context.Context) ([]models.ProductSummary, error) {
	var out []models.ProductSummary
	if err := c.do(ctx, http.MethodGet, "/ledger/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct calls POST /products and returns the new product index.
func (c *APIClient) CreateProduct(ctx context.Context, req models.CreateProductRequest) (int, error) {
	var out struct {
		Product int `json:"product"`
	}
	if err := c.do(ctx, http.MethodPost, "/products", req, &out); err != nil {
		return 0, err
	}
	return out.Product, nil
}

// CreateSheet calls POST /products/:product/sheets and returns the new sheet index.
func (c *APIClient) CreateSheet(ctx context.Context, product int, req models.CreateSheetRequest) (int, error) {
	var out struct {
		Sheet int `json:"sheet"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/sheets", product), req, &out); err != nil {
		return 0, err
	}
	return out.Sheet, nil
}

// CreatePage calls POST .../pages and returns the new page path.
func (c *APIClient) CreatePage(ctx context.Context, product, sheet int, req models.CreatePageRequest) (domain.Path, error) {
	var out domain.Path
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/sheets/%d/pages", product, sheet), req, &out); err != nil {
		return domain.Path{}, err
	}
	return out, nil
}

// Page fetches one page with its records.
func (c *APIClient) Page(ctx context.Context, path domain.Path) (*models.PageView, error) {
	out := new(models.PageView)
	if err := c.do(ctx, http.MethodGet, pagePath(path), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppendRecord appends (or inserts, when req.Position is set) a movement.
func (c *APIClient) AppendRecord(ctx context.Context, path domain.Path, req models.RecordRequest) (*RecordResponse, error) {
	out := new(RecordResponse)
	if err := c.do(ctx, http.MethodPost, pagePath(path)+"/records", req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecord rewrites a movement.
func (c *APIClient) UpdateRecord(ctx context.Context, path domain.Path, record int, req models.RecordRequest) (*RecordResponse, error) {
	out := new(RecordResponse)
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/records/%d", pagePath(path), record), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRecord removes a movement.
func (c *APIClient) DeleteRecord(ctx context.Context, path domain.Path, record int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/records/%d", pagePath(path), record), nil, nil)
}

// Save asks the server to write the ledger to its store.
func (c *APIClient) Save(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/ledger/save", nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, url string, body, result any) error {
	apiErr := new(models.ErrorResponse)

	req := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode(), Body: *apiErr}
	}
	return nil
}

func pagePath(p domain.Path) string {
	return fmt.Sprintf("/products/%d/sheets/%d/pages/%d", p.Product, p.Sheet, p.Page)
}
