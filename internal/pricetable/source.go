package pricetable

import (
	"context"
	"fmt"
	"net/http"

	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/xuri/excelize/v2"
)

// Source fetches the rows of one price sheet.
type Source interface {
	Fetch(ctx context.Context, res Resource) ([]Row, error)
	String() string
}

// HTTPClient abstracts the HTTP transport; *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource reads the sheets from published CSV URLs.
type HTTPSource struct {
	client HTTPClient
	sheets model.PriceSheets
}

// NewHTTPSource returns a source fetching sheets with client.
// A nil client uses http.DefaultClient.
func NewHTTPSource(client HTTPClient, sheets model.PriceSheets) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{client: client, sheets: sheets}
}

func (s *HTTPSource) url(res Resource) string {
	switch res {
	case ResourceStockItems:
		return s.sheets.StockItems
	case ResourceProcess:
		return s.sheets.Process
	case ResourceShopRate:
		return s.sheets.ShopRate
	case ResourceModelRules:
		return s.sheets.ModelRules
	}
	return ""
}

// Fetch downloads and parses one sheet. Non-2xx responses wrap ErrFetch.
func (s *HTTPSource) Fetch(ctx context.Context, res Resource) ([]Row, error) {
	url := s.url(res)
	if url == "" {
		return nil, fmt.Errorf("%w: no URL configured for %s", ErrFetch, res)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", res, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, res, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, res, resp.StatusCode)
	}
	rows, err := ParseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", res, err)
	}
	return rows, nil
}

func (s *HTTPSource) String() string { return "published sheets" }

// WorkbookSource reads the sheets from a local .xlsx file holding one
// worksheet per resource, named after the resource.
type WorkbookSource struct {
	path string
}

// NewWorkbookSource returns a source reading the workbook at path.
func NewWorkbookSource(path string) *WorkbookSource {
	return &WorkbookSource{path: path}
}

func (s *WorkbookSource) Fetch(ctx context.Context, res Resource) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price workbook: %w", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(string(res))
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: workbook has no %q sheet", ErrFetch, res)
	}
	records, err := f.GetRows(string(res))
	if err != nil {
		return nil, fmt.Errorf("cannot read %s sheet: %w", res, err)
	}
	return rowsFromRecords(records), nil
}

func (s *WorkbookSource) String() string { return s.path }

// SourceFor picks the workbook when configured, else the published URLs.
func SourceFor(cfg model.AppConfig, client HTTPClient) Source {
	if cfg.UsesWorkbook() {
		return NewWorkbookSource(cfg.PriceWorkbook)
	}
	return NewHTTPSource(client, cfg.PriceSheets)
}
