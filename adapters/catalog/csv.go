package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/utils/log"
	"go.uber.org/zap"
)

const (
	colProduct     = "Product"
	colPrice       = "Price"
	colCurrency    = "Currency"
	colDescription = "Description"
)

// parseCSV reads products from r. The Product header is mandatory; its
// absence fails the whole load. Individual rows that are too short, have an
// empty name, miss a required field, or carry invalid UTF-8 are skipped.
func parseCSV(r io.Reader) ([]domain.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	idx := columnIndex(header)
	name := col(idx, colProduct)
	if name < 0 {
		return nil, domain.ErrMissingProductColumn
	}
	price, currency, description := col(idx, colPrice), col(idx, colCurrency), col(idx, colDescription)

	var products []domain.Product
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed line, not fatal.
			skipped++
			continue
		}

		p := domain.Product{
			Name:        field(record, name),
			Price:       field(record, price),
			Currency:    field(record, currency),
			Description: field(record, description),
		}
		if p.Name == "" || p.Price == "" || p.Currency == "" || p.Description == "" {
			skipped++
			continue
		}
		if !utf8.ValidString(p.Name + p.Price + p.Currency + p.Description) {
			skipped++
			continue
		}
		products = append(products, p)
	}

	if skipped > 0 {
		log.With(zap.Int("skipped_rows", skipped)).Warn("skipped malformed CSV rows")
	}
	return products, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func col(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// openSource returns a reader for a local file path or an http(s) URL.
func openSource(ctx context.Context, client *http.Client, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("building catalog request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("downloading catalog: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("downloading catalog: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening catalog file: %w", err)
	}
	return f, nil
}
