package pull

import (
	"context"
	"fmt"

	"github.com/shibukawa/baserowgen/baserow"
)

// Fetcher retrieves schema information from Baserow.
type Fetcher interface {
	// ListTables returns every table visible to the credential, without fields.
	ListTables(ctx context.Context) ([]Table, error)
	// ListTableFields returns the ordered field descriptors of one table.
	ListTableFields(ctx context.Context, tableID uint64) ([]TableField, error)
}

// HTTPFetcher reads the schema through the Baserow REST API.
type HTTPFetcher struct {
	client *baserow.Client
}

// NewHTTPFetcher creates a fetcher sharing client's transport and credential.
func NewHTTPFetcher(client *baserow.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) ListTables(ctx context.Context) ([]Table, error) {
	var tables []Table
	if err := f.client.GetJSON(ctx, f.client.URLs().AllTables(), &tables); err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", ErrFetchFailed, err)
	}
	return tables, nil
}

func (f *HTTPFetcher) ListTableFields(ctx context.Context, tableID uint64) ([]TableField, error) {
	fields := []TableField{}
	if err := f.client.GetJSON(ctx, f.client.URLs().TableFields(tableID), &fields); err != nil {
		return nil, fmt.Errorf("%w: list fields of table %d: %w", ErrFetchFailed, tableID, err)
	}
	return fields, nil
}
