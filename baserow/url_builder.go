package baserow

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultBaseURL is Baserow's hosted service.
const DefaultBaseURL = "https://api.baserow.io/"

const (
	rowsPath   = "api/database/rows/table"
	tablesPath = "api/database/tables/all-tables/"
	fieldsPath = "api/database/fields/table"
)

// URLBuilder derives endpoint URLs from a base URL. Self-hosted instances
// served below a path prefix are supported.
type URLBuilder struct {
	base *url.URL
}

// NewURLBuilder parses baseURL; an empty string selects DefaultBaseURL.
func NewURLBuilder(baseURL string) (*URLBuilder, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return &URLBuilder{base: u}, nil
}

// Base returns the normalized base URL.
func (b *URLBuilder) Base() string {
	return b.base.String()
}

// Rows is the list and create endpoint of a table.
func (b *URLBuilder) Rows(tableID uint64) string {
	return b.base.JoinPath(rowsPath, strconv.FormatUint(tableID, 10)+"/").String()
}

// ListRows is the first page of a table listing.
func (b *URLBuilder) ListRows(tableID uint64, pageSize int) string {
	u := b.base.JoinPath(rowsPath, strconv.FormatUint(tableID, 10)+"/")
	if pageSize > 0 {
		u.RawQuery = url.Values{"size": {strconv.Itoa(pageSize)}}.Encode()
	}
	return u.String()
}

// FindRow filters a table by equality on one field. field is a wire tag
// such as "field_12".
func (b *URLBuilder) FindRow(tableID uint64, field, value string) string {
	u := b.base.JoinPath(rowsPath, strconv.FormatUint(tableID, 10)+"/")
	u.RawQuery = url.Values{"filter__" + field + "__equal": {value}}.Encode()
	return u.String()
}

// Row is the endpoint of a single row.
func (b *URLBuilder) Row(tableID, rowID uint64) string {
	return b.base.JoinPath(rowsPath, strconv.FormatUint(tableID, 10), strconv.FormatUint(rowID, 10)+"/").String()
}

// AllTables lists every table the token can see.
func (b *URLBuilder) AllTables() string {
	return b.base.JoinPath(tablesPath).String()
}

// TableFields lists the field schema of a table.
func (b *URLBuilder) TableFields(tableID uint64) string {
	return b.base.JoinPath(fieldsPath, strconv.FormatUint(tableID, 10)+"/").String()
}
