package pull

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
)

var errBoom = errors.New("boom")

type fakeFetcher struct {
	tables    []Table
	fields    map[uint64][]TableField
	failing   map[uint64]bool
	listErr   error
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	calls     atomic.Int32
}

func (f *fakeFetcher) ListTables(ctx context.Context) ([]Table, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Table(nil), f.tables...), nil
}

func (f *fakeFetcher) ListTableFields(ctx context.Context, tableID uint64) ([]TableField, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if f.failing[tableID] {
		return nil, errBoom
	}
	return f.fields[tableID], nil
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		tables: []Table{
			{ID: 3, Name: "Invoices", Order: 2, DatabaseID: 10},
			{ID: 1, Name: "Customers", Order: 1, DatabaseID: 10},
			{ID: 7, Name: "Elsewhere", Order: 1, DatabaseID: 99},
			{ID: 5, Name: "Projects", Order: 1, DatabaseID: 20},
		},
		fields: map[uint64][]TableField{
			1: {{ID: 11, Name: "Name", Type: "text", Primary: true}},
			3: {{ID: 31, Name: "Number", Type: "autonumber", Primary: true}},
			5: {{ID: 51, Name: "Title", Type: "text", Primary: true}},
			7: {{ID: 71, Name: "Other", Type: "text", Primary: true}},
		},
		failing: map[uint64]bool{},
	}
}

var configured = []Database{{Name: "CRM", ID: 10}, {Name: "Ops", ID: 20}}

func TestPull(t *testing.T) {
	t.Run("AttachesFieldsToConfiguredTables", func(t *testing.T) {
		fetcher := newFakeFetcher()

		result, err := Pull(context.Background(), fetcher, PullConfig{Databases: configured})
		assert.NoError(t, err)
		assert.Equal(t, 3, len(result.Tables))
		assert.Equal(t, []uint64{1, 3, 5}, tableIDs(result.Tables))
		for _, table := range result.Tables {
			assert.True(t, table.HasFields(), "table %d", table.ID)
		}
		assert.Equal(t, int32(3), fetcher.calls.Load())
		assert.Equal(t, 0, len(result.Errors))
		assert.False(t, result.ExtractedAt.IsZero())
	})

	t.Run("SkipPolicyKeepsGoing", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.failing[3] = true

		result, err := Pull(context.Background(), fetcher, PullConfig{Databases: configured, OnFetchError: FetchErrorSkip})
		assert.NoError(t, err)
		assert.Equal(t, 3, len(result.Tables))
		assert.False(t, result.Tables[1].HasFields())
		assert.True(t, result.Tables[0].HasFields())
		assert.True(t, result.Tables[2].HasFields())
		assert.Equal(t, 1, len(result.Errors))
		assert.IsError(t, result.Errors[0], errBoom)
	})

	t.Run("AbortPolicyFails", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.failing[5] = true

		_, err := Pull(context.Background(), fetcher, PullConfig{Databases: configured, OnFetchError: FetchErrorAbort})
		assert.IsError(t, err, errBoom)
		assert.Contains(t, err.Error(), "Projects")
	})

	t.Run("ListFailureIsFatal", func(t *testing.T) {
		fetcher := newFakeFetcher()
		fetcher.listErr = ErrFetchFailed

		_, err := Pull(context.Background(), fetcher, PullConfig{})
		assert.IsError(t, err, ErrFetchFailed)
	})

	t.Run("InvalidPolicy", func(t *testing.T) {
		_, err := Pull(context.Background(), newFakeFetcher(), PullConfig{OnFetchError: "retry"})
		assert.IsError(t, err, ErrInvalidFetchPolicy)
	})

	t.Run("ConcurrencyIsBounded", func(t *testing.T) {
		fetcher := newFakeFetcher()

		_, err := Pull(context.Background(), fetcher, PullConfig{Concurrency: 1})
		assert.NoError(t, err)
		assert.Equal(t, int32(1), fetcher.maxFlight.Load())
		assert.Equal(t, int32(4), fetcher.calls.Load())
	})
}

func TestFilterTables(t *testing.T) {
	tables := newFakeFetcher().tables

	t.Run("ConfiguredOnly", func(t *testing.T) {
		assert.Equal(t, []uint64{1, 3, 5}, tableIDs(FilterTables(tables, configured)))
	})

	t.Run("EmptyKeepsAll", func(t *testing.T) {
		assert.Equal(t, []uint64{1, 3, 5, 7}, tableIDs(FilterTables(tables, nil)))
	})
}

func TestParseFetchErrorPolicy(t *testing.T) {
	testCases := []struct {
		input    string
		expected FetchErrorPolicy
	}{
		{"", FetchErrorSkip},
		{"skip", FetchErrorSkip},
		{"abort", FetchErrorAbort},
	}
	for _, tc := range testCases {
		policy, err := ParseFetchErrorPolicy(tc.input)
		assert.NoError(t, err)
		assert.Equal(t, tc.expected, policy)
	}

	_, err := ParseFetchErrorPolicy("ignore")
	assert.IsError(t, err, ErrInvalidFetchPolicy)
}

func tableIDs(tables []Table) []uint64 {
	ids := make([]uint64, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	return ids
}
