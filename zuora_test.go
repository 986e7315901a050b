package zuora

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records every call and answers with configurable
// responses. Defaults are permissive: login succeeds, queries return an
// empty final page, mutators succeed with generated ids.
type fakeTransport struct {
	loginCalls int
	loginErr   error

	queries     []string
	queryFn     func(qs string) (*RecordSet, error)
	queryMoreFn func(locator string) (*RecordSet, error)

	created     []RemoteObject
	createFn    func(objects []RemoteObject) ([]SaveResult, error)
	updated     []RemoteObject
	updateFn    func(objects []RemoteObject) ([]SaveResult, error)
	deleted     []string
	deleteFn    func(objectType string, ids []string) ([]SaveResult, error)
	amends      []AmendRequest
	amendFn     func(request AmendRequest) ([]SaveResult, error)
	subscribes  []SubscribeRequest
	subscribeFn func(request SubscribeRequest) ([]SubscribeResult, error)
}

func (f *fakeTransport) Login(_ context.Context, _, _ string) (string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return "session-1", nil
}

func (f *fakeTransport) Query(_ context.Context, _, qs string) (*RecordSet, error) {
	f.queries = append(f.queries, qs)
	if f.queryFn != nil {
		return f.queryFn(qs)
	}
	return &RecordSet{Done: true}, nil
}

func (f *fakeTransport) QueryMore(_ context.Context, _, locator string) (*RecordSet, error) {
	if f.queryMoreFn != nil {
		return f.queryMoreFn(locator)
	}
	return &RecordSet{Done: true}, nil
}

func saveOK(n int) []SaveResult {
	results := make([]SaveResult, n)
	for i := range results {
		results[i] = SaveResult{ID: fmt.Sprintf("id-%d", i+1), Success: true}
	}
	return results
}

func (f *fakeTransport) Create(_ context.Context, _ string, objects []RemoteObject) ([]SaveResult, error) {
	f.created = append(f.created, objects...)
	if f.createFn != nil {
		return f.createFn(objects)
	}
	return saveOK(len(objects)), nil
}

func (f *fakeTransport) Update(_ context.Context, _ string, objects []RemoteObject) ([]SaveResult, error) {
	f.updated = append(f.updated, objects...)
	if f.updateFn != nil {
		return f.updateFn(objects)
	}
	return saveOK(len(objects)), nil
}

func (f *fakeTransport) Delete(_ context.Context, _, objectType string, ids []string) ([]SaveResult, error) {
	f.deleted = append(f.deleted, ids...)
	if f.deleteFn != nil {
		return f.deleteFn(objectType, ids)
	}
	return saveOK(len(ids)), nil
}

func (f *fakeTransport) Amend(_ context.Context, _ string, request AmendRequest) ([]SaveResult, error) {
	f.amends = append(f.amends, request)
	if f.amendFn != nil {
		return f.amendFn(request)
	}
	return saveOK(1), nil
}

func (f *fakeTransport) Subscribe(_ context.Context, _ string, request SubscribeRequest) ([]SubscribeResult, error) {
	f.subscribes = append(f.subscribes, request)
	if f.subscribeFn != nil {
		return f.subscribeFn(request)
	}
	return []SubscribeResult{{Success: true, SubscriptionID: "sub-1"}}, nil
}

func testConfig() Config {
	return Config{
		Username:         "api-user@example.com",
		Password:         "secret",
		WSDLEndpointPath: "zuora.a.58.0.wsdl",
	}
}

func newTestClient(t *testing.T, ft *fakeTransport) *Client {
	t.Helper()
	c, err := New(testConfig(), ft)
	require.NoError(t, err)
	return c
}

func rec(objectType string, fields ...Field) Record {
	return Record{Type: objectType, Fields: fields}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Username: "u"}, &fakeTransport{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestSessionEstablishedOnce(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)
	ctx := context.Background()

	_, err := c.Query(ctx, "SELECT Id FROM Account")
	require.NoError(t, err)
	_, err = c.Query(ctx, "SELECT Id FROM Account")
	require.NoError(t, err)
	_, err = c.Create(ctx, &Contact{FirstName: "_", LastName: "_"})
	require.NoError(t, err)

	assert.Equal(t, 1, ft.loginCalls)
}

func TestQueryCollapsesWhitespace(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	_, err := c.Query(context.Background(), `
		SELECT Id
		FROM Account
		WHERE	Status = 'Active'
		`)
	require.NoError(t, err)

	require.Len(t, ft.queries, 1)
	assert.Equal(t, "SELECT Id FROM Account WHERE Status = 'Active'", ft.queries[0])
}

func TestLoginFailureWrapped(t *testing.T) {
	boom := errors.New("invalid credentials")
	ft := &fakeTransport{loginErr: boom}
	c := newTestClient(t, ft)

	_, err := c.Query(context.Background(), "SELECT Id FROM Account")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "query", te.Op)
	assert.ErrorIs(t, err, boom)
}

func TestQueryFaultWrapped(t *testing.T) {
	boom := errors.New("MALFORMED_QUERY")
	ft := &fakeTransport{queryFn: func(string) (*RecordSet, error) { return nil, boom }}
	c := newTestClient(t, ft)

	_, err := c.Query(context.Background(), "SELECT Id FROM Account")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, boom)
}

func TestQueryAllFollowsLocator(t *testing.T) {
	ft := &fakeTransport{
		queryFn: func(string) (*RecordSet, error) {
			return &RecordSet{
				Records:      []Record{rec("Invoice", Field{Key: "Id", Value: "inv-1"})},
				QueryLocator: "loc-1",
			}, nil
		},
		queryMoreFn: func(locator string) (*RecordSet, error) {
			if locator != "loc-1" {
				return nil, fmt.Errorf("unknown locator %s", locator)
			}
			return &RecordSet{
				Records: []Record{rec("Invoice", Field{Key: "Id", Value: "inv-2"})},
				Done:    true,
			}, nil
		},
	}
	c := newTestClient(t, ft)

	records, err := c.queryAll(context.Background(), "SELECT Id FROM Invoice WHERE AccountId = 'a1'")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first, _ := records[0].Get("Id")
	second, _ := records[1].Get("Id")
	assert.Equal(t, "inv-1", first)
	assert.Equal(t, "inv-2", second)
}

func TestDeletePassesThrough(t *testing.T) {
	ft := &fakeTransport{}
	c := newTestClient(t, ft)

	results, err := c.Delete(context.Background(), "Account", []string{"a1", "a2"})
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, []string{"a1", "a2"}, ft.deleted)
}

func TestCheckSaveResults(t *testing.T) {
	tests := []struct {
		name    string
		results []SaveResult
		wantErr bool
	}{
		{name: "first succeeded", results: []SaveResult{{ID: "x", Success: true}}},
		{name: "empty response", results: nil, wantErr: true},
		{name: "first failed", results: []SaveResult{{Success: false, Errors: []SaveError{{Code: "INVALID_VALUE"}}}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSaveResults("create account", tt.results)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var roe *RemoteOperationError
			require.ErrorAs(t, err, &roe)
			assert.Equal(t, "create account", roe.Op)
			assert.Equal(t, tt.results, roe.Results)
		})
	}
}

func timeMustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(soapTimestampLayout, value)
	require.NoError(t, err)
	return ts
}

func TestFormatSOAPTimestamp(t *testing.T) {
	ts := timeMustParse(t, "2026-03-15T09:30:00")
	assert.Equal(t, "2026-03-15T09:30:00-06:00", formatSOAPTimestamp(ts))
}
