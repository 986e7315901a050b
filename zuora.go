// Package zuora wraps the Zuora SOAP and REST APIs.
//
// Accounts are fetched by either A-user_id (i.e. A-32432) or just by the
// user id (look at the GetAccount WHERE clause). Some queries rely on our
// custom fields (ShortCode__c and friends) and could break for tenants
// that do not define them.
//
// The client issues synchronous, blocking calls and never retries; a
// caller sharing one Client across goroutines must serialize access
// externally.
package zuora

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	soapTimestampLayout = "2006-01-02T15:04:05"
	soapTimestampZone   = "-06:00"
)

// formatSOAPTimestamp renders t the way the vendor expects query and
// payload timestamps.
func formatSOAPTimestamp(t time.Time) string {
	return t.Format(soapTimestampLayout) + soapTimestampZone
}

// Client is the Zuora API client. The session token is created on first
// remote call and reused for the client's lifetime; it is never renewed
// automatically.
type Client struct {
	cfg       Config
	transport Transport
	rest      *RestClient
	log       *zap.Logger
	metrics   *Metrics

	mu        sync.Mutex
	sessionID string
}

// Option configures optional client collaborators.
type Option func(*Client)

// WithLogger sets the zap logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log.Named("zuora.client") }
}

// WithMetrics attaches remote-call metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRESTClient overrides the REST collaborator used for subscription
// cancellation.
func WithRESTClient(rest *RestClient) Option {
	return func(c *Client) { c.rest = rest }
}

// New builds a client over the given SOAP transport.
func New(cfg Config, transport Transport, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:       cfg,
		transport: transport,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rest == nil && cfg.RESTBaseURL != "" {
		c.rest = NewRestClient(cfg, WithRESTLogger(c.log))
	}
	return c, nil
}

// ensureSession performs the login handshake once and memoizes the
// session token. A session invalidated by the remote side surfaces as a
// TransportError on the next call; it is not re-established here.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != "" {
		return c.sessionID, nil
	}
	session, err := c.transport.Login(ctx, c.cfg.Username, c.cfg.Password)
	if err != nil {
		return "", err
	}
	c.sessionID = session
	return session, nil
}

// call wraps every remote operation: it establishes the session, times
// the call, and folds any fault into a single uniform error kind.
func (c *Client) call(ctx context.Context, op string, fn func(session string) error) error {
	start := time.Now()
	session, err := c.ensureSession(ctx)
	if err == nil {
		err = fn(session)
	}
	c.metrics.observe(op, time.Since(start), err)
	if err != nil {
		c.log.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// Query submits a query string, collapsing whitespace first.
func (c *Client) Query(ctx context.Context, queryString string) (*RecordSet, error) {
	queryString = strings.Join(strings.Fields(queryString), " ")

	var rs *RecordSet
	err := c.call(ctx, "query", func(session string) error {
		var err error
		rs, err = c.transport.Query(ctx, session, queryString)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// QueryMore requests additional results from a previous Query call that
// exceeded the page-size cap.
func (c *Client) QueryMore(ctx context.Context, queryLocator string) (*RecordSet, error) {
	var rs *RecordSet
	err := c.call(ctx, "queryMore", func(session string) error {
		var err error
		rs, err = c.transport.QueryMore(ctx, session, queryLocator)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// queryAll runs a query and follows the continuation locator until the
// result is complete.
func (c *Client) queryAll(ctx context.Context, queryString string) ([]Record, error) {
	rs, err := c.Query(ctx, queryString)
	if err != nil {
		return nil, err
	}
	records := rs.Records
	for !rs.Done && rs.QueryLocator != "" {
		rs, err = c.QueryMore(ctx, rs.QueryLocator)
		if err != nil {
			return nil, err
		}
		records = append(records, rs.Records...)
	}
	return records, nil
}

// Create creates one or more objects of a single type in one
// transactional call.
func (c *Client) Create(ctx context.Context, objects ...RemoteObject) ([]SaveResult, error) {
	c.log.Info("create request", zap.Any("objects", objects))
	var results []SaveResult
	err := c.call(ctx, "create", func(session string) error {
		var err error
		results, err = c.transport.Create(ctx, session, objects)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("create response", zap.Any("results", results))
	return results, nil
}

// Update updates one or more objects of a single type.
func (c *Client) Update(ctx context.Context, objects ...RemoteObject) ([]SaveResult, error) {
	var results []SaveResult
	err := c.call(ctx, "update", func(session string) error {
		var err error
		results, err = c.transport.Update(ctx, session, objects)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Delete deletes objects of one type by id.
func (c *Client) Delete(ctx context.Context, objectType string, ids []string) ([]SaveResult, error) {
	var results []SaveResult
	err := c.call(ctx, "delete", func(session string) error {
		var err error
		results, err = c.transport.Delete(ctx, session, objectType, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Amend submits an amend request.
func (c *Client) Amend(ctx context.Context, request AmendRequest) ([]SaveResult, error) {
	c.log.Info("amend request", zap.Any("request", request))
	var results []SaveResult
	err := c.call(ctx, "amend", func(session string) error {
		var err error
		results, err = c.transport.Amend(ctx, session, request)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info("amend response", zap.Any("results", results))
	return results, nil
}
