package zuora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestClient is the secondary REST collaborator. The SOAP API has no
// subscription cancellation, so that one operation goes through here.
type RestClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

// RestOption configures the REST client.
type RestOption func(*RestClient)

// WithRESTLogger sets the zap logger for the REST collaborator.
func WithRESTLogger(log *zap.Logger) RestOption {
	return func(r *RestClient) { r.log = log.Named("zuora.rest") }
}

// WithHTTPClient overrides the underlying HTTP client; timeout policy
// lives there, not in this layer.
func WithHTTPClient(httpClient *http.Client) RestOption {
	return func(r *RestClient) { r.http = httpClient }
}

// NewRestClient builds the REST collaborator from client settings.
func NewRestClient(cfg Config, opts ...RestOption) *RestClient {
	r := &RestClient{
		baseURL:  cfg.RESTBaseURL,
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CancelSubscription cancels a subscription by id or number. When
// effectiveDate is empty the vendor default cancellation policy applies.
func (r *RestClient) CancelSubscription(ctx context.Context, subscriptionKey, effectiveDate string) (map[string]any, error) {
	var body map[string]any
	if effectiveDate != "" {
		body = map[string]any{"cancellationEffectiveDate": effectiveDate}
	}
	path := fmt.Sprintf("/v1/subscriptions/%s/cancel", subscriptionKey)
	var out map[string]any
	if err := r.doRequest(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, &TransportError{Op: "cancel subscription " + subscriptionKey, Err: err}
	}
	return out, nil
}

func (r *RestClient) doRequest(ctx context.Context, method, path string, body, out any) error {
	url := r.baseURL + path

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("apiAccessKeyId", r.username)
	req.Header.Set("apiSecretAccessKey", r.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	r.log.Debug("rest request", zap.String("method", method), zap.String("path", path))

	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("api error: %s (failed to read body: %v)", resp.Status, err)
		}
		return fmt.Errorf("api error: %s: %s", resp.Status, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
