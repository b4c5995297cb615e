package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/khajaghar/pos-terminal/pkg/config"
	pkgerrors "github.com/khajaghar/pos-terminal/pkg/errors"
	"github.com/khajaghar/pos-terminal/pkg/logger"
	"github.com/khajaghar/pos-terminal/pkg/metrics"
)

// The invoice backend expects money as JSON numbers, not quoted strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

const idempotencyKeyHeader = "Idempotency-Key"

// Client talks to the remote invoice backend over bearer-authenticated JSON.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.TerminalMetrics
}

// NewClient builds an invoice backend client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, m *metrics.TerminalMetrics) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, fmt.Errorf("api bearer token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// CreateInvoice submits a new sale invoice.
func (c *Client) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodPost, "/invoice/", "create_invoice", req, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// AddPayment applies a payment event to an existing invoice. The caller's
// idempotency key lets the backend reject a duplicate of an earlier call
// whose response was lost.
func (c *Client) AddPayment(ctx context.Context, invoiceID string, req AddPaymentRequest, idempotencyKey string) (*Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	headers := map[string]string{}
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		headers[idempotencyKeyHeader] = key
	}
	var invoice Invoice
	path := fmt.Sprintf("/invoice/%s/payments/", invoiceID)
	if err := c.do(ctx, http.MethodPost, path, "add_payment", req, headers, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetInvoice fetches one invoice by id.
func (c *Client) GetInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	var invoice Invoice
	path := fmt.Sprintf("/invoice/%s/", invoiceID)
	if err := c.do(ctx, http.MethodGet, path, "get_invoice", nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListInvoices returns every invoice visible to this terminal's token.
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/invoice/", "list_invoices", nil, nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// Ping verifies the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var invoices []Invoice
	return c.do(ctx, http.MethodGet, "/invoice/", "ping", nil, nil, &invoices)
}

func (c *Client) do(ctx context.Context, method, path, operation string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveRemoteCall(operation, time.Since(start))
	if err != nil {
		// timeouts and lost responses look the same to the caller: the
		// operation may or may not have happened on the backend.
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s: no response from invoice backend", operation))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s: read response", operation))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, operation, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s: malformed response body", operation))
	}
	return nil
}

func (c *Client) statusError(ctx context.Context, operation string, status int, raw []byte) error {
	message := serverMessage(raw)

	if c.logg != nil {
		ctx = c.logg.WithFields(ctx, map[string]any{
			"operation": operation,
			"status":    status,
		})
		c.logg.Warn(ctx, "invoice backend rejected request")
	}

	code := codeForStatus(status)
	if message == "" {
		message = pkgerrors.MetadataFor(code).PublicMessage
	}
	return pkgerrors.New(code, fmt.Sprintf("%s: %s", operation, message))
}

func serverMessage(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	return strings.TrimSpace(envelope.message())
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case status >= 400 && status < 500:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}
