// Package graphql talks to the sections API over GraphQL-over-HTTP.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("section-editor/graphql")

var (
	ErrGraphQL    = errors.New("graphql error")
	ErrHTTPStatus = errors.New("unexpected http status")
	ErrInvalidURL = errors.New("invalid sections api url")
)

const maxErrorBody = 512

type Options struct {
	Endpoint        string
	Token           string
	Timeout         time.Duration
	RequestIDHeader string
	HTTPClient      *http.Client
}

type Client struct {
	endpoint        string
	token           string
	requestIDHeader string
	httpClient      *http.Client
}

// NewClient validates the client's operations against the embedded schema
// and returns a client for opts.Endpoint.
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.Endpoint))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidURL, "%q", opts.Endpoint)
	}
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	if err := ValidateOperations(schema, operations...); err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint:        u.String(),
		token:           strings.TrimSpace(opts.Token),
		requestIDHeader: opts.RequestIDHeader,
		httpClient:      httpClient,
	}, nil
}

type request struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type responseError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []responseError `json:"errors"`
}

// Do runs one operation and decodes its data member into out.
func (c *Client) Do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	ctx, span := tracer.Start(ctx, "graphql."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation.name", operation),
			attribute.String("http.url", c.endpoint),
		),
	)
	defer span.End()

	err := c.do(ctx, operation, query, variables, out)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{OperationName: operation, Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, uuid.NewString())
	}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Wrapf(ErrHTTPStatus, "status=%d body=%s", resp.StatusCode, truncate(raw))
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return errors.Wrap(err, "decode response")
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return errors.Wrapf(ErrGraphQL, "%s: %s", operation, strings.Join(msgs, "; "))
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return errors.Wrap(err, "decode data")
	}
	return nil
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return fmt.Sprintf("%s...", s[:maxErrorBody])
	}
	return s
}
