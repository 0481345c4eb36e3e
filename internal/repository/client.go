package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	ET "github.com/IBM/fp-go/v2/either"
	IOE "github.com/IBM/fp-go/v2/ioeither"
	Http "github.com/IBM/fp-go/v2/ioeither/http"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
)

const (
	contentTypeJSONLD     = "application/ld+json"
	contentTypeMergePatch = "application/merge-patch+json"
)

// TokenSource yields the bearer token of the logged-in user.
type TokenSource interface {
	Token() string
}

// Client talks to the dispatch REST API. Every call is issued exactly once;
// there are no retries.
type Client struct {
	baseURL      *url.URL
	perPage      int
	http         Http.Client
	token        TokenSource
	Logger       *zap.SugaredLogger
	Tracer       trace.Tracer
	Meter        metric.Meter
	callDuration metric.Int64Histogram
	callsFailed  metric.Int64Counter
}

func NewClient(
	cfg config.Server,
	token TokenSource,
	tracer trace.Tracer,
	logger *zap.SugaredLogger,
	meter metric.Meter,
) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: base,
		perPage: cfg.PerPage,
		http:    Http.MakeClient(&http.Client{Timeout: timeout}),
		token:   token,
		Logger:  logger,
		Tracer:  tracer,
		Meter:   meter,
	}

	c.callDuration, err = meter.Int64Histogram(
		"repository.call.duration",
		metric.WithDescription("Duration of dispatch API calls"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	c.callsFailed, err = meter.Int64Counter(
		"repository.call.failed",
		metric.WithDescription("Dispatch API calls that failed or returned an unexpected status"),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

type call struct {
	op     string
	method string
	path   []string
	query  url.Values
	body   func() (io.Reader, string, error)
	expect []int
}

type response struct {
	status int
	body   []byte
}

func jsonBody(contentType string, v any) func() (io.Reader, string, error) {
	return func() (io.Reader, string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), contentType, nil
	}
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL.JoinPath(cl.path...)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	var (
		body        io.Reader
		contentType string
	)
	if cl.body != nil {
		var err error
		body, contentType, err = cl.body()
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", cl.op, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", contentTypeJSONLD)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return req, nil
}

// send issues cl once and yields the response when its status is expected.
func (c *Client) send(ctx context.Context, cl call) IOE.IOEither[error, response] {
	return func() ET.Either[error, response] {
		ctx, span := c.Tracer.Start(ctx, "repository."+cl.op, trace.WithAttributes(
			attribute.String("http.method", cl.method),
		))
		defer span.End()
		startTime := time.Now()

		requester := IOE.TryCatchError(func() (*http.Request, error) {
			return c.newRequest(ctx, cl)
		})
		status := 0
		result := IOE.Bracket(
			c.http.Do(requester),
			func(resp *http.Response) IOE.IOEither[error, response] {
				status = resp.StatusCode
				return IOE.TryCatchError(func() (response, error) {
					data, err := io.ReadAll(resp.Body)
					if err != nil {
						return response{}, fmt.Errorf("read %s response: %w", cl.op, err)
					}
					if !slices.Contains(cl.expect, resp.StatusCode) {
						return response{}, newStatusError(cl.op, resp.StatusCode, data)
					}
					return response{status: resp.StatusCode, body: data}, nil
				})
			},
			func(resp *http.Response, _ ET.Either[error, response]) IOE.IOEither[error, any] {
				return IOE.TryCatchError(func() (any, error) { return nil, resp.Body.Close() })
			},
		)()

		attrs := metric.WithAttributes(
			attribute.String("op", cl.op),
			attribute.String("status", strconv.Itoa(status)),
		)
		c.callDuration.Record(ctx, time.Since(startTime).Milliseconds(), attrs)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if ET.IsLeft(result) {
			_, err := ET.UnwrapError(result)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.callsFailed.Add(ctx, 1, attrs)
			c.Logger.Warnw("Dispatch API call failed", "op", cl.op, "status", status, "err", err)
			return ET.Left[response](fmt.Errorf("%s: %w", cl.op, err))
		}
		c.Logger.Debugw("Dispatch API call", "op", cl.op, "status", status,
			"duration_ms", time.Since(startTime).Milliseconds())
		return result
	}
}

func decode[T any](r response) IOE.IOEither[error, T] {
	return IOE.TryCatchError(func() (T, error) {
		var v T
		if err := json.Unmarshal(r.body, &v); err != nil {
			return v, fmt.Errorf("decode response: %w", err)
		}
		return v, nil
	})
}
