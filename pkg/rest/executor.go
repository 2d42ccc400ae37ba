package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Signer authenticates an outgoing request. It is called once per attempt.
type Signer interface {
	Sign(ctx context.Context, httpReq *http.Request, req *Request) error
}

// ErrorHandler converts an unsuccessful response into a provider specific error. Returning
// nil falls back to HTTPResponseError.
type ErrorHandler func(req *Request, resp *Response) error

// Transport performs a single attempt of a request.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

type ExecutorOptions struct {
	// Workers bounds the number of requests in flight
	Workers int64
	// RequestsPerSecond of zero disables rate limiting
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	// MaxRetries applies to transport errors, 5xx and 429 responses
	MaxRetries uint64
	// BreakerFailures is the number of consecutive failures that opens the circuit
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	// IsSuccessful reports failures that must not count against the circuit breaker
	IsSuccessful func(err error) bool

	Signer       Signer
	ErrorHandler ErrorHandler
}

func DefaultExecutorOptions() ExecutorOptions {
	return ExecutorOptions{
		Workers:         10,
		Burst:           1,
		Timeout:         30 * time.Second,
		MaxRetries:      5,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// PooledExecutor runs requests on a bounded pool of goroutines, applying rate limiting,
// retries and a circuit breaker around its Transport before handing the response to the
// transformer.
type PooledExecutor struct {
	transport  Transport
	opts       ExecutorOptions
	workers    *semaphore.Weighted
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	newBackOff func() backoff.BackOff
	logger     logr.Logger
}

var _ Executor = &PooledExecutor{}

// NewHTTPExecutor returns a PooledExecutor sending requests with client, signed by
// opts.Signer when set.
func NewHTTPExecutor(client *http.Client, opts ExecutorOptions, logger logr.Logger) *PooledExecutor {
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultExecutorOptions().Timeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return NewPooledExecutor(&HTTPTransport{Client: client, Signer: opts.Signer}, opts, logger)
}

func NewPooledExecutor(transport Transport, opts ExecutorOptions, logger logr.Logger) *PooledExecutor {
	defaults := DefaultExecutorOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = defaults.BreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = defaults.BreakerTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(opts.Burst, 1))
	}

	e := &PooledExecutor{
		transport: transport,
		opts:      opts,
		workers:   semaphore.NewWeighted(opts.Workers),
		limiter:   limiter,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: logger.WithName("executor"),
	}

	e.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "rest-executor",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (opts.IsSuccessful != nil && opts.IsSuccessful(err))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return e
}

// Execute submits req and returns immediately. The returned future is completed by a
// worker goroutine once the response has been read and transformed.
func (e *PooledExecutor) Execute(ctx context.Context, req *Request, transform ResponseTransformer) *Future[any] {
	return Go(ctx, func(ctx context.Context) (any, error) {
		if err := e.workers.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer e.workers.Release(1)

		resp, err := e.invoke(ctx, req)
		if err != nil {
			return nil, err
		}

		v, err := transform(resp)
		if err != nil {
			err = fmt.Errorf("failed parsing response of %s: %w", req.Method, err)
		}
		return v, err
	})
}

type retryableStatusError struct {
	resp *Response
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable response status %s", e.resp.Status)
}

func (e *PooledExecutor) invoke(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response

	operation := func() error {
		if err := e.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		out, err := e.breaker.Execute(func() (interface{}, error) {
			return e.transport.RoundTrip(ctx, req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			e.logger.V(1).Info("attempt failed", "request", req.RequestLine(), "error", err.Error())
			return err
		}

		resp = out.(*Response)
		if resp.StatusCode >= http.StatusMultipleChoices {
			return backoff.Permanent(e.handleError(req, resp))
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(e.newBackOff(), e.opts.MaxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		var retryable *retryableStatusError
		if errors.As(err, &retryable) {
			return nil, e.handleError(req, retryable.resp)
		}
		return nil, err
	}

	return resp, nil
}

func (e *PooledExecutor) handleError(req *Request, resp *Response) error {
	if e.opts.ErrorHandler != nil {
		if err := e.opts.ErrorHandler(req, resp); err != nil {
			return err
		}
	}
	return &HTTPResponseError{
		RequestLine: req.RequestLine(),
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Body:        string(resp.Body),
	}
}

// HTTPTransport sends requests over HTTP. 5xx and 429 responses are reported as
// retryable failures.
type HTTPTransport struct {
	Client *http.Client
	// Signer is optional
	Signer Signer
}

var _ Transport = &HTTPTransport{}

func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	if t.Signer != nil {
		if err := t.Signer.Sign(ctx, httpReq, req); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed signing %s: %w", req.RequestLine(), err))
		}
	}

	httpResp, err := t.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header,
		Body:       body,
	}
	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
		return resp, &retryableStatusError{resp: resp}
	}
	return resp, nil
}
