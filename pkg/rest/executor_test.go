package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headerSigner struct {
	value string
}

func (s headerSigner) Sign(_ context.Context, httpReq *http.Request, req *Request) error {
	httpReq.Header.Set("Authorization", s.value+" "+req.Method)
	return nil
}

func newTestExecutor(opts ExecutorOptions) *PooledExecutor {
	e := NewHTTPExecutor(nil, opts, logr.Discard())
	e.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return e
}

func requestFor(t *testing.T, server *httptest.Server) *Request {
	u, err := url.Parse(server.URL + "/resource")
	require.NoError(t, err)
	return &Request{Method: "Test.Get", Verb: http.MethodGet, Endpoint: u}
}

func TestExecuteRetriesUnavailable(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	e := newTestExecutor(DefaultExecutorOptions())
	v, err := e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestExecuteHandsClientErrorsToErrorHandler(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("InvalidParameter"))
	}))
	defer server.Close()

	errInvalid := errors.New("invalid parameter")
	opts := DefaultExecutorOptions()
	opts.ErrorHandler = func(req *Request, resp *Response) error {
		if string(resp.Body) == "InvalidParameter" {
			return errInvalid
		}
		return nil
	}
	e := newTestExecutor(opts)

	_, err := e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())
	assert.ErrorIs(t, err, errInvalid)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestExecuteFallsBackToResponseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestExecutor(DefaultExecutorOptions())
	_, err := e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())

	var httpErr *HTTPResponseError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.True(t, IsNotFound(err))
}

func TestExecuteSignsEveryAttempt(t *testing.T) {
	var headers []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		if len(headers) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("signed"))
	}))
	defer server.Close()

	opts := DefaultExecutorOptions()
	opts.Signer = headerSigner{value: "Token"}
	e := newTestExecutor(opts)

	v, err := e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "signed", v)
	assert.Equal(t, []string{"Token Test.Get", "Token Test.Get"}, headers)
}

func TestExecuteCancelAbortsRequest(t *testing.T) {
	arrived := make(chan struct{})
	aborted := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
		close(aborted)
	}))
	defer server.Close()

	e := newTestExecutor(DefaultExecutorOptions())
	f := e.Execute(context.Background(), requestFor(t, server), bodyTransformer)

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}

	assert.True(t, f.Cancel())
	_, err := f.Get(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)

	select {
	case <-aborted:
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request was not aborted")
	}
}

func TestExecuteOpensCircuit(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	opts := DefaultExecutorOptions()
	opts.MaxRetries = 0
	opts.BreakerFailures = 1
	opts.BreakerTimeout = time.Minute
	e := newTestExecutor(opts)

	_, err := e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())
	var httpErr *HTTPResponseError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)

	_, err = e.Execute(context.Background(), requestFor(t, server), bodyTransformer).Get(context.Background())
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestExecuteWrapsTransformFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	}))
	defer server.Close()

	e := newTestExecutor(DefaultExecutorOptions())
	_, err := e.Execute(context.Background(), requestFor(t, server), func(*Response) (any, error) {
		return nil, errors.New("unexpected document")
	}).Get(context.Background())

	assert.ErrorContains(t, err, "failed parsing response of Test.Get")
}

type countingTransport struct {
	attempts atomic.Int32
	err      error
}

func (t *countingTransport) RoundTrip(_ context.Context, req *Request) (*Response, error) {
	t.attempts.Add(1)
	if t.err != nil {
		return nil, t.err
	}
	return &Response{StatusCode: http.StatusOK, Status: "200 OK", Output: req.Input}, nil
}

func outputTransformer(r *Response) (any, error) {
	return r.Output, nil
}

func TestExecuteRunsCustomTransport(t *testing.T) {
	transport := &countingTransport{}
	e := NewPooledExecutor(transport, DefaultExecutorOptions(), logr.Discard())

	v, err := e.Execute(context.Background(), &Request{Method: "Test.Do", Region: "us-east-1", Input: "payload"}, outputTransformer).Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "payload", v)
	assert.Equal(t, int32(1), transport.attempts.Load())
}

func TestExecuteSuccessfulFailuresKeepCircuitClosed(t *testing.T) {
	errRejected := errors.New("rejected")
	transport := &countingTransport{err: errRejected}

	opts := DefaultExecutorOptions()
	opts.MaxRetries = 0
	opts.BreakerFailures = 1
	opts.BreakerTimeout = time.Minute
	opts.IsSuccessful = func(err error) bool { return errors.Is(err, errRejected) }
	e := NewPooledExecutor(transport, opts, logr.Discard())

	for i := 0; i < 3; i++ {
		_, err := e.Execute(context.Background(), &Request{Method: "Test.Do"}, outputTransformer).Get(context.Background())
		assert.ErrorIs(t, err, errRejected)
	}
	assert.Equal(t, int32(3), transport.attempts.Load())
}
