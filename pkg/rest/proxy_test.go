package rest

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	mu       sync.Mutex
	requests []*Request
	respond  func(*Request) (*Response, error)
}

func (e *fakeExecutor) Execute(ctx context.Context, req *Request, transform ResponseTransformer) *Future[any] {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	f := newFuture[any]()
	go func() {
		resp, err := e.respond(req)
		if err != nil {
			f.complete(nil, err)
			return
		}
		f.complete(transform(resp))
	}()
	return f
}

func (e *fakeExecutor) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}

func okResponse(body string) func(*Request) (*Response, error) {
	return func(*Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK, Status: "200 OK", Body: []byte(body)}, nil
	}
}

func getBuilder(args []any) (*Request, error) {
	if len(args) != 1 {
		return nil, errors.New("exactly one argument expected")
	}
	name, ok := args[0].(string)
	if !ok || name == "" {
		return nil, errors.New("name must be a non-empty string")
	}
	return &Request{
		Verb:     http.MethodGet,
		Endpoint: &url.URL{Scheme: "https", Host: "example.com", Path: "/" + name},
	}, nil
}

func bodyTransformer(r *Response) (any, error) {
	return string(r.Body), nil
}

func newTestProxy(exec Executor) *Proxy {
	return NewProxy("Blobs", exec, logr.Discard())
}

func TestInvokeBuildFaultWithFallbackReturnsSubstituteWithoutNetwork(t *testing.T) {
	exec := &fakeExecutor{respond: okResponse("unused")}
	p := newTestProxy(exec)
	p.Register(Method{
		Name:      "Get",
		Build:     getBuilder,
		Transform: bodyTransformer,
		Fallback: func(err error) (any, error) {
			var buildErr *BuildError
			if errors.As(err, &buildErr) {
				return "substitute", nil
			}
			return nil, err
		},
	})

	f := p.Invoke(context.Background(), "Get", 42)

	select {
	case <-f.Done():
	default:
		t.Fatal("a build fault must yield an already completed future")
	}
	v, err := f.Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "substitute", v)
	assert.Equal(t, 0, exec.calls())
}

func TestInvokeBuildFaultFallbackReRaises(t *testing.T) {
	exec := &fakeExecutor{respond: okResponse("unused")}
	parserErr := errors.New("parser refused")
	p := newTestProxy(exec)
	p.Register(Method{
		Name:      "Get",
		Build:     getBuilder,
		Transform: bodyTransformer,
		Fallback:  func(err error) (any, error) { return nil, parserErr },
	})

	_, err := p.Invoke(context.Background(), "Get").Get(context.Background())
	assert.ErrorIs(t, err, parserErr)
	assert.Equal(t, 0, exec.calls())
}

func TestInvokeBuildFaultWithoutFallbackFails(t *testing.T) {
	exec := &fakeExecutor{respond: okResponse("unused")}
	p := newTestProxy(exec)
	p.Register(Method{Name: "Get", Build: getBuilder, Transform: bodyTransformer})

	f := p.Invoke(context.Background(), "Get", "")
	_, err := f.Get(context.Background())

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "Blobs.Get", buildErr.Method)
	assert.Equal(t, 0, exec.calls())
}

func TestInvokeTransformsResponse(t *testing.T) {
	exec := &fakeExecutor{respond: okResponse("payload")}
	p := newTestProxy(exec)
	p.Register(Method{Name: "Get", Build: getBuilder, Transform: bodyTransformer})

	v, err := p.Invoke(context.Background(), "Get", "blob").Get(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "payload", v)
	require.Equal(t, 1, exec.calls())
	assert.Equal(t, "Blobs.Get", exec.requests[0].Method)
}

func TestInvokeExecutionFaultIsParsed(t *testing.T) {
	exec := &fakeExecutor{respond: func(r *Request) (*Response, error) {
		return nil, &HTTPResponseError{RequestLine: r.RequestLine(), StatusCode: http.StatusNotFound, Status: "404 Not Found"}
	}}
	p := newTestProxy(exec)
	Define(p, Operation[bool]{
		Name:      "Exists",
		Build:     getBuilder,
		Transform: func(*Response) (bool, error) { return true, nil },
		Fallback:  FalseOnNotFound,
	})

	exists, err := Call[bool](context.Background(), p, "Exists", "missing").Get(context.Background())
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 1, exec.calls())
}

func TestInvokeExecutionFaultPropagates(t *testing.T) {
	exec := &fakeExecutor{respond: func(r *Request) (*Response, error) {
		return nil, &HTTPResponseError{RequestLine: r.RequestLine(), StatusCode: http.StatusForbidden, Status: "403 Forbidden"}
	}}
	p := newTestProxy(exec)
	Define(p, Operation[bool]{
		Name:      "Exists",
		Build:     getBuilder,
		Transform: func(*Response) (bool, error) { return true, nil },
		Fallback:  FalseOnNotFound,
	})

	_, err := Call[bool](context.Background(), p, "Exists", "secret").Get(context.Background())
	var httpErr *HTTPResponseError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
}

func TestLocalMethodsDoNotReachTheNetwork(t *testing.T) {
	exec := &fakeExecutor{respond: okResponse("unused")}
	p := newTestProxy(exec)
	p.RegisterRelated("Containers", func() any { return "containers-client" })
	ctx := context.Background()

	s, err := Call[string](ctx, p, MethodString).Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "client proxy for Blobs", s)

	h, err := Call[uint64](ctx, p, MethodHash).Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("Blobs"), h)

	eq, err := Call[bool](ctx, p, MethodEqual, p).Get(ctx)
	assert.NoError(t, err)
	assert.True(t, eq)

	eq, err = Call[bool](ctx, p, MethodEqual, newTestProxy(&fakeExecutor{})).Get(ctx)
	assert.NoError(t, err)
	assert.False(t, eq)

	related, err := Call[string](ctx, p, "NewContainers").Get(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "containers-client", related)

	assert.Equal(t, 0, exec.calls())
}

func contractViolation(fn func()) (violation *ContractViolationError) {
	defer func() {
		if r := recover(); r != nil {
			violation, _ = r.(*ContractViolationError)
		}
	}()
	fn()
	return nil
}

func TestContractViolationsPanic(t *testing.T) {
	p := newTestProxy(&fakeExecutor{respond: okResponse("")})

	v := contractViolation(func() { p.Invoke(context.Background(), "Delete", "blob") })
	require.NotNil(t, v)
	assert.Equal(t, "Delete", v.Method)

	v = contractViolation(func() { p.Register(Method{Name: "Put", Build: getBuilder}) })
	require.NotNil(t, v)
	assert.Contains(t, v.Error(), "no response transformer")

	v = contractViolation(func() { p.Register(Method{Name: MethodString, Build: getBuilder, Transform: bodyTransformer}) })
	require.NotNil(t, v)

	v = contractViolation(func() { p.Invoke(context.Background(), "NewUnknown") })
	require.NotNil(t, v)
}

func TestCallRejectsUnexpectedType(t *testing.T) {
	p := newTestProxy(&fakeExecutor{respond: okResponse("text")})
	p.Register(Method{Name: "Get", Build: getBuilder, Transform: bodyTransformer})

	_, err := Call[int](context.Background(), p, "Get", "blob").Get(context.Background())
	assert.ErrorContains(t, err, "expected int")
}
