package rest

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/go-logr/logr"
)

// Executor submits a request for asynchronous execution and applies transform to the
// response once it arrives.
type Executor interface {
	Execute(ctx context.Context, req *Request, transform ResponseTransformer) *Future[any]
}

// Local method names. They never reach the network.
const (
	MethodEqual  = "Equal"
	MethodString = "String"
	MethodHash   = "Hash"

	relatedPrefix = "New"
)

// Proxy dispatches invocations of a declared client onto an Executor, using the request
// builder, response transformer and exception parser registered for each operation.
type Proxy struct {
	declaring string
	executor  Executor
	methods   map[string]Method
	related   map[string]func() any
	logger    logr.Logger
	metrics   *Metrics
}

type ProxyOption func(*Proxy)

// WithMetrics records invocation counters in m.
func WithMetrics(m *Metrics) ProxyOption {
	return func(p *Proxy) {
		p.metrics = m
	}
}

func NewProxy(declaring string, executor Executor, logger logr.Logger, opts ...ProxyOption) *Proxy {
	p := &Proxy{
		declaring: declaring,
		executor:  executor,
		methods:   make(map[string]Method),
		related:   make(map[string]func() any),
		logger:    logger.WithName(declaring),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds a remote operation. An operation without a request builder or a response
// transformer can never produce a result and is rejected with a panic.
func (p *Proxy) Register(m Method) *Proxy {
	switch {
	case m.Name == "":
		panic(&ContractViolationError{Client: p.declaring, Method: "<unnamed>", Reason: "operation has no name"})
	case m.Build == nil:
		panic(&ContractViolationError{Client: p.declaring, Method: m.Name, Reason: "operation has no request builder"})
	case m.Transform == nil:
		panic(&ContractViolationError{Client: p.declaring, Method: m.Name, Reason: "operation has no response transformer"})
	case isLocal(m.Name):
		panic(&ContractViolationError{Client: p.declaring, Method: m.Name, Reason: "name is reserved for a local method"})
	}

	p.methods[m.Name] = m
	return p
}

// RegisterRelated makes factory reachable through Invoke(ctx, "New"+name).
func (p *Proxy) RegisterRelated(name string, factory func() any) *Proxy {
	p.related[relatedPrefix+name] = factory
	return p
}

// Invoke dispatches the method name with args. Local methods complete immediately; remote
// operations return a pending Future. Anything else panics with a ContractViolationError.
func (p *Proxy) Invoke(ctx context.Context, name string, args ...any) *Future[any] {
	switch name {
	case MethodEqual:
		var other *Proxy
		if len(args) == 1 {
			other, _ = args[0].(*Proxy)
		}
		return Completed[any](p.Equal(other))
	case MethodString:
		return Completed[any](p.String())
	case MethodHash:
		return Completed[any](p.Hash())
	}

	if strings.HasPrefix(name, relatedPrefix) {
		if factory, ok := p.related[name]; ok {
			return Completed(factory())
		}
	}

	m, ok := p.methods[name]
	if !ok {
		panic(&ContractViolationError{Client: p.declaring, Method: name, Reason: "method is not a registered remote operation"})
	}

	return p.createFuture(ctx, m, args)
}

func (p *Proxy) createFuture(ctx context.Context, m Method, args []any) *Future[any] {
	p.logger.V(2).Info("converting", "method", m.Name)
	p.metrics.invoked(p.declaring, m.Name)

	req, err := m.Build(args)
	if err != nil {
		err = &BuildError{Method: p.qualified(m.Name), Err: err}
		p.metrics.faulted(p.declaring, m.Name, "build")
		if m.Fallback != nil {
			v, perr := m.Fallback(err)
			if perr != nil {
				return Failed[any](perr)
			}
			p.metrics.substituted(p.declaring, m.Name)
			return Completed(v)
		}
		return Failed[any](err)
	}
	if req.Method == "" {
		req.Method = p.qualified(m.Name)
	}
	p.logger.V(2).Info("converted", "method", m.Name, "request", req.RequestLine())

	p.logger.V(1).Info("invoking", "method", m.Name)
	result := p.executor.Execute(ctx, req, m.Transform)

	if m.Fallback == nil {
		return result
	}

	p.logger.V(2).Info("exceptions are parsed by fallback", "method", m.Name)
	return Recover(result, func(err error) (any, error) {
		p.metrics.faulted(p.declaring, m.Name, "execute")
		v, perr := m.Fallback(err)
		if perr == nil {
			p.metrics.substituted(p.declaring, m.Name)
		}
		return v, perr
	})
}

func (p *Proxy) qualified(name string) string {
	return p.declaring + "." + name
}

// Equal reports whether other dispatches the same declared client through the same executor.
func (p *Proxy) Equal(other *Proxy) bool {
	if other == nil {
		return false
	}
	if other == p {
		return true
	}
	return other.declaring == p.declaring && other.executor == p.executor
}

func (p *Proxy) Hash() uint64 {
	return xxhash.Sum64String(p.declaring)
}

func (p *Proxy) String() string {
	return fmt.Sprintf("client proxy for %s", p.declaring)
}

func isLocal(name string) bool {
	return name == MethodEqual || name == MethodString || name == MethodHash
}
