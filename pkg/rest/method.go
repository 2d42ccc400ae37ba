package rest

import (
	"context"
	"fmt"
)

// RequestBuilder turns the positional arguments of an invocation into a Request.
type RequestBuilder func(args []any) (*Request, error)

// ResponseTransformer maps a successful raw response into the declared return value.
type ResponseTransformer func(*Response) (any, error)

// ExceptionParser maps a fault into a substitute return value, or re-raises it.
type ExceptionParser func(error) (any, error)

// Method is the metadata of one remote operation of a client.
type Method struct {
	Name      string
	Build     RequestBuilder
	Transform ResponseTransformer
	// Fallback is optional
	Fallback ExceptionParser
}

// Operation is the typed form of a Method.
type Operation[T any] struct {
	Name      string
	Build     RequestBuilder
	Transform func(*Response) (T, error)
	Fallback  func(error) (T, error)
}

// Define registers op on p, erasing its type.
func Define[T any](p *Proxy, op Operation[T]) {
	m := Method{
		Name:  op.Name,
		Build: op.Build,
	}
	if op.Transform != nil {
		m.Transform = func(r *Response) (any, error) {
			return op.Transform(r)
		}
	}
	if op.Fallback != nil {
		m.Fallback = func(err error) (any, error) {
			return op.Fallback(err)
		}
	}
	p.Register(m)
}

// Call invokes the operation name on p and narrows the result to T. A nil result becomes
// the zero value of T.
func Call[T any](ctx context.Context, p *Proxy, name string, args ...any) *Future[T] {
	return Map(p.Invoke(ctx, name, args...), func(v any) (T, error) {
		var zero T
		if v == nil {
			return zero, nil
		}
		t, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("%s.%s returned %T, expected %T", p.declaring, name, v, zero)
		}
		return t, nil
	})
}
