package rest

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes a single remote invocation. It is built once per call by a
// RequestBuilder and must not be modified after it has been handed to an Executor.
type Request struct {
	// Method is the qualified name of the invoked operation, e.g. "EC2.RunInstances"
	Method string
	// Args are the positional arguments the operation was invoked with
	Args []any

	Verb     string
	Endpoint *url.URL
	Header   http.Header
	Body     []byte

	// Region scopes the request for signers that need it. Empty for global endpoints.
	Region string

	// Input is the typed input of operations run by a Transport that encodes requests
	// itself, e.g. an SDK client. Endpoint, Header and Body are unused then.
	Input any
}

// RequestLine renders the request the way it appears on the wire, for diagnostics.
func (r *Request) RequestLine() string {
	if r.Endpoint == nil {
		return fmt.Sprintf("%s %s", r.Method, r.Region)
	}
	return fmt.Sprintf("%s %s HTTP/1.1", r.Verb, r.Endpoint)
}

// HTTPRequest converts r into a *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	if r.Endpoint == nil {
		return nil, fmt.Errorf("request %s has no endpoint", r.Method)
	}

	req, err := http.NewRequestWithContext(ctx, r.Verb, r.Endpoint.String(), bytes.NewReader(r.Body))
	if err != nil {
		return nil, err
	}
	for k, values := range r.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// Output is the decoded result of a Transport that parses responses itself
	Output any
}
