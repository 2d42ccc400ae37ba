package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
)

// ContractViolationError is raised (as a panic) when a Proxy is asked to invoke something
// that is neither a local method nor a registered remote operation. It is a programming
// error and is never retried.
type ContractViolationError struct {
	Client string
	Method string
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s.%s cannot be invoked: %s", e.Client, e.Method, e.Reason)
}

// BuildError wraps a failure to construct the request of an operation.
type BuildError struct {
	Method string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed building request for %s: %v", e.Method, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// HTTPResponseError is returned when the remote side answers with a status that the
// configured ErrorHandler could not turn into something more specific.
type HTTPResponseError struct {
	RequestLine string
	StatusCode  int
	Status      string
	Body        string
}

func (e *HTTPResponseError) Error() string {
	return fmt.Sprintf("command %s failed with response: %s; content: [%s]", e.RequestLine, e.Status, e.Body)
}

type ResourceNotFoundError struct {
	id string
}

func NewResourceNotFoundError(id string) error {
	return ResourceNotFoundError{
		id: id,
	}
}

func (r ResourceNotFoundError) Error() string {
	return fmt.Sprintf("Resource %s not found", r.id)
}

// IsNotFound reports whether err means the addressed resource does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var notFound ResourceNotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	var httpErr *HTTPResponseError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.ErrorCode(), "NotFound") {
		return true
	}

	return false
}
