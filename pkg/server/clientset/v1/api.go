package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/go-logr/logr"

	"github.com/openshift/launchkit/pkg/rest"
)

const tokenHeader = "X-Launchkit-Token"

type LaunchkitV1Interface interface {
	Instances() InstanceInterface
	LaunchParameters() LaunchParametersInterface
}

// Config addresses a launchkit-api server.
type Config struct {
	// Host is the base URL of the server, e.g. http://localhost:8085
	Host  string
	Token string
	// Executor defaults to an HTTP executor without retries, as launches are not idempotent
	Executor rest.Executor
	Logger   logr.Logger
}

type LaunchkitV1Client struct {
	proxy *rest.Proxy
	base  *url.URL
	token string
}

var _ LaunchkitV1Interface = &LaunchkitV1Client{}

// StatusError carries the message of an unsuccessful API response.
type StatusError struct {
	StatusCode int
	Msg        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("launchkit api responded %d: %s", e.StatusCode, e.Msg)
}

// parseError leaves not found responses to the default error so that rest.IsNotFound
// recognizes them.
func parseError(_ *rest.Request, resp *rest.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	var body struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Msg == "" {
		body.Msg = resp.Status
	}
	return &StatusError{StatusCode: resp.StatusCode, Msg: body.Msg}
}

func NewForConfig(c *Config) (*LaunchkitV1Client, error) {
	if c.Host == "" {
		return nil, errors.New("a host is required")
	}
	base, err := url.Parse(c.Host)
	if err != nil {
		return nil, fmt.Errorf("invalid host %s: %w", c.Host, err)
	}

	executor := c.Executor
	if executor == nil {
		opts := rest.DefaultExecutorOptions()
		opts.MaxRetries = 0
		opts.ErrorHandler = parseError
		executor = rest.NewHTTPExecutor(nil, opts, c.Logger)
	}

	client := &LaunchkitV1Client{
		proxy: rest.NewProxy("LaunchkitV1", executor, c.Logger),
		base:  base,
		token: c.Token,
	}
	client.registerInstances()
	client.registerLaunchParameters()
	client.proxy.
		RegisterRelated("Instances", func() any { return &instanceClient{proxy: client.proxy} }).
		RegisterRelated("LaunchParameters", func() any { return &launchParametersClient{proxy: client.proxy} })

	return client, nil
}

func (c *LaunchkitV1Client) Instances() InstanceInterface {
	return &instanceClient{proxy: c.proxy}
}

func (c *LaunchkitV1Client) LaunchParameters() LaunchParametersInterface {
	return &launchParametersClient{proxy: c.proxy}
}

func (c *LaunchkitV1Client) String() string {
	return c.proxy.String()
}

func (c *LaunchkitV1Client) request(verb string, body any, elem ...string) (*rest.Request, error) {
	endpoint := *c.base
	endpoint.Path = path.Join(append([]string{endpoint.Path, "v1"}, elem...)...)

	req := &rest.Request{
		Verb:     verb,
		Endpoint: &endpoint,
		Header:   http.Header{"Accept": []string{"application/json"}},
	}
	if c.token != "" {
		req.Header.Set(tokenHeader, c.token)
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req.Body = data
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeJSON[T any](r *rest.Response) (*T, error) {
	var v T
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func stringArg(args []any, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected a single %s argument, got %d", what, len(args))
	}
	s, ok := args[0].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s must be a non-empty string", what)
	}
	return s, nil
}
