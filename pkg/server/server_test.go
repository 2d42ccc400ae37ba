package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

func newTestAPI(t *testing.T, provider providers.Provider, tokens map[string]string) *LaunchkitAPI {
	gin.SetMode(gin.TestMode)
	api := NewLaunchkitAPI("0", string(providers.ProviderDummy), provider, tokens, logr.Discard())
	require.NoError(t, api.Init())
	return api
}

func dummyProvider(t *testing.T) providers.Provider {
	p, err := providers.DummyProviderFactory([]byte(`{"resources": 1}`))
	require.NoError(t, err)
	return p
}

func do(api *LaunchkitAPI, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	api.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

const launchBody = `{"group": "web", "template": {"hardwareID": "m1.small", "keyPair": "kp", "subnetID": "subnet-1"}}`

func TestInstanceLifecycle(t *testing.T) {
	api := newTestAPI(t, dummyProvider(t), nil)

	w := do(api, http.MethodPost, "/v1/instances", launchBody, nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	launched := decode[launchkitv1.Instance](t, w)
	assert.Equal(t, "dummy-0", launched.ID)
	assert.Equal(t, launchkitv1.StateProvisioning, launched.State)

	w = do(api, http.MethodGet, "/v1/instances/dummy-0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[launchkitv1.Instance](t, w)
	assert.Equal(t, launchkitv1.StateAvailable, status.State)
	assert.Equal(t, "1.1.1.0", status.Address)

	w = do(api, http.MethodDelete, "/v1/instances/dummy-0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, launchkitv1.StateReleased, decode[launchkitv1.Instance](t, w).State)

	w = do(api, http.MethodGet, "/v1/instances/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanReturnsOrderedParameters(t *testing.T) {
	api := newTestAPI(t, dummyProvider(t), nil)

	w := do(api, http.MethodPost, "/v1/launch-parameters", launchBody, nil)
	require.Equal(t, http.StatusOK, w.Code)
	plan := decode[launchkitv1.LaunchParameters](t, w)
	assert.Equal(t, []launchkitv1.FormParameter{
		{Key: "InstanceType", Value: "m1.small"},
		{Key: "SubnetId", Value: "subnet-1"},
		{Key: "KeyName", Value: "kp"},
	}, plan.Parameters)
}

func TestBadRequests(t *testing.T) {
	api := newTestAPI(t, dummyProvider(t), nil)

	w := do(api, http.MethodPost, "/v1/instances", "{", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(api, http.MethodPost, "/v1/launch-parameters", `{"template": {}}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "the template has no hardware")
}

func TestTokensRestrictGroups(t *testing.T) {
	api := newTestAPI(t, dummyProvider(t), map[string]string{"web-token": "web", "admin": "*"})

	w := do(api, http.MethodPost, "/v1/instances", launchBody, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(api, http.MethodPost, "/v1/instances", `{"group": "db", "template": {"hardwareID": "m1.small"}}`, map[string]string{TokenHeader: "web-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(api, http.MethodPost, "/v1/instances", launchBody, map[string]string{TokenHeader: "web-token"})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = do(api, http.MethodGet, "/v1/instances/dummy-0", "", map[string]string{TokenHeader: "web-token"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Instances of unknown groups are only visible to callers with access to every group
	w = do(api, http.MethodGet, "/v1/instances/other", "", map[string]string{TokenHeader: "web-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(api, http.MethodGet, "/v1/instances/other", "", map[string]string{TokenHeader: "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type failingProvider struct {
	err error
}

func (p *failingProvider) Plan(context.Context, providers.LaunchRequest) (rest.Form, error) {
	return nil, p.err
}

func (p *failingProvider) Acquire(context.Context, providers.LaunchRequest) (providers.Resource, error) {
	return providers.Resource{}, p.err
}

func (p *failingProvider) AcquireCompleted(context.Context, string) (bool, providers.Resource, error) {
	return false, providers.Resource{}, p.err
}

func (p *failingProvider) Release(context.Context, string) error {
	return p.err
}

// ec2ResponseError has the shape of an EC2 SDK failure, whose API errors carry no fault.
func ec2ResponseError(status int, code string) error {
	return &smithy.OperationError{
		ServiceID:     "EC2",
		OperationName: "RunInstances",
		Err: &awshttp.ResponseError{
			ResponseError: &smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
				Err:      &smithy.GenericAPIError{Code: code, Message: code},
			},
		},
	}
}

func TestProviderErrorsMapToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "precondition", err: &provisioning.PreconditionError{Region: "r", Group: "g", Reason: "no key"}, want: http.StatusBadRequest},
		{name: "not found", err: rest.NewResourceNotFoundError("i-1"), want: http.StatusNotFound},
		{name: "client fault", err: &smithy.GenericAPIError{Code: "InvalidAMIID.Malformed", Fault: smithy.FaultClient}, want: http.StatusBadRequest},
		{name: "server fault", err: &smithy.GenericAPIError{Code: "InternalError", Fault: smithy.FaultServer}, want: http.StatusInternalServerError},
		{name: "rejected request", err: ec2ResponseError(http.StatusBadRequest, "InvalidAMIID.Malformed"), want: http.StatusBadRequest},
		{name: "unavailable service", err: ec2ResponseError(http.StatusServiceUnavailable, "Unavailable"), want: http.StatusInternalServerError},
		{name: "other", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, &failingProvider{err: tt.err}, nil)

			w := do(api, http.MethodPost, "/v1/instances", launchBody, nil)
			assert.Equal(t, tt.want, w.Code)
			w = do(api, http.MethodDelete, "/v1/instances/i-1", "", nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t, dummyProvider(t), nil)

	w := do(api, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
