package v1

import (
	"context"
	"errors"
	"net/http"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/rest"
)

type LaunchParametersInterface interface {
	Plan(ctx context.Context, req *launchkitv1.LaunchRequest) *rest.Future[*launchkitv1.LaunchParameters]
}

type launchParametersClient struct {
	proxy *rest.Proxy
}

func (c *LaunchkitV1Client) registerLaunchParameters() {
	rest.Define(c.proxy, rest.Operation[*launchkitv1.LaunchParameters]{
		Name: "PlanLaunch",
		Build: func(args []any) (*rest.Request, error) {
			if len(args) != 1 {
				return nil, errors.New("expected a single launch request")
			}
			req, ok := args[0].(*launchkitv1.LaunchRequest)
			if !ok || req == nil {
				return nil, errors.New("launch request must be a non-nil *LaunchRequest")
			}
			return c.request(http.MethodPost, req, "launch-parameters")
		},
		Transform: decodeJSON[launchkitv1.LaunchParameters],
	})
}

func (c *launchParametersClient) Plan(ctx context.Context, req *launchkitv1.LaunchRequest) *rest.Future[*launchkitv1.LaunchParameters] {
	return rest.Call[*launchkitv1.LaunchParameters](ctx, c.proxy, "PlanLaunch", req)
}
