package v1

import (
	"context"
	"errors"
	"net/http"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/rest"
)

type InstanceInterface interface {
	Launch(ctx context.Context, req *launchkitv1.LaunchRequest) *rest.Future[*launchkitv1.Instance]
	// Get completes with nil when the instance does not exist
	Get(ctx context.Context, id string) *rest.Future[*launchkitv1.Instance]
	// Release completes with false when the instance does not exist
	Release(ctx context.Context, id string) *rest.Future[bool]
}

type instanceClient struct {
	proxy *rest.Proxy
}

func (c *LaunchkitV1Client) registerInstances() {
	rest.Define(c.proxy, rest.Operation[*launchkitv1.Instance]{
		Name: "LaunchInstance",
		Build: func(args []any) (*rest.Request, error) {
			if len(args) != 1 {
				return nil, errors.New("expected a single launch request")
			}
			req, ok := args[0].(*launchkitv1.LaunchRequest)
			if !ok || req == nil {
				return nil, errors.New("launch request must be a non-nil *LaunchRequest")
			}
			return c.request(http.MethodPost, req, "instances")
		},
		Transform: decodeJSON[launchkitv1.Instance],
	})

	rest.Define(c.proxy, rest.Operation[*launchkitv1.Instance]{
		Name: "GetInstance",
		Build: func(args []any) (*rest.Request, error) {
			id, err := stringArg(args, "instance id")
			if err != nil {
				return nil, err
			}
			return c.request(http.MethodGet, nil, "instances", id)
		},
		Transform: decodeJSON[launchkitv1.Instance],
		Fallback:  rest.ZeroOnNotFound[*launchkitv1.Instance](),
	})

	rest.Define(c.proxy, rest.Operation[bool]{
		Name: "ReleaseInstance",
		Build: func(args []any) (*rest.Request, error) {
			id, err := stringArg(args, "instance id")
			if err != nil {
				return nil, err
			}
			return c.request(http.MethodDelete, nil, "instances", id)
		},
		Transform: func(*rest.Response) (bool, error) { return true, nil },
		Fallback:  rest.FalseOnNotFound,
	})
}

func (c *instanceClient) Launch(ctx context.Context, req *launchkitv1.LaunchRequest) *rest.Future[*launchkitv1.Instance] {
	return rest.Call[*launchkitv1.Instance](ctx, c.proxy, "LaunchInstance", req)
}

func (c *instanceClient) Get(ctx context.Context, id string) *rest.Future[*launchkitv1.Instance] {
	return rest.Call[*launchkitv1.Instance](ctx, c.proxy, "GetInstance", id)
}

func (c *instanceClient) Release(ctx context.Context, id string) *rest.Future[bool] {
	return rest.Call[bool](ctx, c.proxy, "ReleaseInstance", id)
}
