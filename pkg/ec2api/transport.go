package ec2api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/go-logr/logr"

	"github.com/openshift/launchkit/pkg/rest"
)

// API is the part of *ec2.Client the operations run on.
type API interface {
	CreateKeyPair(ctx context.Context, params *ec2.CreateKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.CreateKeyPairOutput, error)
	ImportKeyPair(ctx context.Context, params *ec2.ImportKeyPairInput, optFns ...func(*ec2.Options)) (*ec2.ImportKeyPairOutput, error)
	DescribeKeyPairs(ctx context.Context, params *ec2.DescribeKeyPairsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeKeyPairsOutput, error)
	CreateSecurityGroup(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	CreatePlacementGroup(ctx context.Context, params *ec2.CreatePlacementGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreatePlacementGroupOutput, error)
	DescribePlacementGroups(ctx context.Context, params *ec2.DescribePlacementGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribePlacementGroupsOutput, error)
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
}

var _ API = &ec2.Client{}

// invocation is one SDK operation with its input. It travels to the transport as
// rest.Request.Input.
type invocation struct {
	input any
	run   func(ctx context.Context, api API, optFns ...func(*ec2.Options)) (any, error)
}

func invoke[In, Out any](op func(API, context.Context, *In, ...func(*ec2.Options)) (*Out, error), input *In) *invocation {
	return &invocation{
		input: input,
		run: func(ctx context.Context, api API, optFns ...func(*ec2.Options)) (any, error) {
			out, err := op(api, ctx, input, optFns...)
			if err != nil {
				return nil, err
			}
			return out, nil
		},
	}
}

// SDKTransport runs operations on an EC2 SDK client in the region of the request. The
// SDK owns encoding, signing, retries and error parsing.
type SDKTransport struct {
	api API
}

var _ rest.Transport = &SDKTransport{}

func NewSDKTransport(api API) *SDKTransport {
	return &SDKTransport{api: api}
}

func (t *SDKTransport) RoundTrip(ctx context.Context, req *rest.Request) (*rest.Response, error) {
	call, ok := req.Input.(*invocation)
	if !ok || call == nil {
		return nil, fmt.Errorf("%s carries no EC2 operation, got %T", req.Method, req.Input)
	}

	out, err := call.run(ctx, t.api, func(o *ec2.Options) {
		o.Region = req.Region
	})
	if err != nil {
		return nil, err
	}
	return &rest.Response{StatusCode: http.StatusOK, Status: "200 OK", Output: out}, nil
}

// NewExecutor returns an executor running EC2 operations on api. Retries are left to the
// SDK retryer, and API errors caused by the request do not open the circuit breaker.
func NewExecutor(api API, opts rest.ExecutorOptions, logger logr.Logger) *rest.PooledExecutor {
	opts.MaxRetries = 0
	opts.IsSuccessful = IsClientError
	return rest.NewPooledExecutor(NewSDKTransport(api), opts, logger)
}
