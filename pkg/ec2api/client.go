package ec2api

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/openshift/launchkit/pkg/rest"
)

//go:generate mockgen -source=client.go -destination=mock_client.go -package=ec2api

const declaringClient = "EC2"

// KeyPair is a key pair known in a region. KeyMaterial holds the private key, when known.
type KeyPair struct {
	Region         string
	KeyName        string
	KeyFingerprint string
	KeyMaterial    string
}

// LaunchOptions supplies the optional RunInstances parameters.
type LaunchOptions interface {
	ApplyTo(input *ec2.RunInstancesInput)
}

// Client is the asynchronous EC2 API. Every operation returns immediately.
type Client interface {
	CreateKeyPair(ctx context.Context, region, keyName string) *rest.Future[*KeyPair]
	ImportKeyPair(ctx context.Context, region, keyName, publicKeyMaterial string) *rest.Future[*KeyPair]
	DescribeKeyPairs(ctx context.Context, region string, keyNames []string) *rest.Future[[]KeyPair]
	CreateSecurityGroup(ctx context.Context, region, groupName, description string) *rest.Future[string]
	DescribeSecurityGroups(ctx context.Context, region string, groupNames []string) *rest.Future[[]ec2types.SecurityGroup]
	AuthorizeSecurityGroupIngress(ctx context.Context, region, groupName string, permissions []ec2types.IpPermission) *rest.Future[bool]
	CreatePlacementGroup(ctx context.Context, region, groupName string, strategy ec2types.PlacementStrategy) *rest.Future[bool]
	DescribePlacementGroups(ctx context.Context, region string, groupNames []string) *rest.Future[[]ec2types.PlacementGroup]
	RunInstances(ctx context.Context, region, imageID string, minCount, maxCount int, options LaunchOptions) *rest.Future[[]ec2types.Instance]
	DescribeInstances(ctx context.Context, region string, instanceIDs []string) *rest.Future[[]ec2types.Instance]
	TerminateInstances(ctx context.Context, region string, instanceIDs []string) *rest.Future[[]ec2types.InstanceStateChange]
}

type client struct {
	proxy          *rest.Proxy
	newClientToken func() string
}

var _ Client = &client{}

type Option func(*options)

type options struct {
	proxyOptions []rest.ProxyOption
}

func WithMetrics(m *rest.Metrics) Option {
	return func(o *options) {
		o.proxyOptions = append(o.proxyOptions, rest.WithMetrics(m))
	}
}

// New returns a Client dispatching onto executor, normally one built by NewExecutor.
func New(executor rest.Executor, logger logr.Logger, opts ...Option) Client {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &client{
		proxy:          rest.NewProxy(declaringClient, executor, logger, o.proxyOptions...),
		newClientToken: uuid.NewString,
	}
	c.register()
	return c
}

func (c *client) register() {
	rest.Define(c.proxy, rest.Operation[*KeyPair]{
		Name: "CreateKeyPair",
		Build: sdk(func(args []any) (*invocation, error) {
			name, err := stringArg(args, 1, "key name")
			if err != nil {
				return nil, err
			}
			return invoke(API.CreateKeyPair, &ec2.CreateKeyPairInput{KeyName: aws.String(name)}), nil
		}),
		Transform: output(func(o *ec2.CreateKeyPairOutput) (*KeyPair, error) {
			return keyPair("CreateKeyPair", o.KeyName, o.KeyFingerprint, o.KeyMaterial)
		}),
	})

	rest.Define(c.proxy, rest.Operation[*KeyPair]{
		Name: "ImportKeyPair",
		Build: sdk(func(args []any) (*invocation, error) {
			name, err := stringArg(args, 1, "key name")
			if err != nil {
				return nil, err
			}
			material, err := stringArg(args, 2, "public key material")
			if err != nil {
				return nil, err
			}
			return invoke(API.ImportKeyPair, &ec2.ImportKeyPairInput{
				KeyName:           aws.String(name),
				PublicKeyMaterial: []byte(material),
			}), nil
		}),
		Transform: output(func(o *ec2.ImportKeyPairOutput) (*KeyPair, error) {
			return keyPair("ImportKeyPair", o.KeyName, o.KeyFingerprint, nil)
		}),
	})

	rest.Define(c.proxy, rest.Operation[[]KeyPair]{
		Name: "DescribeKeyPairs",
		Build: sdk(func(args []any) (*invocation, error) {
			names, err := stringsArg(args, 1, "key names")
			if err != nil {
				return nil, err
			}
			return invoke(API.DescribeKeyPairs, &ec2.DescribeKeyPairsInput{KeyNames: names}), nil
		}),
		Transform: output(func(o *ec2.DescribeKeyPairsOutput) ([]KeyPair, error) {
			return lo.Map(o.KeyPairs, func(k ec2types.KeyPairInfo, _ int) KeyPair {
				return KeyPair{KeyName: aws.ToString(k.KeyName), KeyFingerprint: aws.ToString(k.KeyFingerprint)}
			}), nil
		}),
		Fallback: emptyOnMissing[KeyPair],
	})

	rest.Define(c.proxy, rest.Operation[string]{
		Name: "CreateSecurityGroup",
		Build: sdk(func(args []any) (*invocation, error) {
			name, err := stringArg(args, 1, "group name")
			if err != nil {
				return nil, err
			}
			description, err := stringArg(args, 2, "group description")
			if err != nil {
				return nil, err
			}
			return invoke(API.CreateSecurityGroup, &ec2.CreateSecurityGroupInput{
				GroupName:   aws.String(name),
				Description: aws.String(description),
			}), nil
		}),
		Transform: output(func(o *ec2.CreateSecurityGroupOutput) (string, error) {
			return aws.ToString(o.GroupId), nil
		}),
	})

	rest.Define(c.proxy, rest.Operation[[]ec2types.SecurityGroup]{
		Name: "DescribeSecurityGroups",
		Build: sdk(func(args []any) (*invocation, error) {
			names, err := stringsArg(args, 1, "group names")
			if err != nil {
				return nil, err
			}
			return invoke(API.DescribeSecurityGroups, &ec2.DescribeSecurityGroupsInput{GroupNames: names}), nil
		}),
		Transform: output(func(o *ec2.DescribeSecurityGroupsOutput) ([]ec2types.SecurityGroup, error) {
			return o.SecurityGroups, nil
		}),
		Fallback: emptyOnMissing[ec2types.SecurityGroup],
	})

	rest.Define(c.proxy, rest.Operation[bool]{
		Name: "AuthorizeSecurityGroupIngress",
		Build: sdk(func(args []any) (*invocation, error) {
			name, err := stringArg(args, 1, "group name")
			if err != nil {
				return nil, err
			}
			if len(args) < 3 {
				return nil, fmt.Errorf("missing ip permissions")
			}
			permissions, ok := args[2].([]ec2types.IpPermission)
			if !ok || len(permissions) == 0 {
				return nil, fmt.Errorf("ip permissions must be a non-empty []IpPermission, got %T", args[2])
			}
			for i, p := range permissions {
				if p.IpProtocol == nil {
					return nil, fmt.Errorf("ip permission %d has no protocol", i+1)
				}
			}
			return invoke(API.AuthorizeSecurityGroupIngress, &ec2.AuthorizeSecurityGroupIngressInput{
				GroupName:     aws.String(name),
				IpPermissions: permissions,
			}), nil
		}),
		Transform: output(func(o *ec2.AuthorizeSecurityGroupIngressOutput) (bool, error) {
			return aws.ToBool(o.Return), nil
		}),
	})

	rest.Define(c.proxy, rest.Operation[bool]{
		Name: "CreatePlacementGroup",
		Build: sdk(func(args []any) (*invocation, error) {
			name, err := stringArg(args, 1, "group name")
			if err != nil {
				return nil, err
			}
			if len(args) < 3 {
				return nil, fmt.Errorf("missing placement strategy")
			}
			strategy, ok := args[2].(ec2types.PlacementStrategy)
			if !ok || strategy == "" {
				return nil, fmt.Errorf("placement strategy must be a non-empty PlacementStrategy, got %T", args[2])
			}
			return invoke(API.CreatePlacementGroup, &ec2.CreatePlacementGroupInput{
				GroupName: aws.String(name),
				Strategy:  strategy,
			}), nil
		}),
		Transform: output(func(*ec2.CreatePlacementGroupOutput) (bool, error) {
			return true, nil
		}),
	})

	rest.Define(c.proxy, rest.Operation[[]ec2types.PlacementGroup]{
		Name: "DescribePlacementGroups",
		Build: sdk(func(args []any) (*invocation, error) {
			names, err := stringsArg(args, 1, "group names")
			if err != nil {
				return nil, err
			}
			return invoke(API.DescribePlacementGroups, &ec2.DescribePlacementGroupsInput{GroupNames: names}), nil
		}),
		Transform: output(func(o *ec2.DescribePlacementGroupsOutput) ([]ec2types.PlacementGroup, error) {
			return o.PlacementGroups, nil
		}),
		Fallback: emptyOnMissing[ec2types.PlacementGroup],
	})

	rest.Define(c.proxy, rest.Operation[[]ec2types.Instance]{
		Name: "RunInstances",
		Build: sdk(func(args []any) (*invocation, error) {
			imageID, err := stringArg(args, 1, "image id")
			if err != nil {
				return nil, err
			}
			if len(args) < 5 {
				return nil, fmt.Errorf("missing instance counts or launch options")
			}
			minCount, okMin := args[2].(int)
			maxCount, okMax := args[3].(int)
			if !okMin || !okMax || minCount < 1 || maxCount < minCount {
				return nil, fmt.Errorf("invalid instance counts min=%v max=%v", args[2], args[3])
			}
			input := &ec2.RunInstancesInput{
				ImageId:  aws.String(imageID),
				MinCount: aws.Int32(int32(minCount)),
				MaxCount: aws.Int32(int32(maxCount)),
				// the SDK retries with the same token, so a retried launch is not duplicated
				ClientToken: aws.String(c.newClientToken()),
			}
			if launch, ok := args[4].(LaunchOptions); ok && launch != nil {
				launch.ApplyTo(input)
			}
			return invoke(API.RunInstances, input), nil
		}),
		Transform: output(func(o *ec2.RunInstancesOutput) ([]ec2types.Instance, error) {
			return o.Instances, nil
		}),
	})

	rest.Define(c.proxy, rest.Operation[[]ec2types.Instance]{
		Name: "DescribeInstances",
		Build: sdk(func(args []any) (*invocation, error) {
			ids, err := stringsArg(args, 1, "instance ids")
			if err != nil {
				return nil, err
			}
			return invoke(API.DescribeInstances, &ec2.DescribeInstancesInput{InstanceIds: ids}), nil
		}),
		Transform: output(func(o *ec2.DescribeInstancesOutput) ([]ec2types.Instance, error) {
			return lo.FlatMap(o.Reservations, func(r ec2types.Reservation, _ int) []ec2types.Instance {
				return r.Instances
			}), nil
		}),
		Fallback: emptyOnMissing[ec2types.Instance],
	})

	rest.Define(c.proxy, rest.Operation[[]ec2types.InstanceStateChange]{
		Name: "TerminateInstances",
		Build: sdk(func(args []any) (*invocation, error) {
			ids, err := stringsArg(args, 1, "instance ids")
			if err != nil {
				return nil, err
			}
			if len(ids) == 0 {
				return nil, fmt.Errorf("at least one instance id is required")
			}
			return invoke(API.TerminateInstances, &ec2.TerminateInstancesInput{InstanceIds: ids}), nil
		}),
		Transform: output(func(o *ec2.TerminateInstancesOutput) ([]ec2types.InstanceStateChange, error) {
			return o.TerminatingInstances, nil
		}),
	})
}

// sdk returns a request builder for an SDK operation. The first argument of every
// operation is the region; build turns the others into the SDK input.
func sdk(build func(args []any) (*invocation, error)) rest.RequestBuilder {
	return func(args []any) (*rest.Request, error) {
		region, err := stringArg(args, 0, "region")
		if err != nil {
			return nil, err
		}
		call, err := build(args)
		if err != nil {
			return nil, err
		}
		return &rest.Request{
			Args:   args,
			Region: region,
			Input:  call,
		}, nil
	}
}

// output returns a response transformer reading the SDK output of type O.
func output[O any, T any](convert func(*O) (T, error)) func(*rest.Response) (T, error) {
	return func(r *rest.Response) (T, error) {
		out, ok := r.Output.(*O)
		if !ok || out == nil {
			var zero T
			return zero, fmt.Errorf("unexpected output %T", r.Output)
		}
		return convert(out)
	}
}

func keyPair(action string, name, fingerprint, material *string) (*KeyPair, error) {
	if aws.ToString(name) == "" {
		return nil, fmt.Errorf("%s response carries no key name", action)
	}
	return &KeyPair{
		KeyName:        aws.ToString(name),
		KeyFingerprint: aws.ToString(fingerprint),
		KeyMaterial:    aws.ToString(material),
	}, nil
}

func stringArg(args []any, i int, what string) (string, error) {
	if len(args) <= i {
		return "", fmt.Errorf("missing %s", what)
	}
	s, ok := args[i].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%s must be a non-empty string, got %#v", what, args[i])
	}
	return s, nil
}

func stringsArg(args []any, i int, what string) ([]string, error) {
	if len(args) <= i || args[i] == nil {
		return nil, nil
	}
	s, ok := args[i].([]string)
	if !ok {
		return nil, fmt.Errorf("%s must be a []string, got %T", what, args[i])
	}
	return s, nil
}

func (c *client) CreateKeyPair(ctx context.Context, region, keyName string) *rest.Future[*KeyPair] {
	return withRegion(rest.Call[*KeyPair](ctx, c.proxy, "CreateKeyPair", region, keyName), region)
}

func (c *client) ImportKeyPair(ctx context.Context, region, keyName, publicKeyMaterial string) *rest.Future[*KeyPair] {
	return withRegion(rest.Call[*KeyPair](ctx, c.proxy, "ImportKeyPair", region, keyName, publicKeyMaterial), region)
}

func (c *client) DescribeKeyPairs(ctx context.Context, region string, keyNames []string) *rest.Future[[]KeyPair] {
	return rest.Map(rest.Call[[]KeyPair](ctx, c.proxy, "DescribeKeyPairs", region, keyNames), func(keys []KeyPair) ([]KeyPair, error) {
		for i := range keys {
			keys[i].Region = region
		}
		return keys, nil
	})
}

func (c *client) CreateSecurityGroup(ctx context.Context, region, groupName, description string) *rest.Future[string] {
	return rest.Call[string](ctx, c.proxy, "CreateSecurityGroup", region, groupName, description)
}

func (c *client) DescribeSecurityGroups(ctx context.Context, region string, groupNames []string) *rest.Future[[]ec2types.SecurityGroup] {
	return rest.Call[[]ec2types.SecurityGroup](ctx, c.proxy, "DescribeSecurityGroups", region, groupNames)
}

func (c *client) AuthorizeSecurityGroupIngress(ctx context.Context, region, groupName string, permissions []ec2types.IpPermission) *rest.Future[bool] {
	return rest.Call[bool](ctx, c.proxy, "AuthorizeSecurityGroupIngress", region, groupName, permissions)
}

func (c *client) CreatePlacementGroup(ctx context.Context, region, groupName string, strategy ec2types.PlacementStrategy) *rest.Future[bool] {
	return rest.Call[bool](ctx, c.proxy, "CreatePlacementGroup", region, groupName, strategy)
}

func (c *client) DescribePlacementGroups(ctx context.Context, region string, groupNames []string) *rest.Future[[]ec2types.PlacementGroup] {
	return rest.Call[[]ec2types.PlacementGroup](ctx, c.proxy, "DescribePlacementGroups", region, groupNames)
}

func (c *client) RunInstances(ctx context.Context, region, imageID string, minCount, maxCount int, options LaunchOptions) *rest.Future[[]ec2types.Instance] {
	return rest.Call[[]ec2types.Instance](ctx, c.proxy, "RunInstances", region, imageID, minCount, maxCount, options)
}

func (c *client) DescribeInstances(ctx context.Context, region string, instanceIDs []string) *rest.Future[[]ec2types.Instance] {
	return rest.Call[[]ec2types.Instance](ctx, c.proxy, "DescribeInstances", region, instanceIDs)
}

func (c *client) TerminateInstances(ctx context.Context, region string, instanceIDs []string) *rest.Future[[]ec2types.InstanceStateChange] {
	return rest.Call[[]ec2types.InstanceStateChange](ctx, c.proxy, "TerminateInstances", region, instanceIDs)
}

func (c *client) String() string {
	return c.proxy.String()
}

func withRegion(f *rest.Future[*KeyPair], region string) *rest.Future[*KeyPair] {
	return rest.Map(f, func(k *KeyPair) (*KeyPair, error) {
		if k != nil {
			k.Region = region
		}
		return k, nil
	})
}
