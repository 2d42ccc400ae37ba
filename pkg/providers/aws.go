package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/openshift/launchkit/pkg/cache"
	"github.com/openshift/launchkit/pkg/ec2api"
	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

//go:generate mockgen -source=aws.go -destination=mock_aws.go -package=providers

type AWSClientsBuilderInterface interface {
	GetEC2Client(ctx context.Context, config *awsProviderConfig, logger logr.Logger) (ec2api.Client, error)
}

type AWSClientsBuilder struct {
	// Registerer receives the dispatcher metrics. Nothing is recorded when nil.
	Registerer prometheus.Registerer
}

func (c *AWSClientsBuilder) GetEC2Client(ctx context.Context, providerConfig *awsProviderConfig, logger logr.Logger) (ec2api.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if providerConfig.AccessKey != "" || providerConfig.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(providerConfig.AccessKey, providerConfig.SecretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	transport := providerConfig.Transport
	api := ec2.NewFromConfig(cfg, func(o *ec2.Options) {
		o.RetryMaxAttempts = int(transport.MaxRetries) + 1
		o.HTTPClient = &http.Client{Timeout: transport.Timeout.Duration}
		if providerConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(providerConfig.Endpoint)
		}
	})
	executor := ec2api.NewExecutor(api, rest.ExecutorOptions{
		Workers:           transport.Workers,
		RequestsPerSecond: transport.RequestsPerSecond,
		Burst:             transport.Burst,
		Timeout:           transport.Timeout.Duration,
		BreakerFailures:   transport.BreakerFailures,
		BreakerTimeout:    transport.BreakerTimeout.Duration,
	}, logger)

	return ec2api.New(executor, logger, ec2api.WithMetrics(rest.NewMetrics(c.Registerer))), nil
}

const (
	MinInstanceCount = 1
	MaxInstanceCount = 1

	RunningState = ec2types.InstanceStateNameRunning
)

var _ AWSHandlerInterface = &awsHandler{}

type AWSHandlerInterface interface {
	PlanInstanceInRegion(ctx context.Context, params *RunInstanceParams) (*provisioning.LaunchParameters, error)
	RunInstanceInRegion(ctx context.Context, params *RunInstanceParams) (*string, error)
	ReleaseInstanceInRegion(ctx context.Context, params *InstanceIdentifier) error
	FindInstanceRegion(ctx context.Context, params *FindRegionParams) (*string, error)
	IsInstanceInRegionActive(ctx context.Context, params *InstanceIdentifier) (*bool, error)
	GetInstanceInRegionPublicIP(ctx context.Context, params *InstanceIdentifier) (*string, error)
}

type RunInstanceParams struct {
	Region   string
	AMI      string
	Group    string
	Template *provisioning.Template
}

type InstanceIdentifier struct {
	Region     string
	InstanceID string
}

type FindRegionParams struct {
	InstanceID      string
	PossibleRegions []string
}

type awsHandler struct {
	client   ec2api.Client
	strategy *provisioning.Strategy
	logger   logr.Logger
}

func NewAWSHandler(client ec2api.Client, strategy *provisioning.Strategy, logger logr.Logger) (*awsHandler, error) {
	if client == nil || strategy == nil {
		return nil, errors.New("EC2 client and provisioning strategy are required")
	}

	return &awsHandler{
		client:   client,
		strategy: strategy,
		logger:   logger,
	}, nil
}

func (h *awsHandler) PlanInstanceInRegion(ctx context.Context, params *RunInstanceParams) (*provisioning.LaunchParameters, error) {
	launch, err := h.strategy.Resolve(ctx, params.Region, params.Group, params.Template)
	if err != nil {
		return nil, fmt.Errorf("failed resolving launch parameters of group %s in region %s: %w", params.Group, params.Region, err)
	}
	return launch, nil
}

func (h *awsHandler) RunInstanceInRegion(ctx context.Context, params *RunInstanceParams) (*string, error) {
	launch, err := h.PlanInstanceInRegion(ctx, params)
	if err != nil {
		return nil, err
	}

	instances, err := h.client.RunInstances(ctx, params.Region, params.AMI, MinInstanceCount, MaxInstanceCount, launch.Freeze()).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf(
			"failed running instance %s with ami ID %s in region %s for group %s with parameters %s: %w",
			launch.InstanceType(),
			params.AMI,
			params.Region,
			params.Group,
			launch,
			err,
		)
	}

	if len(instances) == 0 || instances[0].InstanceId == nil {
		return nil, fmt.Errorf("no instance ID returned")
	}

	h.logger.Info("instance launched", "region", params.Region, "group", params.Group, "instanceID", *instances[0].InstanceId)
	return instances[0].InstanceId, nil
}

func (h *awsHandler) ReleaseInstanceInRegion(
	ctx context.Context,
	instanceIdentifier *InstanceIdentifier,
) error {
	_, err := h.client.TerminateInstances(ctx, instanceIdentifier.Region, []string{instanceIdentifier.InstanceID}).Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to terminate instance %s in region %s: %w",
			instanceIdentifier.InstanceID,
			instanceIdentifier.Region,
			err,
		)
	}

	return nil
}

func (h *awsHandler) FindInstanceRegion(ctx context.Context, params *FindRegionParams) (*string, error) {
	pending := lo.Map(params.PossibleRegions, func(region string, _ int) *rest.Future[[]ec2types.Instance] {
		return h.client.DescribeInstances(ctx, region, []string{params.InstanceID})
	})
	// the lookups of regions not yet read are no longer needed once one answers
	defer func() {
		for _, f := range pending {
			f.Cancel()
		}
	}()

	for i, region := range params.PossibleRegions {
		instances, err := pending[i].Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed describing instances in region %s: %w", region, err)
		}

		if len(instances) > 0 {
			return lo.ToPtr(region), nil
		}
	}

	return nil, rest.NewResourceNotFoundError(params.InstanceID)
}

func (h *awsHandler) describeInstance(ctx context.Context, instanceIdentifier *InstanceIdentifier) (*ec2types.Instance, error) {
	instances, err := h.client.DescribeInstances(ctx, instanceIdentifier.Region, []string{instanceIdentifier.InstanceID}).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed describing instance %s in region %s: %w", instanceIdentifier.InstanceID, instanceIdentifier.Region, err)
	}

	if len(instances) == 0 {
		return nil, fmt.Errorf("instance %s in region %s doesn't exist", instanceIdentifier.InstanceID, instanceIdentifier.Region)
	}

	return &instances[0], nil
}

func (h *awsHandler) IsInstanceInRegionActive(ctx context.Context, instanceIdentifier *InstanceIdentifier) (*bool, error) {
	instance, err := h.describeInstance(ctx, instanceIdentifier)
	if err != nil {
		return nil, err
	}

	if instance.State == nil {
		return nil, fmt.Errorf("instance %s in region %s doesn't have a state", instanceIdentifier.InstanceID, instanceIdentifier.Region)
	}

	return lo.ToPtr(instance.State.Name == RunningState), nil
}

func (h *awsHandler) GetInstanceInRegionPublicIP(ctx context.Context, instanceIdentifier *InstanceIdentifier) (*string, error) {
	instance, err := h.describeInstance(ctx, instanceIdentifier)
	if err != nil {
		return nil, err
	}

	if instance.PublicIpAddress == nil {
		return nil, fmt.Errorf("instance %s in region %s doesn't have public IP address", instanceIdentifier.InstanceID, instanceIdentifier.Region)
	}

	return instance.PublicIpAddress, nil
}

const (
	defaultInstanceType = "c5n.metal"
	defaultAMI          = "ami-0a73e96a849c232cc" // Rocky 9.5 x86_64 in us-east-1
	defaultRegion       = "us-east-1"
	defaultGroup        = "launchkit"
	defaultDeviceName   = "/dev/xvda"
	defaultDeviceSize   = 1024  // GiB
	defaultDeviceType   = "gp2" // General purpose SSD
)

type RegionSpec struct {
	Name             string   `json:"name"`
	AMIID            string   `json:"amiID"`
	InstanceType     string   `json:"instanceType"`
	KeyPairName      string   `json:"keyPairName,omitempty"`
	SecurityGroupIDs []string `json:"securityGroupIDs,omitempty"`
	SubnetID         string   `json:"subnetID,omitempty"`
}

type BlockDeviceSpec struct {
	DeviceName string `json:"deviceName"` // logical device name e.g. "/dev/xvda"
	DeviceSize int32  `json:"deviceSize"` // in GiB
	DeviceType string `json:"deviceType"` // e.g. gp2, gp3, etc.
}

// Duration accepts "30s" style strings in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

type TransportSpec struct {
	Workers           int64    `json:"workers"`
	RequestsPerSecond float64  `json:"requestsPerSecond"`
	Burst             int      `json:"burst"`
	Timeout           Duration `json:"timeout"`
	MaxRetries        uint64   `json:"maxRetries"`
	BreakerFailures   uint32   `json:"breakerFailures"`
	BreakerTimeout    Duration `json:"breakerTimeout"`
}

type awsProviderConfig struct {
	AccessKey       string          `json:"accessKey"`
	SecretAccessKey string          `json:"secretAccessKey"`
	UserData        string          `json:"userData,omitempty"`
	Endpoint        string          `json:"endpoint,omitempty"`
	Prefix          string          `json:"prefix,omitempty"`
	DefaultGroup    string          `json:"defaultGroup"`
	InboundPorts    []int           `json:"inboundPorts,omitempty"`
	Regions         []RegionSpec    `json:"regions"`
	Device          BlockDeviceSpec `json:"device"`
	Transport       TransportSpec   `json:"transport"`
}

type awsProvider struct {
	config  awsProviderConfig
	logger  logr.Logger
	handler AWSHandlerInterface
}

func defaultAWSProviderConfig() awsProviderConfig {
	defaults := rest.DefaultExecutorOptions()
	return awsProviderConfig{
		Prefix:       provisioning.DefaultPrefix,
		DefaultGroup: defaultGroup,
		Regions: []RegionSpec{
			{Name: defaultRegion, AMIID: defaultAMI, InstanceType: defaultInstanceType},
		},
		Device: BlockDeviceSpec{
			DeviceName: defaultDeviceName,
			DeviceSize: defaultDeviceSize,
			DeviceType: defaultDeviceType,
		},
		Transport: TransportSpec{
			Workers:         defaults.Workers,
			Timeout:         Duration{defaults.Timeout},
			MaxRetries:      defaults.MaxRetries,
			BreakerFailures: defaults.BreakerFailures,
			BreakerTimeout:  Duration{defaults.BreakerTimeout},
		},
	}
}

func parseAWSProviderConfig(providerInfo []byte) (awsProviderConfig, error) {
	config := defaultAWSProviderConfig()

	if len(providerInfo) > 0 {
		if err := json.Unmarshal(providerInfo, &config); err != nil {
			return config, fmt.Errorf("error in provider config json: %w", err)
		}
	}

	if config.UserData != "" {
		// Provided userdata should be base64 encoded
		decodedBytes, err := base64.StdEncoding.DecodeString(config.UserData)
		if err != nil {
			return config, fmt.Errorf("error decoding userdata: %w", err)
		}
		config.UserData = string(decodedBytes)
	}

	if len(config.Regions) == 0 {
		return config, errors.New("at least one region is required")
	}

	return config, nil
}

func AWSProviderFactory(ctx context.Context, providerInfo []byte, logger logr.Logger) (Provider, error) {
	return newAWSProvider(ctx, providerInfo, &AWSClientsBuilder{Registerer: prometheus.DefaultRegisterer}, logger)
}

func newAWSProvider(ctx context.Context, providerInfo []byte, builder AWSClientsBuilderInterface, logger logr.Logger) (*awsProvider, error) {
	config, err := parseAWSProviderConfig(providerInfo)
	if err != nil {
		return nil, err
	}

	client, err := builder.GetEC2Client(ctx, &config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create EC2 client: %w", err)
	}

	strategy := provisioning.NewEC2Strategy(client, logger,
		provisioning.WithPrefix(config.Prefix),
		provisioning.WithLookupCounter(lookupCounter()),
	)

	awsHandler, err := NewAWSHandler(client, strategy, logger)
	if err != nil {
		return nil, fmt.Errorf("failed creating AWS handler: %w", err)
	}

	return &awsProvider{
		config:  config,
		logger:  logger,
		handler: awsHandler,
	}, nil
}

var lookupCounter = sync.OnceValue(func() *prometheus.CounterVec {
	return cache.NewLookupCounter(prometheus.DefaultRegisterer)
})

// runParams fills the request with the provider defaults of its region.
func (p *awsProvider) runParams(req LaunchRequest) (*RunInstanceParams, error) {
	regionName := lo.Ternary(req.Region != "", req.Region, p.config.Regions[0].Name)
	regionSpec, ok := lo.Find(p.config.Regions, func(r RegionSpec) bool { return r.Name == regionName })
	if !ok {
		return nil, fmt.Errorf("region %s is not configured", regionName)
	}

	template := req.Template
	if template.Hardware.ID == "" {
		template.Hardware.ID = regionSpec.InstanceType
	}

	options := provisioning.NewTemplateOptions()
	options.InboundPorts = nil
	if template.Options != nil {
		copied := *template.Options
		options = &copied
	}
	if options.KeyPair == "" && options.PublicKey == "" {
		options.KeyPair = regionSpec.KeyPairName
	}
	if options.SubnetID == "" {
		options.SubnetID = regionSpec.SubnetID
	}
	options.GroupIDs = lo.Uniq(append(append([]string(nil), regionSpec.SecurityGroupIDs...), options.GroupIDs...))
	if len(options.InboundPorts) == 0 {
		options.InboundPorts = append([]int(nil), p.config.InboundPorts...)
	}
	if len(options.InboundPorts) == 0 {
		options.InboundPorts = provisioning.DefaultInboundPorts()
	}
	if len(options.UserData) == 0 && p.config.UserData != "" {
		options.UserData = []byte(p.config.UserData)
	}
	if len(options.BlockDeviceMappings) == 0 {
		options.BlockDeviceMappings = []ec2types.BlockDeviceMapping{
			{
				DeviceName: aws.String(p.config.Device.DeviceName),
				Ebs: &ec2types.EbsBlockDevice{
					VolumeSize:          aws.Int32(p.config.Device.DeviceSize),
					VolumeType:          ec2types.VolumeType(p.config.Device.DeviceType),
					DeleteOnTermination: aws.Bool(true),
				},
			},
		}
	}
	template.Options = options

	return &RunInstanceParams{
		Region:   regionName,
		AMI:      lo.Ternary(req.ImageID != "", req.ImageID, regionSpec.AMIID),
		Group:    lo.Ternary(req.Group != "", req.Group, p.config.DefaultGroup),
		Template: &template,
	}, nil
}

func (p *awsProvider) Plan(ctx context.Context, req LaunchRequest) (rest.Form, error) {
	params, err := p.runParams(req)
	if err != nil {
		return nil, err
	}

	launch, err := p.handler.PlanInstanceInRegion(ctx, params)
	if err != nil {
		return nil, err
	}
	return launch.FormParameters(), nil
}

func (p *awsProvider) Acquire(ctx context.Context, req LaunchRequest) (Resource, error) {
	params, err := p.runParams(req)
	if err != nil {
		return Resource{}, err
	}

	id, err := p.handler.RunInstanceInRegion(ctx, params)
	if err != nil {
		return Resource{}, fmt.Errorf("error creating instance: %w", err)
	}

	return Resource{Id: lo.FromPtr(id)}, nil
}

func (p *awsProvider) AcquireCompleted(ctx context.Context, id string) (bool, Resource, error) {
	res := Resource{Id: id}

	region, err := p.handler.FindInstanceRegion(
		ctx, &FindRegionParams{InstanceID: id, PossibleRegions: p.getSupportedRegions()},
	)
	if err != nil {
		return false, res, fmt.Errorf("error finding instance: %w", err)
	}

	isRunning, err := p.handler.IsInstanceInRegionActive(
		ctx, &InstanceIdentifier{Region: lo.FromPtr(region), InstanceID: id},
	)
	if err != nil {
		return false, res, fmt.Errorf("error checking if instance is active: %w", err)
	}

	if !lo.FromPtr(isRunning) {
		return false, res, nil
	}

	ip, err := p.handler.GetInstanceInRegionPublicIP(
		ctx, &InstanceIdentifier{Region: lo.FromPtr(region), InstanceID: id},
	)
	if err != nil {
		return false, res, fmt.Errorf("error checking if instance public IP: %w", err)
	}

	res.Address = lo.FromPtr(ip)

	return true, res, nil
}

func (p *awsProvider) Release(ctx context.Context, id string) error {
	region, err := p.handler.FindInstanceRegion(
		ctx, &FindRegionParams{InstanceID: id, PossibleRegions: p.getSupportedRegions()},
	)
	if err != nil {
		return fmt.Errorf("error finding instance for release: %w", err)
	}

	if err := p.handler.ReleaseInstanceInRegion(
		ctx, &InstanceIdentifier{Region: lo.FromPtr(region), InstanceID: id},
	); err != nil {
		return fmt.Errorf("error releasing instance: %w", err)
	}

	return nil
}

func (p *awsProvider) getSupportedRegions() []string {
	return lo.Map(p.config.Regions, func(regionSpec RegionSpec, _ int) string {
		return regionSpec.Name
	})
}
