package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/openshift/launchkit/pkg/cache"
	"github.com/openshift/launchkit/pkg/ec2api"
)

type (
	KeyPairCache        = cache.Cache[RegionAndName, ec2api.KeyPair]
	SecurityGroupCache  = cache.Cache[RegionNameAndIngressRules, string]
	PlacementGroupCache = cache.Cache[RegionAndName, string]
)

// KeyPairImporter imports a public key as the key pair of a group.
type KeyPairImporter func(ctx context.Context, key RegionNameAndPublicKeyMaterial) (ec2api.KeyPair, error)

// Deps are the collaborators of a Strategy. The caches are shared by every Resolve call
// and live as long as the Strategy.
type Deps struct {
	KeyPairs        *KeyPairCache
	SecurityGroups  *SecurityGroupCache
	PlacementGroups *PlacementGroupCache
	ImportKeyPair   KeyPairImporter
	// Prefix of marker and generated names, DefaultPrefix when empty
	Prefix string
	Logger logr.Logger
}

// Strategy resolves the key pair, security groups and placement group of a launch,
// creating each one at most once per cache key.
type Strategy struct {
	keyPairs        *KeyPairCache
	securityGroups  *SecurityGroupCache
	placementGroups *PlacementGroupCache
	importKeyPair   KeyPairImporter
	prefix          string
	logger          logr.Logger
}

func NewStrategy(deps Deps) (*Strategy, error) {
	if deps.KeyPairs == nil || deps.SecurityGroups == nil || deps.PlacementGroups == nil {
		return nil, errors.New("key pair, security group and placement group caches are required")
	}
	if deps.ImportKeyPair == nil {
		return nil, errors.New("a key pair importer is required")
	}

	prefix := deps.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Strategy{
		keyPairs:        deps.KeyPairs,
		securityGroups:  deps.SecurityGroups,
		placementGroups: deps.PlacementGroups,
		importKeyPair:   deps.ImportKeyPair,
		prefix:          prefix,
		logger:          deps.Logger.WithName("provisioning"),
	}, nil
}

type ec2StrategyOptions struct {
	prefix  string
	lookups *prometheus.CounterVec
}

type EC2StrategyOption func(*ec2StrategyOptions)

func WithPrefix(prefix string) EC2StrategyOption {
	return func(o *ec2StrategyOptions) {
		o.prefix = prefix
	}
}

// WithLookupCounter records cache lookups in c, see cache.NewLookupCounter.
func WithLookupCounter(c *prometheus.CounterVec) EC2StrategyOption {
	return func(o *ec2StrategyOptions) {
		o.lookups = c
	}
}

// NewEC2Strategy wires a Strategy whose caches create resources through client.
func NewEC2Strategy(client ec2api.Client, logger logr.Logger, opts ...EC2StrategyOption) *Strategy {
	o := ec2StrategyOptions{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	creators := NewCreators(client, o.prefix, logger)

	var (
		keyPairOpts        []cache.Option[RegionAndName, ec2api.KeyPair]
		securityGroupOpts  []cache.Option[RegionNameAndIngressRules, string]
		placementGroupOpts []cache.Option[RegionAndName, string]
	)
	if o.lookups != nil {
		keyPairOpts = append(keyPairOpts, cache.WithLookupCounter[RegionAndName, ec2api.KeyPair](o.lookups))
		securityGroupOpts = append(securityGroupOpts, cache.WithLookupCounter[RegionNameAndIngressRules, string](o.lookups))
		placementGroupOpts = append(placementGroupOpts, cache.WithLookupCounter[RegionAndName, string](o.lookups))
	}

	s, _ := NewStrategy(Deps{
		KeyPairs:        cache.New("keypairs", creators.CreateUniqueKeyPair, logger, keyPairOpts...),
		SecurityGroups:  cache.New("securitygroups", creators.CreateSecurityGroup, logger, securityGroupOpts...),
		PlacementGroups: cache.New("placementgroups", creators.CreatePlacementGroup, logger, placementGroupOpts...),
		ImportKeyPair:   creators.ImportKeyPair,
		Prefix:          o.prefix,
		Logger:          logger,
	})
	return s
}

// Resolve returns the launch parameters of template for group in region, creating the key
// pair, security group and placement group the template asks for. The result is owned by
// the caller until it is frozen and handed to the transport.
func (s *Strategy) Resolve(ctx context.Context, region, group string, template *Template) (*LaunchParameters, error) {
	if template == nil {
		return nil, &PreconditionError{Region: region, Group: group, Reason: "a template is required"}
	}
	if template.Hardware.ID == "" {
		return nil, &PreconditionError{Region: region, Group: group, Reason: "the template has no hardware"}
	}
	options := template.Options
	if options == nil {
		options = NewTemplateOptions()
	}

	params := NewLaunchParameters().AsType(template.Hardware.ID)

	keyName, err := s.ResolveKeyPair(ctx, region, group, options)
	if err != nil {
		return nil, err
	}

	if template.Hardware.IsClusterCompute() {
		placementGroup, err := s.ResolvePlacementGroup(ctx, region, group, options)
		if err != nil {
			return nil, err
		}
		if placementGroup != "" {
			params.InPlacementGroup(placementGroup)
		}
	}

	groups, err := s.ResolveSecurityGroups(ctx, region, group, options)
	if err != nil {
		return nil, err
	}
	params.WithSecurityGroupIDs(groups.IDs...)
	if options.SubnetID != "" {
		params.WithSubnetID(options.SubnetID)
	}
	params.WithSecurityGroups(groups.Names...)

	if keyName != "" {
		params.WithKeyName(keyName)
	}
	if len(options.UserData) > 0 {
		params.WithUserData(options.UserData)
	}
	if len(options.BlockDeviceMappings) > 0 {
		params.WithBlockDeviceMappings(options.BlockDeviceMappings...)
	}
	if options.MonitoringEnabled {
		params.EnableMonitoring()
	}

	s.logger.V(1).Info("resolved launch parameters", "region", region, "group", group, "parameters", params.String())
	return params, nil
}

// ResolveKeyPair returns the name of the key pair to launch with, or "" to launch without
// one.
func (s *Strategy) ResolveKeyPair(ctx context.Context, region, group string, options *TemplateOptions) (string, error) {
	switch {
	case options.PublicKey != "":
		return s.importPublicKey(ctx, region, group, options)
	case options.KeyPair != "":
		return s.useExplicitKeyPair(ctx, region, group, options)
	case !options.AutoCreateKeyPair:
		if options.RunScript != "" {
			return "", &PreconditionError{Region: region, Group: group, Reason: "a run script requires a key pair, but key pair creation is disabled"}
		}
		return "", nil
	}

	kp, err := s.keyPairs.Get(ctx, RegionAndName{Region: region, Name: group})
	if err != nil {
		return "", fmt.Errorf("failed resolving key pair of group %s in region %s: %w", group, region, err)
	}
	return kp.KeyName, nil
}

func (s *Strategy) importPublicKey(ctx context.Context, region, group string, options *TemplateOptions) (string, error) {
	privateKey := options.privateKey()
	publicKey := options.PublicKey

	kp, err := s.keyPairs.GetOrCreateWith(ctx, RegionAndName{Region: region, Name: group},
		func(ctx context.Context, key RegionAndName) (ec2api.KeyPair, error) {
			kp, err := s.importKeyPair(ctx, RegionNameAndPublicKeyMaterial{RegionAndName: key, PublicKeyMaterial: publicKey})
			if err != nil {
				return ec2api.KeyPair{}, err
			}
			if privateKey != "" {
				kp.KeyMaterial = privateKey
			}
			return kp, nil
		})
	if err != nil {
		return "", fmt.Errorf("failed importing key pair of group %s in region %s: %w", group, region, err)
	}
	return kp.KeyName, nil
}

func (s *Strategy) useExplicitKeyPair(ctx context.Context, region, group string, options *TemplateOptions) (string, error) {
	key := RegionAndName{Region: region, Name: options.KeyPair}

	if privateKey := options.privateKey(); privateKey != "" {
		_, err := s.keyPairs.GetOrCreateWith(ctx, key, func(context.Context, RegionAndName) (ec2api.KeyPair, error) {
			fingerprint, err := Fingerprint(privateKey)
			if err != nil {
				// the material is still usable by a run script, only the fingerprint is unknown
				s.logger.V(1).Info("cannot fingerprint overriding credentials", "region", region, "keyName", options.KeyPair, "error", err.Error())
			}
			return ec2api.KeyPair{
				Region:         region,
				KeyName:        options.KeyPair,
				KeyFingerprint: fingerprint,
				KeyMaterial:    privateKey,
			}, nil
		})
		if err != nil {
			return "", fmt.Errorf("failed registering credentials of key pair %s in region %s: %w", options.KeyPair, region, err)
		}
	}

	if options.RunScript != "" {
		kp, ok := s.keyPairs.Peek(key)
		if !ok || kp.KeyMaterial == "" {
			return "", &PreconditionError{Region: region, Group: group, Reason: fmt.Sprintf("key pair %s: credentials required for this key are not available", options.KeyPair)}
		}
	}

	return options.KeyPair, nil
}

// ResolvedGroups are the security groups of a launch: ids are passed through verbatim,
// names are the marker group followed by the requested names.
type ResolvedGroups struct {
	IDs   []string
	Names []string
}

// ResolveSecurityGroups resolves the security groups of a launch. Launches into a subnet
// only use the explicit group ids.
func (s *Strategy) ResolveSecurityGroups(ctx context.Context, region, group string, options *TemplateOptions) (ResolvedGroups, error) {
	resolved := ResolvedGroups{IDs: lo.Uniq(options.GroupIDs)}
	if options.SubnetID != "" {
		return resolved, nil
	}

	ports := options.InboundPorts
	if len(ports) == 0 {
		ports = DefaultInboundPorts()
	}
	marker := MarkerName(s.prefix, group, region)
	name, err := s.securityGroups.Get(ctx, NewRegionNameAndIngressRules(region, marker, ports, options.AuthorizeSelf))
	if err != nil {
		return ResolvedGroups{}, fmt.Errorf("failed resolving security group %s in region %s: %w", marker, region, err)
	}

	resolved.Names = lo.Uniq(append([]string{name}, options.Groups...))
	return resolved, nil
}

// ResolvePlacementGroup returns the placement group to launch into, or "" for none.
func (s *Strategy) ResolvePlacementGroup(ctx context.Context, region, group string, options *TemplateOptions) (string, error) {
	if options.PlacementGroup != "" {
		return options.PlacementGroup, nil
	}
	if !options.AutoCreatePlacementGroup {
		return "", nil
	}

	marker := MarkerName(s.prefix, group, region)
	name, err := s.placementGroups.Get(ctx, RegionAndName{Region: region, Name: marker})
	if err != nil {
		return "", fmt.Errorf("failed resolving placement group %s in region %s: %w", marker, region, err)
	}
	return name, nil
}
