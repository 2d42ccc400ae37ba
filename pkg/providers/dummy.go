package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

const (
	maxAvailableResources = 10
)

type dummyInstance struct {
	Resource
	available bool
}

type dummyProviderConfig struct {
	Resources     int    `json:"resources"`
	AddressPrefix string `json:"addressPrefix"`
}

// dummyProvider hands out a fixed set of fake instances without talking to any cloud.
type dummyProvider struct {
	mu        sync.Mutex
	order     []string
	instances map[string]dummyInstance
}

func DummyProviderFactory(providerInfo []byte) (Provider, error) {
	config := dummyProviderConfig{
		Resources:     maxAvailableResources,
		AddressPrefix: "1.1.1.",
	}
	if len(providerInfo) > 0 {
		if err := json.Unmarshal(providerInfo, &config); err != nil {
			return nil, fmt.Errorf("error in provider config json: %w", err)
		}
	}

	dummy := &dummyProvider{
		instances: make(map[string]dummyInstance),
	}
	for n := 0; n < config.Resources; n++ {
		instance := dummyInstance{
			Resource: Resource{
				Id:       fmt.Sprintf("dummy-%d", n),
				Address:  fmt.Sprintf("%s%d", config.AddressPrefix, n),
				Metadata: "{}",
			},
			available: true,
		}
		dummy.order = append(dummy.order, instance.Id)
		dummy.instances[instance.Id] = instance
	}

	return dummy, nil
}

func (p *dummyProvider) Plan(ctx context.Context, req LaunchRequest) (rest.Form, error) {
	if req.Template.Hardware.ID == "" {
		return nil, &provisioning.PreconditionError{Region: req.Region, Group: req.Group, Reason: "the template has no hardware"}
	}

	launch := provisioning.NewLaunchParameters().AsType(req.Template.Hardware.ID)
	if options := req.Template.Options; options != nil {
		launch.WithSecurityGroupIDs(options.GroupIDs...)
		if options.SubnetID != "" {
			launch.WithSubnetID(options.SubnetID)
		}
		launch.WithSecurityGroups(options.Groups...)
		if options.KeyPair != "" {
			launch.WithKeyName(options.KeyPair)
		}
		if len(options.UserData) > 0 {
			launch.WithUserData(options.UserData)
		}
	}
	return launch.Freeze().FormParameters(), nil
}

func (p *dummyProvider) Acquire(ctx context.Context, req LaunchRequest) (Resource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.order {
		i := p.instances[id]
		if i.available {
			i.available = false
			p.instances[id] = i
			return i.Resource, nil
		}
	}

	return Resource{}, fmt.Errorf("no available resources found")
}

func (p *dummyProvider) AcquireCompleted(ctx context.Context, id string) (bool, Resource, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	resource, ok := p.instances[id]
	if !ok {
		return false, Resource{}, rest.NewResourceNotFoundError(id)
	}

	return !resource.available, resource.Resource, nil
}

func (p *dummyProvider) Release(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	resource, ok := p.instances[id]
	if !ok {
		return rest.NewResourceNotFoundError(id)
	}

	resource.available = true
	p.instances[id] = resource

	return nil
}
