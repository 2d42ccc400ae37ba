package providers

import (
	"context"

	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

// Resource represents a specific instance created by the provider for a given request
type Resource struct {
	// A unique identifier used to reference the resource
	Id string
	// The public IPv4 address of the resource
	Address string
	// Extra information specific to the provider
	Metadata string
}

// LaunchRequest asks for one instance of Template for Group. Empty fields are filled from
// the provider configuration.
type LaunchRequest struct {
	Region   string
	Group    string
	ImageID  string
	Template provisioning.Template
}

type Provider interface {
	// Resolve the launch parameters of a request, creating the key pair, security
	// group and placement group it needs, without launching anything
	Plan(ctx context.Context, req LaunchRequest) (rest.Form, error)

	// Request a new resource. Resource allocation may take some time,
	// so it is expected that the provider will reply immediately
	// with a Resource containing at least the Id
	Acquire(ctx context.Context, req LaunchRequest) (Resource, error)

	// Check whether the specified resource is ready. It is used to poll a
	// resource for its public address after an Acquire
	AcquireCompleted(ctx context.Context, id string) (bool, Resource, error)

	// Release the specified resource
	Release(ctx context.Context, id string) error
}
