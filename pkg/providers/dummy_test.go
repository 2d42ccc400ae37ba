package providers

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

func TestDummyProvider_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	p, err := DummyProviderFactory([]byte(`{"resources": 2, "addressPrefix": "10.0.0."}`))
	require.NoError(t, err)

	first, err := p.Acquire(ctx, LaunchRequest{})
	require.NoError(t, err)
	assert.Equal(t, Resource{Id: "dummy-0", Address: "10.0.0.0", Metadata: "{}"}, first)

	second, err := p.Acquire(ctx, LaunchRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dummy-1", second.Id)

	_, err = p.Acquire(ctx, LaunchRequest{})
	assert.ErrorContains(t, err, "no available resources found")

	done, res, err := p.AcquireCompleted(ctx, "dummy-1")
	assert.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "10.0.0.1", res.Address)

	require.NoError(t, p.Release(ctx, "dummy-0"))
	done, _, err = p.AcquireCompleted(ctx, "dummy-0")
	assert.NoError(t, err)
	assert.False(t, done)

	again, err := p.Acquire(ctx, LaunchRequest{})
	require.NoError(t, err)
	assert.Equal(t, "dummy-0", again.Id)
}

func TestDummyProvider_UnknownResource(t *testing.T) {
	ctx := context.Background()
	p, err := DummyProviderFactory(nil)
	require.NoError(t, err)

	_, _, err = p.AcquireCompleted(ctx, "missing")
	assert.True(t, rest.IsNotFound(err))
	assert.True(t, rest.IsNotFound(p.Release(ctx, "missing")))
}

func TestDummyProvider_Plan(t *testing.T) {
	ctx := context.Background()
	p, err := DummyProviderFactory(nil)
	require.NoError(t, err)

	_, err = p.Plan(ctx, LaunchRequest{})
	assert.ErrorIs(t, err, provisioning.ErrPrecondition)

	options := provisioning.NewTemplateOptions()
	options.KeyPair = "kp"
	options.SubnetID = "subnet-1"
	form, err := p.Plan(ctx, LaunchRequest{Template: provisioning.Template{Hardware: provisioning.Hardware{ID: "m1.small"}, Options: options}})
	require.NoError(t, err)
	assert.Equal(t, []string{"InstanceType", "SubnetId", "KeyName"}, form.Keys())
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), string(ProviderDummy), nil, logr.Discard())
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewProvider(context.Background(), "libvirt", nil, logr.Discard())
	assert.ErrorContains(t, err, "unknown provider type: libvirt")
}
