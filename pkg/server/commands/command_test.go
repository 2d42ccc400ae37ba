package commands

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

func TestToTemplateKeepsDefaults(t *testing.T) {
	template := toTemplate(launchkitv1.LaunchTemplate{HardwareID: "m1.small"})

	assert.Equal(t, "m1.small", template.Hardware.ID)
	defaults := provisioning.NewTemplateOptions()
	defaults.InboundPorts = nil
	assert.Equal(t, defaults, template.Options)
}

func TestToTemplateLeavesPortsToTheProvider(t *testing.T) {
	template := toTemplate(launchkitv1.LaunchTemplate{HardwareID: "m1.small"})

	assert.Empty(t, template.Options.InboundPorts)
}

func TestToTemplateOverrides(t *testing.T) {
	template := toTemplate(launchkitv1.LaunchTemplate{
		HardwareID:               "cc2.8xlarge",
		PublicKey:                "ssh-ed25519 AAAA",
		OverridingCredentials:    &launchkitv1.Credentials{User: "root", PrivateKey: "-----BEGIN"},
		AutoCreateKeyPair:        lo.ToPtr(false),
		AutoCreatePlacementGroup: lo.ToPtr(false),
		AuthorizeSelf:            lo.ToPtr(false),
		InboundPorts:             []int{443, 22},
		SecurityGroupIDs:         []string{"sg-1"},
		SecurityGroups:           []string{"web"},
		UserData:                 []byte("#!/bin/sh"),
		Monitoring:               true,
		BlockDevices:             []launchkitv1.BlockDevice{{DeviceName: "/dev/sdb", SizeGiB: 100, VolumeType: "gp3"}},
	})

	options := template.Options
	assert.Equal(t, "ssh-ed25519 AAAA", options.PublicKey)
	assert.Equal(t, &provisioning.Credentials{User: "root", PrivateKey: "-----BEGIN"}, options.OverridingCredentials)
	assert.False(t, options.AutoCreateKeyPair)
	assert.False(t, options.AutoCreatePlacementGroup)
	assert.False(t, options.AuthorizeSelf)
	assert.Equal(t, []int{443, 22}, options.InboundPorts)
	assert.Equal(t, []string{"sg-1"}, options.GroupIDs)
	assert.Equal(t, []string{"web"}, options.Groups)
	assert.True(t, options.MonitoringEnabled)
	require.Len(t, options.BlockDeviceMappings, 1)
	ebs := options.BlockDeviceMappings[0].Ebs
	assert.Equal(t, int32(100), aws.ToInt32(ebs.VolumeSize))
	assert.True(t, aws.ToBool(ebs.DeleteOnTermination))
}

func TestToFormParameters(t *testing.T) {
	form := rest.Form{}
	form.Add("InstanceType", "m1.small")
	form.AddIndexed("SecurityGroup", "a", "b")

	assert.Equal(t, []launchkitv1.FormParameter{
		{Key: "InstanceType", Value: "m1.small"},
		{Key: "SecurityGroup.1", Value: "a"},
		{Key: "SecurityGroup.2", Value: "b"},
	}, toFormParameters(form))
}

func TestOwners(t *testing.T) {
	owners := NewOwners()
	owners.Record("i-1", "web")

	group, ok := owners.Owner("i-1")
	assert.True(t, ok)
	assert.Equal(t, "web", group)

	owners.Forget("i-1")
	_, ok = owners.Owner("i-1")
	assert.False(t, ok)
}
