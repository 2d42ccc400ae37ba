package provisioning

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/samber/lo"

	"github.com/openshift/launchkit/pkg/ec2api"
	"github.com/openshift/launchkit/pkg/rest"
)

// LaunchParameters accumulates the optional RunInstances parameters. It is built by a
// single caller and frozen when handed to the transport; mutating a frozen value panics.
type LaunchParameters struct {
	instanceType        string
	securityGroupIDs    []string
	subnetID            string
	securityGroups      []string
	keyName             string
	userData            []byte
	blockDeviceMappings []ec2types.BlockDeviceMapping
	placementGroup      string
	monitoring          bool

	frozen atomic.Bool
}

var _ ec2api.LaunchOptions = &LaunchParameters{}

func NewLaunchParameters() *LaunchParameters {
	return &LaunchParameters{}
}

func (p *LaunchParameters) mutable() {
	if p.frozen.Load() {
		panic("launch parameters are frozen")
	}
}

// Freeze marks p as handed off. It returns p for chaining.
func (p *LaunchParameters) Freeze() *LaunchParameters {
	p.frozen.Store(true)
	return p
}

func (p *LaunchParameters) IsFrozen() bool {
	return p.frozen.Load()
}

func (p *LaunchParameters) AsType(instanceType string) *LaunchParameters {
	p.mutable()
	p.instanceType = instanceType
	return p
}

func (p *LaunchParameters) WithSecurityGroupIDs(ids ...string) *LaunchParameters {
	p.mutable()
	p.securityGroupIDs = lo.Uniq(append(p.securityGroupIDs, ids...))
	return p
}

func (p *LaunchParameters) WithSubnetID(subnetID string) *LaunchParameters {
	p.mutable()
	p.subnetID = subnetID
	return p
}

func (p *LaunchParameters) WithSecurityGroups(names ...string) *LaunchParameters {
	p.mutable()
	p.securityGroups = lo.Uniq(append(p.securityGroups, names...))
	return p
}

func (p *LaunchParameters) WithKeyName(keyName string) *LaunchParameters {
	p.mutable()
	p.keyName = keyName
	return p
}

func (p *LaunchParameters) WithUserData(userData []byte) *LaunchParameters {
	p.mutable()
	p.userData = append([]byte(nil), userData...)
	return p
}

func (p *LaunchParameters) WithBlockDeviceMappings(mappings ...ec2types.BlockDeviceMapping) *LaunchParameters {
	p.mutable()
	p.blockDeviceMappings = append(p.blockDeviceMappings, mappings...)
	return p
}

func (p *LaunchParameters) InPlacementGroup(name string) *LaunchParameters {
	p.mutable()
	p.placementGroup = name
	return p
}

func (p *LaunchParameters) EnableMonitoring() *LaunchParameters {
	p.mutable()
	p.monitoring = true
	return p
}

func (p *LaunchParameters) InstanceType() string { return p.instanceType }
func (p *LaunchParameters) SecurityGroupIDs() []string { return append([]string(nil), p.securityGroupIDs...) }
func (p *LaunchParameters) SubnetID() string { return p.subnetID }
func (p *LaunchParameters) SecurityGroups() []string { return append([]string(nil), p.securityGroups...) }
func (p *LaunchParameters) KeyName() string { return p.keyName }
func (p *LaunchParameters) UserData() []byte { return append([]byte(nil), p.userData...) }
func (p *LaunchParameters) PlacementGroup() string { return p.placementGroup }
func (p *LaunchParameters) MonitoringEnabled() bool { return p.monitoring }

func (p *LaunchParameters) BlockDeviceMappings() []ec2types.BlockDeviceMapping {
	return append([]ec2types.BlockDeviceMapping(nil), p.blockDeviceMappings...)
}

// ApplyTo copies p onto a RunInstances input. Unset parameters are left untouched.
func (p *LaunchParameters) ApplyTo(input *ec2.RunInstancesInput) {
	if p.instanceType != "" {
		input.InstanceType = ec2types.InstanceType(p.instanceType)
	}
	if len(p.securityGroupIDs) > 0 {
		input.SecurityGroupIds = p.SecurityGroupIDs()
	}
	if p.subnetID != "" {
		input.SubnetId = aws.String(p.subnetID)
	}
	if len(p.securityGroups) > 0 {
		input.SecurityGroups = p.SecurityGroups()
	}
	if p.keyName != "" {
		input.KeyName = aws.String(p.keyName)
	}
	if len(p.userData) > 0 {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString(p.userData))
	}
	if len(p.blockDeviceMappings) > 0 {
		input.BlockDeviceMappings = p.BlockDeviceMappings()
	}
	if p.placementGroup != "" {
		input.Placement = &ec2types.Placement{GroupName: aws.String(p.placementGroup)}
	}
	if p.monitoring {
		input.Monitoring = &ec2types.RunInstancesMonitoringEnabled{Enabled: aws.Bool(true)}
	}
}

// FormParameters renders p as RunInstances form parameters. The order is fixed so that
// equal parameters always serialize identically.
func (p *LaunchParameters) FormParameters() rest.Form {
	form := rest.Form{}
	if p.instanceType != "" {
		form.Add("InstanceType", p.instanceType)
	}
	form.AddIndexed("SecurityGroupId", p.securityGroupIDs...)
	if p.subnetID != "" {
		form.Add("SubnetId", p.subnetID)
	}
	form.AddIndexed("SecurityGroup", p.securityGroups...)
	if p.keyName != "" {
		form.Add("KeyName", p.keyName)
	}
	if len(p.userData) > 0 {
		form.Add("UserData", base64.StdEncoding.EncodeToString(p.userData))
	}
	for i, m := range p.blockDeviceMappings {
		addBlockDeviceMapping(&form, fmt.Sprintf("BlockDeviceMapping.%d.", i+1), m)
	}
	if p.placementGroup != "" {
		form.Add("Placement.GroupName", p.placementGroup)
	}
	if p.monitoring {
		form.Add("Monitoring.Enabled", "true")
	}
	return form
}

func addBlockDeviceMapping(form *rest.Form, prefix string, m ec2types.BlockDeviceMapping) {
	if m.DeviceName != nil {
		form.Add(prefix+"DeviceName", *m.DeviceName)
	}
	if m.VirtualName != nil {
		form.Add(prefix+"VirtualName", *m.VirtualName)
	}
	if m.NoDevice != nil {
		form.Add(prefix+"NoDevice", *m.NoDevice)
	}
	if m.Ebs == nil {
		return
	}
	if m.Ebs.SnapshotId != nil {
		form.Add(prefix+"Ebs.SnapshotId", *m.Ebs.SnapshotId)
	}
	if m.Ebs.VolumeSize != nil {
		form.Add(prefix+"Ebs.VolumeSize", strconv.Itoa(int(*m.Ebs.VolumeSize)))
	}
	if m.Ebs.VolumeType != "" {
		form.Add(prefix+"Ebs.VolumeType", string(m.Ebs.VolumeType))
	}
	if m.Ebs.Iops != nil {
		form.Add(prefix+"Ebs.Iops", strconv.Itoa(int(*m.Ebs.Iops)))
	}
	if m.Ebs.DeleteOnTermination != nil {
		form.Add(prefix+"Ebs.DeleteOnTermination", strconv.FormatBool(*m.Ebs.DeleteOnTermination))
	}
	if m.Ebs.Encrypted != nil {
		form.Add(prefix+"Ebs.Encrypted", strconv.FormatBool(*m.Ebs.Encrypted))
	}
}

func (p *LaunchParameters) String() string {
	return fmt.Sprintf("%v", p.FormParameters())
}
