package commands

import (
	"errors"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/ec2api"
	"github.com/openshift/launchkit/pkg/provisioning"
	"github.com/openshift/launchkit/pkg/rest"
)

type command interface {
	Run() error
}

// Owners remembers the group each instance was launched for.
type Owners struct {
	mu     sync.Mutex
	groups map[string]string
}

func NewOwners() *Owners {
	return &Owners{groups: make(map[string]string)}
}

func (o *Owners) Record(id, group string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.groups[id] = group
}

func (o *Owners) Owner(id string) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	group, ok := o.groups[id]
	return group, ok
}

func (o *Owners) Forget(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.groups, id)
}

// abortWithError writes the status matching err. It returns false when err is not one
// the caller can act on, leaving the response untouched.
func abortWithError(c *gin.Context, err error) bool {
	var apiErr smithy.APIError
	switch {
	case errors.Is(err, provisioning.ErrPrecondition):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	case rest.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case ec2api.IsClientError(err) && errors.As(err, &apiErr):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error(), "code": apiErr.ErrorCode()})
	default:
		return false
	}
	return true
}

func toFormParameters(form rest.Form) []launchkitv1.FormParameter {
	return lo.Map(form, func(p rest.Param, _ int) launchkitv1.FormParameter {
		return launchkitv1.FormParameter{Key: p.Key, Value: p.Value}
	})
}

func toTemplate(in launchkitv1.LaunchTemplate) provisioning.Template {
	options := provisioning.NewTemplateOptions()
	options.KeyPair = in.KeyPair
	options.PublicKey = in.PublicKey
	if in.OverridingCredentials != nil {
		options.OverridingCredentials = &provisioning.Credentials{
			User:       in.OverridingCredentials.User,
			PrivateKey: in.OverridingCredentials.PrivateKey,
		}
	}
	options.RunScript = in.RunScript
	options.AutoCreateKeyPair = lo.FromPtrOr(in.AutoCreateKeyPair, options.AutoCreateKeyPair)
	options.PlacementGroup = in.PlacementGroup
	options.AutoCreatePlacementGroup = lo.FromPtrOr(in.AutoCreatePlacementGroup, options.AutoCreatePlacementGroup)
	options.GroupIDs = in.SecurityGroupIDs
	options.Groups = in.SecurityGroups
	// empty lets the provider apply its configured ports
	options.InboundPorts = in.InboundPorts
	options.AuthorizeSelf = lo.FromPtrOr(in.AuthorizeSelf, options.AuthorizeSelf)
	options.SubnetID = in.SubnetID
	options.UserData = in.UserData
	options.MonitoringEnabled = in.Monitoring
	if len(in.BlockDevices) > 0 {
		options.BlockDeviceMappings = lo.Map(in.BlockDevices, func(d launchkitv1.BlockDevice, _ int) ec2types.BlockDeviceMapping {
			return ec2types.BlockDeviceMapping{
				DeviceName: aws.String(d.DeviceName),
				Ebs: &ec2types.EbsBlockDevice{
					VolumeSize:          aws.Int32(d.SizeGiB),
					VolumeType:          ec2types.VolumeType(d.VolumeType),
					DeleteOnTermination: aws.Bool(lo.FromPtrOr(d.DeleteOnTermination, true)),
				},
			}
		})
	}

	return provisioning.Template{
		Hardware: provisioning.Hardware{ID: in.HardwareID},
		Options:  options,
	}
}
