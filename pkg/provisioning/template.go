package provisioning

import (
	"strings"

	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Hardware describes the instance type to launch.
type Hardware struct {
	// ID is the provider instance type, e.g. "m5.large" or "cc2.8xlarge"
	ID string `json:"id"`
}

// IsClusterCompute reports whether the hardware can be placed in a cluster placement group.
func (h Hardware) IsClusterCompute() bool {
	return strings.HasPrefix(h.ID, "cc")
}

type Template struct {
	Hardware Hardware         `json:"hardware"`
	Options  *TemplateOptions `json:"options,omitempty"`
}

// Credentials carry a private key the provider does not hold, e.g. the private half of an
// imported public key.
type Credentials struct {
	User       string `json:"user,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
}

type TemplateOptions struct {
	// KeyPair is the name of an existing key pair to launch with
	KeyPair string `json:"keyPair,omitempty"`
	// PublicKey is imported as the key pair of the group
	PublicKey             string       `json:"publicKey,omitempty"`
	OverridingCredentials *Credentials `json:"overridingCredentials,omitempty"`
	// RunScript requires a private key for the chosen key pair to be available
	RunScript         string `json:"runScript,omitempty"`
	AutoCreateKeyPair bool   `json:"autoCreateKeyPair"`

	PlacementGroup           string `json:"placementGroup,omitempty"`
	AutoCreatePlacementGroup bool   `json:"autoCreatePlacementGroup"`

	GroupIDs      []string `json:"groupIDs,omitempty"`
	Groups        []string `json:"groups,omitempty"`
	InboundPorts  []int    `json:"inboundPorts,omitempty"`
	AuthorizeSelf bool     `json:"authorizeSelf"`

	SubnetID            string                        `json:"subnetID,omitempty"`
	UserData            []byte                        `json:"userData,omitempty"`
	MonitoringEnabled   bool                          `json:"monitoringEnabled,omitempty"`
	BlockDeviceMappings []ec2types.BlockDeviceMapping `json:"-"`
}

var defaultInboundPorts = []int{22}

// DefaultInboundPorts returns the ports opened when neither the template nor the provider
// names any.
func DefaultInboundPorts() []int {
	return append([]int(nil), defaultInboundPorts...)
}

func NewTemplateOptions() *TemplateOptions {
	return &TemplateOptions{
		AutoCreateKeyPair:        true,
		AutoCreatePlacementGroup: true,
		InboundPorts:             DefaultInboundPorts(),
		AuthorizeSelf:            true,
	}
}

func (o *TemplateOptions) privateKey() string {
	if o.OverridingCredentials == nil {
		return ""
	}
	return o.OverridingCredentials.PrivateKey
}
