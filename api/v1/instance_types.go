/*
Copyright 2022.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1

// InstanceState defines the states reported for a launched instance
type InstanceState string

func (s InstanceState) String() string {
	return string(s)
}

const (
	// StateProvisioning is reported while the instance is being started
	StateProvisioning InstanceState = "provisioning"

	// StateAvailable is reported once the instance is running and reachable
	StateAvailable InstanceState = "available"

	// StateReleased is reported after the instance has been handed back
	StateReleased InstanceState = "released"
)

// BlockDevice describes an EBS volume attached at launch
type BlockDevice struct {
	// Logical device name, e.g. /dev/xvda
	DeviceName string `json:"deviceName"`

	// Size in GiB
	SizeGiB int32 `json:"sizeGiB"`

	// EBS volume type, e.g. gp2, gp3
	// +optional
	VolumeType string `json:"volumeType,omitempty"`

	// +optional
	DeleteOnTermination *bool `json:"deleteOnTermination,omitempty"`
}

// Credentials override the private half of a key pair
type Credentials struct {
	User string `json:"user,omitempty"`

	// PEM encoded private key
	PrivateKey string `json:"privateKey"`
}

// LaunchTemplate defines the hardware and the launch options of an instance
type LaunchTemplate struct {
	// Instance type, e.g. m5.large. Defaults to the region instance type
	// +optional
	HardwareID string `json:"hardwareID,omitempty"`

	// Name of an existing key pair
	// +optional
	KeyPair string `json:"keyPair,omitempty"`

	// Public key material to import as the key pair of the group
	// +optional
	PublicKey string `json:"publicKey,omitempty"`

	// +optional
	OverridingCredentials *Credentials `json:"overridingCredentials,omitempty"`

	// Script to run on the instance once it is available. Requires a private key
	// +optional
	RunScript string `json:"runScript,omitempty"`

	// Defaults to true
	// +optional
	AutoCreateKeyPair *bool `json:"autoCreateKeyPair,omitempty"`

	// +optional
	PlacementGroup string `json:"placementGroup,omitempty"`

	// Defaults to true
	// +optional
	AutoCreatePlacementGroup *bool `json:"autoCreatePlacementGroup,omitempty"`

	// Security group ids passed through verbatim
	// +optional
	SecurityGroupIDs []string `json:"securityGroupIDs,omitempty"`

	// Security group names added after the group marker
	// +optional
	SecurityGroups []string `json:"securityGroups,omitempty"`

	// TCP ports opened on the group marker. Defaults to 22
	// +optional
	InboundPorts []int `json:"inboundPorts,omitempty"`

	// Defaults to true
	// +optional
	AuthorizeSelf *bool `json:"authorizeSelf,omitempty"`

	// +optional
	SubnetID string `json:"subnetID,omitempty"`

	// Raw user data, base64 encoded on the wire
	// +optional
	UserData []byte `json:"userData,omitempty"`

	// +optional
	Monitoring bool `json:"monitoring,omitempty"`

	// +optional
	BlockDevices []BlockDevice `json:"blockDevices,omitempty"`
}

// LaunchRequest asks for a single instance. Empty fields are filled from the provider
// configuration
type LaunchRequest struct {
	// +optional
	Region string `json:"region,omitempty"`

	// Logical group owning the key pair, security group and placement group
	// +optional
	Group string `json:"group,omitempty"`

	// +optional
	ImageID string `json:"imageID,omitempty"`

	Template LaunchTemplate `json:"template"`
}

// FormParameter is a single launch parameter, in the order it is sent
type FormParameter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LaunchParameters lists the resolved parameters of a launch without running it
type LaunchParameters struct {
	Provider   string          `json:"provider"`
	Parameters []FormParameter `json:"parameters"`
}

// Instance reports a launched instance
type Instance struct {
	// The unique identifier assigned by the provider
	ID string `json:"id"`

	Provider string `json:"provider"`

	// Public IPv4 address, once available
	// +optional
	Address string `json:"address,omitempty"`

	// Store any useful instance info specific to the current provider type
	// +optional
	ProviderInfo string `json:"providerInfo,omitempty"`

	State InstanceState `json:"state"`
}
