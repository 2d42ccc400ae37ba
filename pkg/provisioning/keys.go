package provisioning

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const DefaultPrefix = "launchkit"

// RegionAndName keys the key pair and placement group caches.
type RegionAndName struct {
	Region string
	Name   string
}

func (k RegionAndName) String() string {
	return fmt.Sprintf("[region=%s, name=%s]", k.Region, k.Name)
}

// RegionNameAndIngressRules keys the security group cache. Ports are held in canonical
// form so that equal port sets produce equal keys.
type RegionNameAndIngressRules struct {
	RegionAndName
	ports         string
	AuthorizeSelf bool
}

func NewRegionNameAndIngressRules(region, name string, ports []int, authorizeSelf bool) RegionNameAndIngressRules {
	return RegionNameAndIngressRules{
		RegionAndName: RegionAndName{Region: region, Name: name},
		ports:         canonicalPorts(ports),
		AuthorizeSelf: authorizeSelf,
	}
}

// Ports returns the requested inbound ports in ascending order.
func (k RegionNameAndIngressRules) Ports() []int {
	if k.ports == "" {
		return nil
	}
	return lo.Map(strings.Split(k.ports, ","), func(p string, _ int) int {
		n, _ := strconv.Atoi(p)
		return n
	})
}

func (k RegionNameAndIngressRules) String() string {
	return fmt.Sprintf("[region=%s, name=%s, ports=[%s], authorizeSelf=%t]", k.Region, k.Name, k.ports, k.AuthorizeSelf)
}

func canonicalPorts(ports []int) string {
	unique := lo.Uniq(ports)
	sort.Ints(unique)
	return strings.Join(lo.Map(unique, func(p int, _ int) string { return strconv.Itoa(p) }), ",")
}

// RegionNameAndPublicKeyMaterial is the input of a key pair import.
type RegionNameAndPublicKeyMaterial struct {
	RegionAndName
	PublicKeyMaterial string
}

func (k RegionNameAndPublicKeyMaterial) String() string {
	return fmt.Sprintf("[region=%s, name=%s, publicKey=%s]", k.Region, k.Name, abbreviate(k.PublicKeyMaterial))
}

func abbreviate(s string) string {
	const limit = 24
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// MarkerName is the name of the security and placement groups created on behalf of group
// in region.
func MarkerName(prefix, group, region string) string {
	return fmt.Sprintf("%s#%s#%s", prefix, group, region)
}

// ImportedKeyPairName is the name under which a public key of group is imported.
func ImportedKeyPairName(prefix, group string) string {
	return fmt.Sprintf("%s#%s", prefix, group)
}
