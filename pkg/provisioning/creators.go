package provisioning

import (
	"context"
	"crypto/ed25519"
	"crypto/sha1"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/ssh"

	"github.com/openshift/launchkit/pkg/ec2api"
)

const (
	maxUniqueNameAttempts = 5
	anyIPv4               = "0.0.0.0/0"
	allProtocols          = "-1"
)

// Creators issues the remote creations behind the provisioning caches.
type Creators struct {
	client ec2api.Client
	prefix string
	logger logr.Logger

	newSuffix       func() string
	newReadyBackOff func() backoff.BackOff
}

func NewCreators(client ec2api.Client, prefix string, logger logr.Logger) *Creators {
	return &Creators{
		client: client,
		prefix: prefix,
		logger: logger.WithName("creators"),
		newSuffix: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
		newReadyBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = 2 * time.Minute
			return b
		},
	}
}

// CreateUniqueKeyPair creates a key pair named after the group with a random suffix,
// retrying with a new suffix when the name is already taken.
func (c *Creators) CreateUniqueKeyPair(ctx context.Context, key RegionAndName) (ec2api.KeyPair, error) {
	for attempt := 0; attempt < maxUniqueNameAttempts; attempt++ {
		name := fmt.Sprintf("%s#%s#%s", c.prefix, key.Name, c.newSuffix())
		kp, err := c.client.CreateKeyPair(ctx, key.Region, name).Get(ctx)
		if ec2api.HasErrorCode(err, ec2api.ErrCodeKeyPairDuplicate) {
			c.logger.V(1).Info("key pair name taken, retrying", "region", key.Region, "keyName", name)
			continue
		}
		if err != nil {
			return ec2api.KeyPair{}, fmt.Errorf("failed creating key pair %s in region %s: %w", name, key.Region, err)
		}
		if kp == nil {
			return ec2api.KeyPair{}, fmt.Errorf("creating key pair %s in region %s returned nothing", name, key.Region)
		}
		c.logger.Info("created key pair", "region", key.Region, "keyName", kp.KeyName)
		return *kp, nil
	}
	return ec2api.KeyPair{}, fmt.Errorf("no unique key pair name found for group %s in region %s after %d attempts", key.Name, key.Region, maxUniqueNameAttempts)
}

// ImportKeyPair imports the public key of a group. An already imported key is reused.
func (c *Creators) ImportKeyPair(ctx context.Context, key RegionNameAndPublicKeyMaterial) (ec2api.KeyPair, error) {
	name := ImportedKeyPairName(c.prefix, key.Name)
	kp, err := c.client.ImportKeyPair(ctx, key.Region, name, key.PublicKeyMaterial).Get(ctx)
	if ec2api.HasErrorCode(err, ec2api.ErrCodeKeyPairDuplicate) {
		existing, err := c.client.DescribeKeyPairs(ctx, key.Region, []string{name}).Get(ctx)
		if err != nil {
			return ec2api.KeyPair{}, fmt.Errorf("failed describing key pair %s in region %s: %w", name, key.Region, err)
		}
		if len(existing) == 0 {
			return ec2api.KeyPair{}, fmt.Errorf("key pair %s in region %s reported as duplicate but not found", name, key.Region)
		}
		c.logger.V(1).Info("reusing imported key pair", "region", key.Region, "keyName", name)
		return existing[0], nil
	}
	if err != nil {
		return ec2api.KeyPair{}, fmt.Errorf("failed importing key pair %s in region %s: %w", name, key.Region, err)
	}
	if kp == nil {
		return ec2api.KeyPair{}, fmt.Errorf("importing key pair %s in region %s returned nothing", name, key.Region)
	}
	c.logger.Info("imported key pair", "region", key.Region, "keyName", kp.KeyName)
	return *kp, nil
}

// CreateSecurityGroup creates the group and opens the requested ingress. A group that
// already exists is reused, and the requested ingress is still authorized on it since
// the group name does not encode the ports.
func (c *Creators) CreateSecurityGroup(ctx context.Context, key RegionNameAndIngressRules) (string, error) {
	_, err := c.client.CreateSecurityGroup(ctx, key.Region, key.Name, key.Name).Get(ctx)
	switch {
	case ec2api.HasErrorCode(err, ec2api.ErrCodeGroupDuplicate):
		c.logger.V(1).Info("reusing security group", "region", key.Region, "group", key.Name)
	case err != nil:
		return "", fmt.Errorf("failed creating security group %s in region %s: %w", key.Name, key.Region, err)
	}

	permissions := lo.Map(key.Ports(), func(port int, _ int) ec2types.IpPermission {
		return ec2types.IpPermission{
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(int32(port)),
			ToPort:     aws.Int32(int32(port)),
			IpRanges:   []ec2types.IpRange{{CidrIp: aws.String(anyIPv4)}},
		}
	})
	if key.AuthorizeSelf {
		permissions = append(permissions, ec2types.IpPermission{
			IpProtocol:       aws.String(allProtocols),
			UserIdGroupPairs: []ec2types.UserIdGroupPair{{GroupName: aws.String(key.Name)}},
		})
	}

	if len(permissions) > 0 {
		_, err := c.client.AuthorizeSecurityGroupIngress(ctx, key.Region, key.Name, permissions).Get(ctx)
		if err != nil && !ec2api.HasErrorCode(err, ec2api.ErrCodePermissionDuplicate) {
			return "", fmt.Errorf("failed authorizing ingress %v to security group %s in region %s: %w", key.Ports(), key.Name, key.Region, err)
		}
	}

	c.logger.Info("security group ready", "region", key.Region, "group", key.Name, "ports", key.Ports(), "authorizeSelf", key.AuthorizeSelf)
	return key.Name, nil
}

// CreatePlacementGroup creates a cluster placement group and waits for it to become
// available.
func (c *Creators) CreatePlacementGroup(ctx context.Context, key RegionAndName) (string, error) {
	_, err := c.client.CreatePlacementGroup(ctx, key.Region, key.Name, ec2types.PlacementStrategyCluster).Get(ctx)
	switch {
	case ec2api.HasErrorCode(err, ec2api.ErrCodePlacementGroupDuplicate):
		c.logger.V(1).Info("reusing placement group", "region", key.Region, "group", key.Name)
	case err != nil:
		return "", fmt.Errorf("failed creating placement group %s in region %s: %w", key.Name, key.Region, err)
	}

	errNotReady := errors.New("placement group not available")
	operation := func() error {
		groups, err := c.client.DescribePlacementGroups(ctx, key.Region, []string{key.Name}).Get(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		available := lo.ContainsBy(groups, func(g ec2types.PlacementGroup) bool {
			return aws.ToString(g.GroupName) == key.Name && g.State == ec2types.PlacementGroupStateAvailable
		})
		if !available {
			return errNotReady
		}
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(c.newReadyBackOff(), ctx)); err != nil {
		return "", fmt.Errorf("placement group %s in region %s did not become available: %w", key.Name, key.Region, err)
	}

	c.logger.Info("placement group available", "region", key.Region, "group", key.Name)
	return key.Name, nil
}

// Fingerprint returns the SHA-1 fingerprint of the PKCS#8 encoding of a PEM private key,
// the form EC2 reports for key pairs it generated.
func Fingerprint(privateKeyPEM string) (string, error) {
	key, err := ssh.ParseRawPrivateKey([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("failed parsing private key: %w", err)
	}
	if k, ok := key.(*ed25519.PrivateKey); ok {
		key = *k
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", fmt.Errorf("failed encoding private key: %w", err)
	}
	sum := sha1.Sum(der)
	return strings.Join(lo.Map(sum[:], func(b byte, _ int) string { return fmt.Sprintf("%02x", b) }), ":"), nil
}
