package providers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

type ProviderType string

const (
	ProviderAWS   ProviderType = "aws"
	ProviderDummy ProviderType = "fake-provider"
)

// NewProvider builds the provider of type providerType from its JSON configuration.
func NewProvider(ctx context.Context, providerType string, providerInfo []byte, logger logr.Logger) (Provider, error) {
	switch ProviderType(providerType) {
	case ProviderAWS:
		return AWSProviderFactory(ctx, providerInfo, logger)
	case ProviderDummy:
		return DummyProviderFactory(providerInfo)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
}
