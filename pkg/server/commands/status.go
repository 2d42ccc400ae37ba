package commands

import (
	"net/http"

	"github.com/gin-gonic/gin"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/utils"
)

type statusCmd struct {
	context      *gin.Context
	provider     providers.Provider
	providerType string
	owners       *Owners
	instanceID   string
}

func NewStatusCmd(c *gin.Context, provider providers.Provider, providerType string, owners *Owners, instanceID string) command {
	return &statusCmd{
		context:      c,
		provider:     provider,
		providerType: providerType,
		owners:       owners,
		instanceID:   instanceID,
	}
}

func (c *statusCmd) Run() error {
	group, _ := c.owners.Owner(c.instanceID)
	if !utils.CanUseGroup(c.context, group) {
		c.context.AbortWithStatus(http.StatusUnauthorized)
		return nil
	}

	done, res, err := c.provider.AcquireCompleted(c.context.Request.Context(), c.instanceID)
	if err != nil {
		if abortWithError(c.context, err) {
			return nil
		}
		return err
	}

	state := launchkitv1.StateProvisioning
	if done {
		state = launchkitv1.StateAvailable
	}

	c.context.JSON(http.StatusOK, launchkitv1.Instance{
		ID:           c.instanceID,
		Provider:     c.providerType,
		Address:      res.Address,
		ProviderInfo: res.Metadata,
		State:        state,
	})
	return nil
}
