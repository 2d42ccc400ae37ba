package commands

import (
	"net/http"

	"github.com/gin-gonic/gin"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/utils"
)

type releaseCmd struct {
	context      *gin.Context
	provider     providers.Provider
	providerType string
	owners       *Owners
	instanceID   string
}

func NewReleaseCmd(c *gin.Context, provider providers.Provider, providerType string, owners *Owners, instanceID string) command {
	return &releaseCmd{
		context:      c,
		provider:     provider,
		providerType: providerType,
		owners:       owners,
		instanceID:   instanceID,
	}
}

func (c *releaseCmd) Run() error {
	group, _ := c.owners.Owner(c.instanceID)
	if !utils.CanUseGroup(c.context, group) {
		c.context.AbortWithStatus(http.StatusUnauthorized)
		return nil
	}

	if err := c.provider.Release(c.context.Request.Context(), c.instanceID); err != nil {
		if abortWithError(c.context, err) {
			return nil
		}
		return err
	}

	c.owners.Forget(c.instanceID)

	c.context.JSON(http.StatusOK, launchkitv1.Instance{
		ID:       c.instanceID,
		Provider: c.providerType,
		State:    launchkitv1.StateReleased,
	})
	return nil
}
