package commands

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/utils"
)

type launchCmd struct {
	context      *gin.Context
	provider     providers.Provider
	providerType string
	owners       *Owners
}

func NewLaunchCmd(c *gin.Context, provider providers.Provider, providerType string, owners *Owners) command {
	return &launchCmd{
		context:      c,
		provider:     provider,
		providerType: providerType,
		owners:       owners,
	}
}

func (c *launchCmd) Run() error {
	var req launchkitv1.LaunchRequest
	if err := c.context.ShouldBindJSON(&req); err != nil {
		c.context.JSON(http.StatusBadRequest, gin.H{"msg": fmt.Sprintf("invalid launch request: %v", err)})
		return nil
	}

	if !utils.CanUseGroup(c.context, req.Group) {
		c.context.AbortWithStatus(http.StatusUnauthorized)
		return nil
	}

	res, err := c.provider.Acquire(c.context.Request.Context(), providers.LaunchRequest{
		Region:   req.Region,
		Group:    req.Group,
		ImageID:  req.ImageID,
		Template: toTemplate(req.Template),
	})
	if err != nil {
		if abortWithError(c.context, err) {
			return nil
		}
		return err
	}

	c.owners.Record(res.Id, req.Group)

	c.context.JSON(http.StatusAccepted, launchkitv1.Instance{
		ID:           res.Id,
		Provider:     c.providerType,
		Address:      res.Address,
		ProviderInfo: res.Metadata,
		State:        launchkitv1.StateProvisioning,
	})
	return nil
}
