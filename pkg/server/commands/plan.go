package commands

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	launchkitv1 "github.com/openshift/launchkit/api/v1"
	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/utils"
)

// planCmd resolves the launch parameters of a request without running the instance.
// Missing key pairs, security groups and placement groups are still created.
type planCmd struct {
	context      *gin.Context
	provider     providers.Provider
	providerType string
}

func NewPlanCmd(c *gin.Context, provider providers.Provider, providerType string) command {
	return &planCmd{
		context:      c,
		provider:     provider,
		providerType: providerType,
	}
}

func (c *planCmd) Run() error {
	var req launchkitv1.LaunchRequest
	if err := c.context.ShouldBindJSON(&req); err != nil {
		c.context.JSON(http.StatusBadRequest, gin.H{"msg": fmt.Sprintf("invalid launch request: %v", err)})
		return nil
	}

	if !utils.CanUseGroup(c.context, req.Group) {
		c.context.AbortWithStatus(http.StatusUnauthorized)
		return nil
	}

	form, err := c.provider.Plan(c.context.Request.Context(), providers.LaunchRequest{
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

	c.context.JSON(http.StatusOK, launchkitv1.LaunchParameters{
		Provider:   c.providerType,
		Parameters: toFormParameters(form),
	})
	return nil
}
