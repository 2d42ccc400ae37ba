package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/openshift/launchkit/pkg/providers"
	"github.com/openshift/launchkit/pkg/server/commands"
	"github.com/openshift/launchkit/pkg/utils"
)

const (
	TokenHeader     = "X-Launchkit-Token"
	RequestIDHeader = "X-Request-Id"

	shutdownTimeout = 10 * time.Second
)

type LaunchkitAPI struct {
	provider     providers.Provider
	providerType string
	tokens       map[string]string
	owners       *commands.Owners
	gatherer     prometheus.Gatherer
	router       *gin.Engine
	port         string
	logger       logr.Logger
}

func NewLaunchkitAPI(port, providerType string, provider providers.Provider, tokens map[string]string, logger logr.Logger) *LaunchkitAPI {
	return &LaunchkitAPI{
		provider:     provider,
		providerType: providerType,
		tokens:       tokens,
		owners:       commands.NewOwners(),
		gatherer:     prometheus.DefaultGatherer,
		port:         port,
		logger:       logger.WithName("server"),
	}
}

func (o *LaunchkitAPI) Init() error {
	if o.provider == nil {
		return errors.New("a provider is required")
	}

	// Setup the server
	r := gin.New()
	r.Use(gin.Recovery(), o.requestID, o.authenticate)
	r.Group("/v1").
		POST("/launch-parameters", o.handlePlan).
		POST("/instances", o.handleLaunch).
		GET("/instances/:id", o.handleGetStatus).
		DELETE("/instances/:id", o.handleRelease)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})))

	o.router = r
	return nil
}

func (o *LaunchkitAPI) Handler() http.Handler {
	return o.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (o *LaunchkitAPI) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", o.port),
		Handler: o.router,
	}

	errCh := make(chan error, 1)
	go func() {
		o.logger.Info("listening", "port", o.port, "provider", o.providerType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (o *LaunchkitAPI) requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(RequestIDHeader, id)
	c.Next()

	o.logger.V(1).Info("handled request",
		"requestID", id,
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
	)
}

// authenticate resolves the groups the caller may use. Without configured tokens every
// caller may use every group.
func (o *LaunchkitAPI) authenticate(c *gin.Context) {
	if len(o.tokens) == 0 {
		c.Set(utils.ValidGroupsKey, utils.AllGroups)
		return
	}
	if groups, ok := o.tokens[c.GetHeader(TokenHeader)]; ok {
		c.Set(utils.ValidGroupsKey, groups)
	}
}

func (o *LaunchkitAPI) run(c *gin.Context, cmd interface{ Run() error }) {
	if err := cmd.Run(); err != nil {
		o.logger.Error(err, "request failed", "method", c.Request.Method, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
	}
}

func (o *LaunchkitAPI) handlePlan(c *gin.Context) {
	o.run(c, commands.NewPlanCmd(c, o.provider, o.providerType))
}

func (o *LaunchkitAPI) handleLaunch(c *gin.Context) {
	o.run(c, commands.NewLaunchCmd(c, o.provider, o.providerType, o.owners))
}

func (o *LaunchkitAPI) handleGetStatus(c *gin.Context) {
	o.run(c, commands.NewStatusCmd(c, o.provider, o.providerType, o.owners, c.Param("id")))
}

func (o *LaunchkitAPI) handleRelease(c *gin.Context) {
	o.run(c, commands.NewReleaseCmd(c, o.provider, o.providerType, o.owners, c.Param("id")))
}
