package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"helpdesk/internal/infrastructure/config"
	agenttokenhandler "helpdesk/internal/interfaces/http/handlers/agenttoken"
	tickethandler "helpdesk/internal/interfaces/http/handlers/ticket"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/shared/authorization"
	"helpdesk/internal/shared/logger"
)

type Router struct {
	engine         *gin.Engine
	ticketHandler  *tickethandler.TicketHandler
	tokenHandler   *agenttokenhandler.TokenHandler
	authMiddleware *middleware.AuthMiddleware
	logger         logger.Interface
}

func NewRouter(
	ticketHandler *tickethandler.TicketHandler,
	tokenHandler *agenttokenhandler.TokenHandler,
	authMiddleware *middleware.AuthMiddleware,
	log logger.Interface,
) *Router {
	return &Router{
		engine:         gin.New(),
		ticketHandler:  ticketHandler,
		tokenHandler:   tokenHandler,
		authMiddleware: authMiddleware,
		logger:         log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.setupTicketRoutes()
	r.setupTokenRoutes()
	r.setupEnrollmentRoutes()
}

// setupTicketRoutes configures ticket lifecycle routes
func (r *Router) setupTicketRoutes() {
	tickets := r.engine.Group("/tickets")
	tickets.Use(r.authMiddleware.RequireAuth())
	{
		tickets.POST("", r.ticketHandler.CreateTicket)
		tickets.GET("", r.ticketHandler.ListTickets)
		tickets.GET("/:id", r.ticketHandler.GetTicket)
		tickets.GET("/:id/transitions", r.ticketHandler.ListTransitions)
		tickets.POST("/:id/transitions", r.ticketHandler.ApplyTransition)
		tickets.POST("/:id/assign", r.ticketHandler.AssignTicket)
		tickets.POST("/:id/comments", r.ticketHandler.AddComment)
	}
}

// setupTokenRoutes configures staff-facing token management routes
func (r *Router) setupTokenRoutes() {
	tokens := r.engine.Group("/agent-tokens")
	tokens.Use(r.authMiddleware.RequireAuth(), authorization.RequireStaff())
	{
		tokens.POST("", r.tokenHandler.IssueToken)
		tokens.GET("", r.tokenHandler.ListTokens)
		tokens.PATCH("/:id/active", r.tokenHandler.SetTokenActive)
		tokens.DELETE("/:id", r.tokenHandler.DeleteToken)
		tokens.GET("/:id/usage", r.tokenHandler.GetUsageHistory)
	}
}

// setupEnrollmentRoutes configures the unauthenticated agent enrollment
// endpoints. Installers have nothing but the token value.
func (r *Router) setupEnrollmentRoutes() {
	enroll := r.engine.Group("/agent/enroll")
	{
		enroll.POST("/validate", r.tokenHandler.ValidateToken)
		enroll.POST("/usage", r.tokenHandler.RecordUsage)
	}
}

// Engine exposes the underlying gin engine for serving and tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
