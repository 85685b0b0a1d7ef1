package router

import (
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/config"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/handler"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/idgen"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/middleware"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/service"
	"github.com/Matthewbuckle27/Customer-Session-Portal-Security/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires stores, services and handlers onto a Gin engine.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	stores := store.New(db)
	ids := idgen.New(stores)
	sessionSvc := service.NewSessionService(stores, ids, service.Config{
		MaximumDormantDays: cfg.Session.MaximumDormantDays,
		SortSessionsBy:     cfg.Session.SortBy,
	})
	customerSvc := service.NewCustomerService(stores, ids)

	// ====== API ======
	api := r.Group("/api")

	// login/registration, no auth required
	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret, db))

	protected.GET("/me", handler.GetMe)
	protected.POST("/auth/password", authHandler.ChangePassword)

	sessionHandler := handler.NewSessionHandler(sessionSvc, cfg.Session.DefaultPageSize)
	protected.POST("/sessions", sessionHandler.CreateSession)
	protected.GET("/sessions/:status", sessionHandler.ListSessions)
	protected.PUT("/sessions/:id", sessionHandler.UpdateSession)
	protected.DELETE("/sessions/:id", sessionHandler.DeleteSession)
	protected.PUT("/sessions/archive/:id", sessionHandler.ArchiveSession)

	customerHandler := handler.NewCustomerHandler(customerSvc)
	protected.POST("/customers", customerHandler.CreateCustomer)
	protected.GET("/customers/:id", customerHandler.GetCustomer)

	exportHandler := handler.NewExportHandler(stores)
	protected.GET("/export/sessions/csv", exportHandler.ExportCSV)
	protected.GET("/export/sessions/xlsx", exportHandler.ExportXLSX)

	return r
}
