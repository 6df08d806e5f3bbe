package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"book-custody/internal/domain/member"
	"book-custody/internal/handler/api"
	"book-custody/internal/handler/middleware"
	"book-custody/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Transactions *api.TransactionHandler
	Ledger       *api.LedgerHandler
	Auth         *middleware.AuthMiddleware
	Logger       *middleware.Logger
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers) {
	setupMiddleware(engine, cfg, h.Logger)
	setupRoutes(engine, h)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staffOnly := []gin.HandlerFunc{h.Auth.RequireRoleAtLeast(member.RoleStaff)}

	transactions := engine.Group("/transactions")
	transactions.Use(h.Auth.RequireAuth())
	{
		addRoutes(transactions, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Transactions.RequestCheckout},
			{Method: http.MethodGet, Path: "", Handler: h.Transactions.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Transactions.Get},
			{Method: http.MethodPut, Path: "/approve/:id", Handler: h.Transactions.ApproveCheckout, Mw: staffOnly},
			{Method: http.MethodPut, Path: "/return/:book_id", Handler: h.Transactions.RequestReturn},
			{Method: http.MethodPut, Path: "/complete-return/:id", Handler: h.Transactions.CompleteReturn, Mw: staffOnly},
			{Method: http.MethodDelete, Path: "/cancel/:id", Handler: h.Transactions.CancelCheckout},
		})
	}

	ledger := engine.Group("/ledger")
	ledger.Use(h.Auth.RequireAuth(), h.Auth.RequireRoleAtLeast(member.RoleAdmin))
	{
		addRoutes(ledger, []route{
			{Method: http.MethodGet, Path: "/books/:book_id/custodian", Handler: h.Ledger.Custodian},
			{Method: http.MethodGet, Path: "/drift", Handler: h.Ledger.Drift},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
