package components

import (
	"book-custody/internal/handler"
	"book-custody/internal/handler/api"
	"book-custody/internal/handler/middleware"
	"book-custody/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewTransactionHandler,
		api.NewLedgerHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(registerRoutes),
)

func registerRoutes(
	engine *gin.Engine,
	cfg config.Config,
	transactions *api.TransactionHandler,
	ledger *api.LedgerHandler,
	auth *middleware.AuthMiddleware,
	logger *middleware.Logger,
) {
	handler.NewRouter(engine, cfg, handler.Handlers{
		Transactions: transactions,
		Ledger:       ledger,
		Auth:         auth,
		Logger:       logger,
	})
}
