package service

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xpense/xpense/internal/auth"
	"github.com/xpense/xpense/internal/ledger"
	"github.com/xpense/xpense/internal/middleware"
	"github.com/xpense/xpense/internal/storage"
)

// NewRouter builds the HTTP router with all endpoints registered.
// Everything under the authenticated group requires a valid Bearer token.
func NewRouter(store storage.Store, l *ledger.Ledger, authenticator auth.Authenticator, jwtManager *auth.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logging(), middleware.CORS())

	authSvc := NewAuthService(authenticator, jwtManager, store, slog.Default())
	groupSvc := NewGroupService(store, l)
	expenseSvc := NewExpenseService(l)
	txSvc := NewTransactionService(l)

	r.POST("/signup", authSvc.Signup)
	r.POST("/token", authSvc.Token)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/", middleware.RequireAuth(jwtManager))
	{
		authed.GET("/current_user", authSvc.CurrentUser)
		authed.GET("/users", authSvc.ListUsers)

		authed.GET("/groups", groupSvc.List)
		authed.POST("/groups", groupSvc.Create)
		authed.GET("/groups/:group_id", groupSvc.Get)

		authed.GET("/groups/:group_id/members", groupSvc.Members)
		authed.POST("/groups/:group_id/members", groupSvc.AddMember)
		authed.DELETE("/groups/:group_id/members/:username", groupSvc.RemoveMember)
		authed.GET("/groups/:group_id/members/:username/balance", groupSvc.MemberBalance)

		authed.GET("/groups/:group_id/balance", groupSvc.PoolBalance)
		authed.GET("/groups/:group_id/balances", groupSvc.Balances)

		authed.GET("/groups/:group_id/expenses", expenseSvc.List)
		authed.POST("/groups/:group_id/expenses", expenseSvc.Create)
		authed.GET("/groups/:group_id/expenses/:expense_id", expenseSvc.Get)
		authed.GET("/groups/:group_id/expenses/:expense_id/members", expenseSvc.Members)

		authed.GET("/groups/:group_id/transactions", txSvc.List)
		authed.POST("/groups/:group_id/transactions", txSvc.Create)
	}

	return r
}
