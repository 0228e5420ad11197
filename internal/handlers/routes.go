package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/auth"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/middleware"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// Routes are the dependencies of the API surface.
type Routes struct {
	Data     userdata.DataContext
	Sessions auth.Provider // nil runs without authentication
	Settings SettingsStore
}

// RegisterRoutes mounts every endpoint under v1.
func RegisterRoutes(v1 *gin.RouterGroup, deps Routes) {
	authHandler := NewAuthHandler(deps.Data, deps.Sessions)
	budgetHandler := NewBudgetHandler(deps.Data)
	entryHandler := NewEntryHandler(deps.Data)
	categoryHandler := NewCategoryHandler(deps.Data)
	transferHandler := NewTransferHandler(deps.Data)
	settingsHandler := NewSettingsHandler(deps.Settings)

	// Public routes
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/status", authHandler.GetStatus)
	v1.GET("/settings", settingsHandler.GetSettings)
	v1.PUT("/settings", settingsHandler.UpdateSettings)

	// Protected routes
	var tokens middleware.TokenValidator
	if deps.Sessions != nil {
		tokens = deps.Sessions
	}
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens), RequireCurrentUser(deps.Data))

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	budgets := protected.Group("/budgets")
	budgets.GET("", budgetHandler.ListBudgets)
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.PUT("/active", budgetHandler.SwitchBudget)
	budgets.POST("/join", budgetHandler.JoinBudget)
	budgets.GET("/code/:code", budgetHandler.FindBudgetByCode)
	budgets.PUT("/:id", budgetHandler.RenameBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.DELETE("/:id/membership", budgetHandler.LeaveBudget)

	entries := protected.Group("/entries")
	entries.GET("", entryHandler.ListEntries)
	entries.POST("", entryHandler.CreateEntry)
	entries.PUT("/:id", entryHandler.UpdateEntry)
	entries.DELETE("/:id", entryHandler.DeleteEntry)
	protected.GET("/summary", entryHandler.GetSummary)

	categories := protected.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	protected.GET("/export", transferHandler.Export)
	protected.POST("/import", transferHandler.Import)
}
