package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ladle-dev/ladle/internal/auth"
	"github.com/ladle-dev/ladle/internal/handlers"
	"github.com/ladle-dev/ladle/internal/middleware"
	"github.com/ladle-dev/ladle/internal/plans"
)

// New wires every route. Suppliers and restock orders are gated at
// basic, the dashboard summary at pro, and export at enterprise.
func New(conn *gorm.DB, tokens *auth.JWT, h *handlers.Handler, origins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authn := middleware.Auth(conn, tokens)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", authn, h.WebSocket)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", authn, h.Me)
			authGroup.PUT("/me", authn, h.UpdateMe)
			authGroup.DELETE("/me", authn, h.DeleteMe)
		}

		api.PUT("/subscription", authn, h.ChangePlan)

		recipes := api.Group("/recipes", authn)
		{
			recipes.POST("", h.CreateRecipe)
			recipes.GET("", h.ListRecipes)
			recipes.GET("/:id", h.GetRecipe)
			recipes.PUT("/:id", h.UpdateRecipe)
			recipes.DELETE("/:id", h.DeleteRecipe)
		}

		inventory := api.Group("/inventory", authn)
		{
			inventory.POST("", h.CreateInventoryItem)
			inventory.GET("", h.ListInventory)
			inventory.GET("/low-stock", h.ListLowStock)
			inventory.GET("/:id", h.GetInventoryItem)
			inventory.PUT("/:id", h.UpdateInventoryItem)
			inventory.DELETE("/:id", h.DeleteInventoryItem)
		}

		suppliers := api.Group("/suppliers", authn, middleware.RequirePlan(plans.Basic))
		{
			suppliers.POST("", h.CreateSupplier)
			suppliers.GET("", h.ListSuppliers)
			suppliers.GET("/:id", h.GetSupplier)
			suppliers.PUT("/:id", h.UpdateSupplier)
			suppliers.DELETE("/:id", h.DeleteSupplier)
		}

		restock := api.Group("/restock-orders", authn, middleware.RequirePlan(plans.Basic))
		{
			restock.POST("", h.CreateRestockOrder)
			restock.GET("", h.ListRestockOrders)
			restock.PUT("/:id", h.UpdateRestockOrder)
			restock.DELETE("/:id", h.DeleteRestockOrder)
		}

		tables := api.Group("/tables", authn)
		{
			tables.POST("", h.CreateTable)
			tables.GET("", h.ListTables)
			tables.GET("/:id", h.GetTable)
			tables.PUT("/:id", h.UpdateTable)
			tables.DELETE("/:id", h.DeleteTable)
		}

		orders := api.Group("/orders", authn)
		{
			orders.POST("", h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PUT("/:id", h.UpdateOrder)
			orders.PATCH("/:id/status", h.UpdateOrderStatus)
			orders.DELETE("/:id", h.DeleteOrder)
		}

		reservations := api.Group("/reservations", authn)
		{
			reservations.POST("", h.CreateReservation)
			reservations.GET("", h.ListReservations)
			reservations.GET("/:id", h.GetReservation)
			reservations.PUT("/:id", h.UpdateReservation)
			reservations.PATCH("/:id/status", h.UpdateReservationStatus)
			reservations.DELETE("/:id", h.DeleteReservation)
		}

		api.GET("/dashboard/summary", authn, middleware.RequirePlan(plans.Pro), h.GetDashboardSummary)
		api.GET("/export", authn, middleware.RequirePlan(plans.Enterprise), h.Export)
	}

	return r
}
