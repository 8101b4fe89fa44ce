package routes

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/cache"
	"velora_back_end/internal/handlers/item"
	pa "velora_back_end/internal/handlers/payement"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"
	"velora_back_end/internal/models"
)

func RegisterRoutes(r *gin.Engine, users *cache.UserCache) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:7777"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// La session est résolue sur toutes les routes : les endpoints publics
	// peuvent ainsi personnaliser leur réponse quand un token valide est présent.
	r.Use(middleware.ResolveSession(users))

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/signup", middleware.SignupRateLimit(), user.Signup)
	auth.POST("/signin", middleware.SigninRateLimit(), user.Signin)
	auth.POST("/signout", user.Signout)
	auth.GET("/me", user.Me)
	auth.POST("/request-reset", middleware.RequestResetRateLimit(), user.RequestReset)
	auth.POST("/reset-password", user.ResetPassword)
	auth.POST("/change-password", middleware.AuthRequired(), user.ChangePassword)

	// Catalogue
	api.GET("/items", item.GetItems)
	api.GET("/items/:id", item.GetItem)
	api.POST("/items", middleware.AuthRequired(), item.CreateItem)
	api.PUT("/items/:id", middleware.AuthRequired(), item.UpdateItem)
	api.DELETE("/items/:id", middleware.AuthRequired(), item.DeleteItem)
	api.POST("/items/:id/image", middleware.AuthRequired(), item.UploadItemImage)

	// Panier
	cart := api.Group("/cart", middleware.AuthRequired())
	cart.GET("", user.GetCart)
	cart.POST("", user.AddToCart)
	cart.DELETE("/:id", user.RemoveFromCart)

	// Checkout + commandes
	api.POST("/checkout", middleware.AuthRequired(), pa.Checkout)
	api.GET("/orders", middleware.AuthRequired(), user.GetMyOrders)
	api.GET("/orders/:id", middleware.AuthRequired(), user.GetOrderByID)

	// Administration
	admin := api.Group("/users", middleware.AuthRequired(),
		middleware.RequireAnyPermission(models.PermAdmin, models.PermPermissionUpdate))
	admin.GET("", user.GetUsers)
	admin.PUT("/:id/permissions", user.UpdatePermissions)
}
