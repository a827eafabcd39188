package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/controllers"
	"github.com/ryadom-food/restaurant-backend/events"
	"github.com/ryadom-food/restaurant-backend/middlewares"
	"github.com/ryadom-food/restaurant-backend/services"
)

// Deps carries everything the route table needs.
type Deps struct {
	DB       *gorm.DB
	Catalog  *services.CatalogService
	Delivery *services.DeliveryService
	Orders   *services.OrderService
	Hub      *events.Hub
	CORS     string
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// 50 req/s per IP across the whole API.
	r.Use(middlewares.NewRateLimiter(50, 100).RateLimit())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.CORS))
	r.Use(middlewares.LoggerMiddleware())

	productCtrl := controllers.NewProductController(deps.DB, deps.Catalog)
	slideCtrl := controllers.NewHeroSlideController(deps.DB)
	settingsCtrl := controllers.NewSettingsController(deps.DB)
	deliveryCtrl := controllers.NewDeliveryController(deps.Delivery)
	orderCtrl := controllers.NewOrderController(deps.Orders)
	operatorCtrl := controllers.NewOperatorController(deps.Orders, deps.Hub)
	authCtrl := controllers.NewAuthController(deps.DB)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// -- Public storefront --
	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/stats", productCtrl.GetStats)
	api.GET("/products/category/:category", productCtrl.GetByCategory)
	api.GET("/products/:id", productCtrl.GetProduct)
	api.GET("/hero-slides", slideCtrl.GetSlides)
	api.GET("/settings", settingsCtrl.GetSettings)
	api.GET("/settings/status", settingsCtrl.GetStatus)

	api.POST("/delivery/suggestions", deliveryCtrl.Suggestions)
	api.POST("/delivery/calculate", deliveryCtrl.Calculate)
	api.GET("/delivery/restaurant", deliveryCtrl.Restaurant)

	api.POST("/orders", orderCtrl.CreateOrder)
	api.POST("/orders/track", orderCtrl.TrackOrder)
	api.GET("/profile/orders/:id", orderCtrl.GetProfileOrder)

	// -- Auth (strict limiter on credential endpoints) --
	auth := api.Group("/auth")
	auth.POST("/login", middlewares.NewStrictRateLimiter(), authCtrl.Login)
	auth.POST("/refresh", middlewares.NewStrictRateLimiter(), authCtrl.Refresh)
	auth.POST("/logout", authCtrl.Logout)
	authed := api.Group("/auth")
	authed.Use(middlewares.AuthMiddleware())
	authed.GET("/me", authCtrl.Me)
	authed.GET("/check", authCtrl.Check)

	// -- Operator order pipeline --
	operator := api.Group("/orders")
	operator.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("operator"))
	operator.GET("", operatorCtrl.ListOrders)
	operator.GET("/operator", operatorCtrl.ListOrders)
	operator.GET("/stats", operatorCtrl.GetStats)
	operator.GET("/events", operatorCtrl.Events)
	operator.GET("/:id", operatorCtrl.GetOrder)
	operator.PATCH("/:id/status", operatorCtrl.ChangeStatus)
	operator.DELETE("/:id", operatorCtrl.DeleteOrder)

	// -- Admin back-office --
	admin := api.Group("/")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("admin"))
	admin.POST("/products", productCtrl.CreateProduct)
	admin.PUT("/products/:id", productCtrl.UpdateProduct)
	admin.DELETE("/products/:id", productCtrl.DeleteProduct)
	admin.PATCH("/products/:id/availability", productCtrl.PatchAvailability)
	admin.PATCH("/products/:id/featured", productCtrl.PatchFeatured)

	admin.GET("/hero-slides/admin", slideCtrl.GetSlidesAdmin)
	admin.POST("/hero-slides", slideCtrl.CreateSlide)
	admin.PATCH("/hero-slides/reorder", slideCtrl.ReorderSlides)
	admin.PUT("/hero-slides/:id", slideCtrl.UpdateSlide)
	admin.DELETE("/hero-slides/:id", slideCtrl.DeleteSlide)

	admin.PUT("/settings", settingsCtrl.UpdateSettings)

	return r
}
