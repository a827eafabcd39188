package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/config"
	"github.com/ryadom-food/restaurant-backend/events"
	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/router"
	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.Load()
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("failed to connect to database: %v", err)
	}
	autoMigrate(db)

	rdb := config.InitRedis(cfg)
	if rdb == nil {
		utils.InfoLogger.Println("REDIS_ADDR not set, catalog cache disabled")
	}

	hub := events.NewHub()

	geocoder := services.NewHTTPGeocoder(cfg.GeocoderURL, cfg.GeocoderKey)
	delivery := services.NewDeliveryService(db, geocoder)
	orders := services.NewOrderService(db, delivery)
	catalog := services.NewCatalogService(db, rdb)

	monitor := services.NewChangeMonitor(db, hub)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(router.Deps{
		DB:       db,
		Catalog:  catalog,
		Delivery: delivery,
		Orders:   orders,
		Hub:      hub,
		CORS:     cfg.CORSOrigin,
	})

	utils.InfoLogger.Printf("listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.HeroSlide{},
		&models.Settings{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusLog{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("auto-migrate failed: %v", err)
	}
	utils.InfoLogger.Println("auto-migrate completed")
}
