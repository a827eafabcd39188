package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/events"
	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/utils"
)

// ChangeMonitor polls the DBChange feed and pushes typed events to the
// operator hub. Polling keeps the writers decoupled from the websocket
// layer; a missed cycle is harmless since the dashboard also polls REST.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *events.Hub
	Interval time.Duration

	stop chan struct{}
}

func NewChangeMonitor(db *gorm.DB, hub *events.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		Interval: time.Second,
		stop:     make(chan struct{}),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.processChanges()
			case <-cm.stop:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.stop)
}

func (cm *ChangeMonitor) processChanges() {
	var changes []models.DBChange
	if err := cm.DB.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		utils.ErrorLogger.Errorf("change monitor: fetch failed: %v", err)
		return
	}

	for _, change := range changes {
		cm.dispatch(change)
		if err := cm.DB.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			utils.ErrorLogger.Errorf("change monitor: mark processed failed: %v", err)
		}
	}
}

func (cm *ChangeMonitor) dispatch(change models.DBChange) {
	switch change.TableName {
	case "orders":
		if change.ActionType == "DELETE" {
			cm.Hub.Broadcast(events.EventOrderDeleted, map[string]uint{"id": change.RecordID})
			return
		}
		var order models.Order
		if err := cm.DB.Preload("Items").First(&order, change.RecordID).Error; err != nil {
			return
		}
		event := events.EventOrderUpdate
		if change.ActionType == "INSERT" {
			event = events.EventOrderCreated
		}
		cm.Hub.Broadcast(event, order)
	case "settings":
		var settings models.Settings
		if err := cm.DB.First(&settings, change.RecordID).Error; err != nil {
			return
		}
		cm.Hub.Broadcast(events.EventSettings, settings)
	case "hero_slides":
		cm.Hub.Broadcast(events.EventHeroSlides, map[string]uint{"id": change.RecordID})
	case "products":
		cm.Hub.Broadcast(events.EventProducts, map[string]uint{"id": change.RecordID})
	}
}
