package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/utils"
)

type HeroSlideController struct {
	DB *gorm.DB
}

func NewHeroSlideController(db *gorm.DB) *HeroSlideController {
	return &HeroSlideController{DB: db}
}

// GetSlides is the public endpoint: active slides only, in display order.
func (hc *HeroSlideController) GetSlides(c *gin.Context) {
	var slides []models.HeroSlide
	if err := hc.DB.Where("is_active = ?", true).
		Order("sort_order, id").Find(&slides).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Hero slides", slides)
}

// GetSlidesAdmin returns every slide including hidden ones.
func (hc *HeroSlideController) GetSlidesAdmin(c *gin.Context) {
	var slides []models.HeroSlide
	if err := hc.DB.Order("sort_order, id").Find(&slides).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Hero slides", slides)
}

type slideRequest struct {
	Title      string `json:"title" binding:"required"`
	Subtitle   string `json:"subtitle"`
	Image      string `json:"image" binding:"required"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
	IsActive   *bool  `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

func (hc *HeroSlideController) CreateSlide(c *gin.Context) {
	var req slideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slide := models.HeroSlide{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		ImageURL:   req.Image,
		ButtonText: req.ButtonText,
		ButtonLink: req.ButtonLink,
		IsActive:   true,
		SortOrder:  req.SortOrder,
	}
	if req.IsActive != nil {
		slide.IsActive = *req.IsActive
	}

	if err := hc.DB.Create(&slide).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	hc.recordChange(slide.ID)
	utils.RespondJSON(c, http.StatusCreated, "Slide created", slide)
}

func (hc *HeroSlideController) UpdateSlide(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid slide id"))
		return
	}

	var slide models.HeroSlide
	if err := hc.DB.First(&slide, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("slide not found"))
		return
	}

	var req slideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	slide.Title = req.Title
	slide.Subtitle = req.Subtitle
	slide.ImageURL = req.Image
	slide.ButtonText = req.ButtonText
	slide.ButtonLink = req.ButtonLink
	slide.SortOrder = req.SortOrder
	if req.IsActive != nil {
		slide.IsActive = *req.IsActive
	}

	if err := hc.DB.Save(&slide).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	hc.recordChange(slide.ID)
	utils.RespondJSON(c, http.StatusOK, "Slide updated", slide)
}

func (hc *HeroSlideController) DeleteSlide(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid slide id"))
		return
	}

	res := hc.DB.Delete(&models.HeroSlide{}, id)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("slide not found"))
		return
	}
	hc.recordChange(uint(id))
	utils.RespondJSON(c, http.StatusOK, "Slide deleted", nil)
}

// ReorderSlides takes the full ordered id list and rewrites sort
// positions.
func (hc *HeroSlideController) ReorderSlides(c *gin.Context) {
	var req struct {
		IDs []uint `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	err := hc.DB.Transaction(func(tx *gorm.DB) error {
		for pos, id := range req.IDs {
			if err := tx.Model(&models.HeroSlide{}).
				Where("id = ?", id).Update("sort_order", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	hc.recordChange(0)
	utils.RespondJSON(c, http.StatusOK, "Slides reordered", nil)
}

func (hc *HeroSlideController) recordChange(id uint) {
	err := hc.DB.Create(&models.DBChange{
		TableName:  "hero_slides",
		RecordID:   id,
		ActionType: "UPDATE",
		ChangedAt:  time.Now(),
	}).Error
	if err != nil {
		utils.ErrorLogger.Errorf("hero slides: change feed write failed: %v", err)
	}
}
