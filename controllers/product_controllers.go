package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

type ProductController struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
}

func NewProductController(db *gorm.DB, catalog *services.CatalogService) *ProductController {
	return &ProductController{DB: db, Catalog: catalog}
}

// GetAllProducts returns the catalog grouped by category with a content
// hash the storefront uses for staleness checks.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	grouped, err := pc.Catalog.Grouped(c.Request.Context())
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalog", grouped)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Where("slug = ?", c.Param("id")).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product", product)
}

func (pc *ProductController) GetByCategory(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Where("category = ?", c.Param("category")).
		Order("sort_order, id").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Products", products)
}

func (pc *ProductController) GetStats(c *gin.Context) {
	stats, err := pc.Catalog.Stats()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Catalog stats", stats)
}

type productRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       int    `json:"price" binding:"required,gt=0"`
	Category    string `json:"category" binding:"required"`
	Image       string `json:"image"`
	IsAvailable *bool  `json:"is_available"`
	IsFeatured  *bool  `json:"is_featured"`
	SortOrder   int    `json:"sort_order"`
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product := models.Product{
		Slug:        utils.Slugify(req.Title),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.Image,
		IsAvailable: true,
		SortOrder:   req.SortOrder,
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := pc.DB.Create(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	pc.afterWrite(c, product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := pc.DB.Where("slug = ?", c.Param("id")).First(&product).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	product.Title = strings.TrimSpace(req.Title)
	product.Description = req.Description
	product.Price = req.Price
	product.Category = req.Category
	product.SortOrder = req.SortOrder
	if req.Image != "" {
		product.ImageURL = req.Image
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := pc.DB.Save(&product).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	pc.afterWrite(c, product.ID)
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	res := pc.DB.Where("slug = ?", c.Param("id")).Delete(&models.Product{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	pc.afterWrite(c, 0)
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

// patchFlag flips a single boolean column.
func (pc *ProductController) patchFlag(c *gin.Context, column string) {
	var req struct {
		Value *bool `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res := pc.DB.Model(&models.Product{}).
		Where("slug = ?", c.Param("id")).Update(column, *req.Value)
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("product not found"))
		return
	}
	pc.afterWrite(c, 0)
	utils.RespondJSON(c, http.StatusOK, "Product updated", gin.H{column: *req.Value})
}

// afterWrite drops the cached catalog and feeds the change monitor.
func (pc *ProductController) afterWrite(c *gin.Context, id uint) {
	pc.Catalog.Invalidate(c.Request.Context())
	err := pc.DB.Create(&models.DBChange{
		TableName:  "products",
		RecordID:   id,
		ActionType: "UPDATE",
		ChangedAt:  time.Now(),
	}).Error
	if err != nil {
		utils.ErrorLogger.Errorf("products: change feed write failed: %v", err)
	}
}

func (pc *ProductController) PatchAvailability(c *gin.Context) {
	pc.patchFlag(c, "is_available")
}

func (pc *ProductController) PatchFeatured(c *gin.Context) {
	pc.patchFlag(c, "is_featured")
}
