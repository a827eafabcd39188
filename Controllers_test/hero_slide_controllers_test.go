package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/controllers"
	"github.com/ryadom-food/restaurant-backend/models"
)

func setupSlideRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewHeroSlideController(db)

	r := gin.New()
	r.GET("/api/slides", ctrl.GetSlides)
	r.GET("/api/slides/admin", ctrl.GetSlidesAdmin)
	r.POST("/api/slides", ctrl.CreateSlide)
	r.PUT("/api/slides/reorder", ctrl.ReorderSlides)
	return r
}

func decodeSlideList(t *testing.T, body []byte) []map[string]interface{} {
	t.Helper()
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Data
}

func TestCreateHiddenSlideStaysHidden(t *testing.T) {
	db := setupTestDB(t)
	r := setupSlideRouter(db)

	active := false
	w := doJSON(t, r, http.MethodPost, "/api/slides", map[string]interface{}{
		"title":     "Скоро открытие",
		"image":     "/img/opening.jpg",
		"is_active": &active,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, false, decodeData(t, w)["is_active"])

	// The false flag must survive the insert, not revert to a column
	// default.
	var slide models.HeroSlide
	require.NoError(t, db.First(&slide).Error)
	assert.False(t, slide.IsActive)

	// Hidden slides stay off the public list but show up for admins.
	w = doJSON(t, r, http.MethodGet, "/api/slides", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSlideList(t, w.Body.Bytes()))

	w = doJSON(t, r, http.MethodGet, "/api/slides/admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSlideList(t, w.Body.Bytes()), 1)

	var changes int64
	db.Model(&models.DBChange{}).Where("table_name = ?", "hero_slides").Count(&changes)
	assert.EqualValues(t, 1, changes)
}

func TestReorderSlides(t *testing.T) {
	db := setupTestDB(t)
	r := setupSlideRouter(db)

	first := models.HeroSlide{Title: "Пицца недели", ImageURL: "/img/1.jpg", IsActive: true, SortOrder: 0}
	second := models.HeroSlide{Title: "Акция на морс", ImageURL: "/img/2.jpg", IsActive: true, SortOrder: 1}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	w := doJSON(t, r, http.MethodPut, "/api/slides/reorder", map[string]interface{}{
		"ids": []uint{second.ID, first.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/slides", nil)
	slides := decodeSlideList(t, w.Body.Bytes())
	require.Len(t, slides, 2)
	assert.Equal(t, "Акция на морс", slides[0]["title"])
	assert.Equal(t, "Пицца недели", slides[1]["title"])
}
