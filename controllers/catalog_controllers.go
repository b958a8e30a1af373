package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

// GetAllCategories -> public listing.
func (cc *CatalogController) GetAllCategories(c *gin.Context) {
	var categories []models.Category
	if err := cc.DB.Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of categories", categories)
}

// GetAllItems -> public listing with per-service prices preloaded.
func (cc *CatalogController) GetAllItems(c *gin.Context) {
	var items []models.Item
	query := cc.DB.Preload("Category").Preload("Prices").Preload("Prices.ServiceType")
	if catID := c.Query("category_id"); catID != "" {
		query = query.Where("category_id = ?", catID)
	}
	if err := query.Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of items", items)
}

// GetServiceTypes -> public listing.
func (cc *CatalogController) GetServiceTypes(c *gin.Context) {
	var services []models.ServiceType
	if err := cc.DB.Find(&services).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of service types", services)
}

// CreateCategory (admin)
func (cc *CatalogController) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category := models.Category{Name: req.Name}
	if err := cc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// CreateItem (admin) with optional initial prices.
func (cc *CatalogController) CreateItem(c *gin.Context) {
	var req struct {
		CategoryID uint   `json:"category_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Prices     []struct {
			ServiceTypeID uint    `json:"service_type_id" binding:"required"`
			Price         float64 `json:"price" binding:"required"`
		} `json:"prices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.Item{CategoryID: req.CategoryID, Name: req.Name}
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, p := range req.Prices {
			price := models.ItemPrice{
				ItemID:        item.ID,
				ServiceTypeID: p.ServiceTypeID,
				Price:         p.Price,
			}
			if err := tx.Create(&price).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Item created", item)
}

// UpdateItemPrice (admin) upserts one item/service price.
func (cc *CatalogController) UpdateItemPrice(c *gin.Context) {
	itemID, _ := strconv.Atoi(c.Param("item_id"))

	var req struct {
		ServiceTypeID uint    `json:"service_type_id" binding:"required"`
		Price         float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var price models.ItemPrice
	err := cc.DB.Where("item_id = ? AND service_type_id = ?", itemID, req.ServiceTypeID).First(&price).Error
	if err == nil {
		price.Price = req.Price
		err = cc.DB.Save(&price).Error
	} else {
		price = models.ItemPrice{
			ItemID:        uint(itemID),
			ServiceTypeID: req.ServiceTypeID,
			Price:         req.Price,
		}
		err = cc.DB.Create(&price).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item price updated", price)
}

// DeleteItem (admin)
func (cc *CatalogController) DeleteItem(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("item_id"))

	if err := cc.DB.Delete(&models.Item{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item deleted", gin.H{"item_id": id})
}
