package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/config"
	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

// GrantAdminAccess promotes a user to admin when the submitted passphrase
// matches the server-held secret. Idempotent: calling it again for an
// existing admin succeeds without rewriting the role row.
func (ac *AdminController) GrantAdminAccess(c *gin.Context) {
	var req struct {
		UserID     uint   `json:"user_id" binding:"required"`
		Passphrase string `json:"passphrase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Passphrase != config.AdminPassphrase() {
		utils.ErrorLogger.Printf("Admin grant rejected for user %d: wrong passphrase", req.UserID)
		utils.RespondError(c, http.StatusForbidden, errors.New("invalid admin passphrase"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	var existing models.UserRole
	if err := ac.DB.Where("user_id = ?", req.UserID).First(&existing).Error; err == nil {
		if existing.Role == models.RoleAdmin {
			utils.RespondJSON(c, http.StatusOK, "User is already an admin", gin.H{
				"user_id": req.UserID,
			})
			return
		}
	}

	// Replace whatever role row exists, all or nothing.
	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", req.UserID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		role := models.UserRole{UserID: req.UserID, Role: models.RoleAdmin}
		return tx.Create(&role).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Admin access granted to user %d (%s)", user.ID, user.Email)
	utils.RespondJSON(c, http.StatusOK, "Admin access granted", gin.H{
		"user_id": req.UserID,
	})
}

// GetDashboardStats aggregates the counters shown on the admin dashboard.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var stats struct {
		TotalOrders  int64   `json:"total_orders"`
		TodayOrders  int64   `json:"today_orders"`
		TotalRevenue float64 `json:"total_revenue"`
		TodayRevenue float64 `json:"today_revenue"`
		OrderStats   struct {
			Pending    int64 `json:"pending"`
			Processing int64 `json:"processing"`
			Ready      int64 `json:"ready"`
			Delivered  int64 `json:"delivered"`
			Completed  int64 `json:"completed"`
			Cancelled  int64 `json:"cancelled"`
		} `json:"order_stats"`
		BatchStats struct {
			TodayBatches    int64 `json:"today_batches"`
			PendingOrders   int64 `json:"pending_batch_orders"`
			CompletedOrders int64 `json:"completed_batch_orders"`
		} `json:"batch_stats"`
	}

	ac.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)

	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderPending).Count(&stats.OrderStats.Pending)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderProcessing).Count(&stats.OrderStats.Processing)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderReady).Count(&stats.OrderStats.Ready)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderDelivered).Count(&stats.OrderStats.Delivered)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderCompleted).Count(&stats.OrderStats.Completed)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderCancelled).Count(&stats.OrderStats.Cancelled)

	ac.DB.Model(&models.Order{}).Where("status NOT IN ?", []string{models.OrderCancelled}).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.TotalRevenue)
	ac.DB.Model(&models.Order{}).
		Where("status NOT IN ? AND DATE(created_at) = ?", []string{models.OrderCancelled}, today).
		Select("COALESCE(SUM(total_amount), 0)").Row().Scan(&stats.TodayRevenue)

	ac.DB.Model(&models.Order{}).Where("DATE(created_at) = ?", today).
		Distinct("batch_number").Count(&stats.BatchStats.TodayBatches)
	ac.DB.Model(&models.Order{}).Where("batch_status = ?", models.BatchPending).Count(&stats.BatchStats.PendingOrders)
	ac.DB.Model(&models.Order{}).Where("batch_status = ?", models.BatchCompleted).Count(&stats.BatchStats.CompletedOrders)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
