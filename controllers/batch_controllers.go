package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/live"
	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/services"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type BatchController struct {
	DB *gorm.DB
}

func NewBatchController(db *gorm.DB) *BatchController {
	return &BatchController{DB: db}
}

// BatchView is the derived grouping shown to admins. It is recomputed on
// every fetch, nothing batch-level is stored.
type BatchView struct {
	Date        string         `json:"date"`
	Gender      string         `json:"gender"`
	BatchNumber int            `json:"batch_number"`
	Status      string         `json:"status"`
	OrderCount  int            `json:"order_count"`
	TotalAmount float64        `json:"total_amount"`
	Orders      []models.Order `json:"orders"`
}

// BatchStatusMode returns the statistical mode of the members'
// batch_status values. Ties resolve to the first-encountered value in
// iteration order.
func BatchStatusMode(orders []models.Order) string {
	if len(orders) == 0 {
		return models.BatchPending
	}

	counts := make(map[string]int)
	max := 0
	for _, o := range orders {
		counts[o.BatchStatus]++
		if counts[o.BatchStatus] > max {
			max = counts[o.BatchStatus]
		}
	}
	// Walk the members again so a tie goes to whichever value appeared
	// first, not whichever reached the max count first.
	for _, o := range orders {
		if counts[o.BatchStatus] == max {
			return o.BatchStatus
		}
	}
	return models.BatchPending
}

// GetBatches groups all orders by calendar date, gender and batch number.
func (bc *BatchController) GetBatches(c *gin.Context) {
	var orders []models.Order
	query := bc.DB.Preload("OrderItems").Order("id asc")
	if date := c.Query("date"); date != "" {
		query = query.Where("DATE(created_at) = ?", date)
	}
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	genders, err := bc.genderByUser(orders)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type key struct {
		date   string
		gender string
		batch  int
	}
	grouped := make(map[key][]models.Order)
	var keys []key
	for _, o := range orders {
		k := key{
			date:   o.CreatedAt.Format("2006-01-02"),
			gender: genders[o.UserID],
			batch:  o.BatchNumber,
		}
		if _, seen := grouped[k]; !seen {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], o)
	}

	batches := make([]BatchView, 0, len(keys))
	for _, k := range keys {
		members := grouped[k]
		view := BatchView{
			Date:        k.date,
			Gender:      k.gender,
			BatchNumber: k.batch,
			Status:      BatchStatusMode(members),
			OrderCount:  len(members),
			Orders:      members,
		}
		for _, o := range members {
			view.TotalAmount += o.TotalAmount
		}
		batches = append(batches, view)
	}

	utils.RespondJSON(c, http.StatusOK, "List of batches", batches)
}

// MarkBatchComplete bulk-updates every order sharing a batch number for the
// given day: back-fills missing delivery codes, flips batch_status to
// completed, moves status to ready with a fresh pickup token and stamps
// ready_at. Row errors are logged and skipped; the notification call
// afterwards is fire-and-forget.
func (bc *BatchController) MarkBatchComplete(c *gin.Context) {
	var req struct {
		BatchNumber int    `json:"batch_number" binding:"required"`
		Date        string `json:"date"`
		Gender      string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}

	orders, err := bc.batchMembers(req.BatchNumber, req.Date, req.Gender)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(orders) == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("no orders in this batch"))
		return
	}

	now := time.Now()
	var updated int
	var recipients []services.BatchRecipient
	for i := range orders {
		order := &orders[i]
		if order.Status == models.OrderCancelled {
			continue
		}

		if order.DeliveryQRCode == "" {
			order.DeliveryQRCode = utils.NewDeliveryCode()
		}
		if order.PickupToken == nil {
			token := utils.NewPickupToken()
			order.PickupToken = &token
		}
		order.BatchStatus = models.BatchCompleted
		order.Status = models.OrderReady
		order.ReadyAt = &now
		order.UpdatedAt = now

		if err := bc.DB.Save(order).Error; err != nil {
			// One failed row must not halt the rest of the sweep.
			utils.ErrorLogger.Printf("batch %d: failed to update order %s: %v",
				req.BatchNumber, order.OrderNumber, err)
			continue
		}
		updated++
		recipients = append(recipients, services.BatchRecipient{
			OrderNumber: order.OrderNumber,
			Name:        order.CustomerName,
			Phone:       order.CustomerPhone,
			Email:       order.CustomerEmail,
			RoomNumber:  order.RoomNumber,
		})
	}

	go func() {
		if err := services.GetNotifier().NotifyBatchReady(req.BatchNumber, recipients); err != nil {
			utils.ErrorLogger.Printf("batch %d notification failed: %v", req.BatchNumber, err)
		}
	}()

	live.BroadcastBatchUpdate(gin.H{
		"batch_number": req.BatchNumber,
		"date":         req.Date,
		"status":       models.BatchCompleted,
		"updated":      updated,
	})
	live.BroadcastAdminNotification(
		fmt.Sprintf("Batch %d marked complete, %d orders ready for pickup", req.BatchNumber, updated))

	utils.InfoLogger.Printf("Batch %d marked complete (%d orders)", req.BatchNumber, updated)
	utils.RespondJSON(c, http.StatusOK, "Batch marked complete", gin.H{
		"batch_number":   req.BatchNumber,
		"orders_updated": updated,
	})
}

// UnmarkBatch rolls a completed batch back to pending. This is the only
// backwards transition in the system.
func (bc *BatchController) UnmarkBatch(c *gin.Context) {
	var req struct {
		BatchNumber int    `json:"batch_number" binding:"required"`
		Date        string `json:"date"`
		Gender      string `json:"gender"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	}

	orders, err := bc.batchMembers(req.BatchNumber, req.Date, req.Gender)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var updated int
	for i := range orders {
		order := &orders[i]
		if order.BatchStatus != models.BatchCompleted {
			continue
		}

		order.BatchStatus = models.BatchPending
		order.Status = models.OrderPending
		order.ReadyAt = nil
		order.PickupToken = nil
		order.UpdatedAt = time.Now()

		if err := bc.DB.Save(order).Error; err != nil {
			utils.ErrorLogger.Printf("batch %d: failed to unmark order %s: %v",
				req.BatchNumber, order.OrderNumber, err)
			continue
		}
		updated++
	}

	live.BroadcastBatchUpdate(gin.H{
		"batch_number": req.BatchNumber,
		"date":         req.Date,
		"status":       models.BatchPending,
		"updated":      updated,
	})

	utils.RespondJSON(c, http.StatusOK, "Batch unmarked", gin.H{
		"batch_number":   req.BatchNumber,
		"orders_updated": updated,
	})
}

// NotifyBatch re-sends the ready notification for a batch on demand.
func (bc *BatchController) NotifyBatch(c *gin.Context) {
	batchNumber, err := strconv.Atoi(c.Param("batch_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid batch number"))
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	orders, err := bc.batchMembers(batchNumber, date, c.Query("gender"))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var recipients []services.BatchRecipient
	for _, o := range orders {
		if o.Status != models.OrderReady {
			continue
		}
		recipients = append(recipients, services.BatchRecipient{
			OrderNumber: o.OrderNumber,
			Name:        o.CustomerName,
			Phone:       o.CustomerPhone,
			Email:       o.CustomerEmail,
			RoomNumber:  o.RoomNumber,
		})
	}
	if len(recipients) == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("no ready orders in this batch"))
		return
	}

	if err := services.GetNotifier().NotifyBatchReady(batchNumber, recipients); err != nil {
		utils.RespondError(c, http.StatusBadGateway, fmt.Errorf("notification dispatch failed: %w", err))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Batch customers notified", gin.H{
		"batch_number": batchNumber,
		"notified":     len(recipients),
	})
}

func (bc *BatchController) batchMembers(batchNumber int, date, gender string) ([]models.Order, error) {
	var orders []models.Order
	query := bc.DB.
		Where("batch_number = ? AND DATE(created_at) = ?", batchNumber, date).
		Order("id asc")
	if gender != "" {
		query = query.
			Joins("JOIN profiles ON profiles.user_id = orders.user_id").
			Where("profiles.gender = ?", gender)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (bc *BatchController) genderByUser(orders []models.Order) (map[uint]string, error) {
	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool)
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			ids = append(ids, o.UserID)
		}
	}
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var profiles []models.Profile
	if err := bc.DB.Where("user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}

	genders := make(map[uint]string, len(profiles))
	for _, p := range profiles {
		genders[p.UserID] = p.Gender
	}
	return genders, nil
}
