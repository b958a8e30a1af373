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
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// batchSize caps how many same-day, same-gender orders share one batch
// number before the next batch opens.
const batchSize = 20

// ErrUnpricedItem marks an order line with no catalog price, which is a
// client error rather than a storage failure.
var ErrUnpricedItem = &CustomError{"no catalog price for the requested item and service"}

// forwardTransitions maps each status to the only status it may advance to.
// cancelled is handled separately and completed/cancelled are terminal.
var forwardTransitions = map[string]string{
	models.OrderPending:    models.OrderProcessing,
	models.OrderProcessing: models.OrderReady,
	models.OrderReady:      models.OrderDelivered,
	models.OrderDelivered:  models.OrderCompleted,
}

// CreateOrder persists the order header and its line items in a single
// transaction. Every line is repriced from the stored catalog; client
// totals are never trusted.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	type ItemReq struct {
		ItemID        uint `json:"item_id" binding:"required"`
		ServiceTypeID uint `json:"service_type_id" binding:"required"`
		Quantity      int  `json:"quantity" binding:"required,min=1"`
	}
	type ReqBody struct {
		Items         []ItemReq `json:"items" binding:"required,min=1"`
		PaymentMethod string    `json:"payment_method"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var profile models.Profile
	if err := oc.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("profile not found, complete signup first"))
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		today := time.Now().Format("2006-01-02")

		// Orders are routed into per-day, per-gender batch sequences.
		var sameDay int64
		if err := tx.Model(&models.Order{}).
			Joins("JOIN profiles ON profiles.user_id = orders.user_id").
			Where("profiles.gender = ? AND DATE(orders.created_at) = ?", profile.Gender, today).
			Count(&sameDay).Error; err != nil {
			return err
		}
		batchNumber := int(sameDay)/batchSize + 1

		order = models.Order{
			OrderNumber:    oc.uniqueOrderNumber(tx),
			UserID:         userID,
			CustomerName:   profile.Name,
			CustomerPhone:  profile.Phone,
			CustomerEmail:  profile.Email,
			StudentID:      profile.StudentID,
			RoomNumber:     profile.RoomNumber,
			Status:         models.OrderPending,
			PaymentStatus:  models.PaymentPending,
			PaymentMethod:  body.PaymentMethod,
			BatchNumber:    batchNumber,
			BatchStatus:    models.BatchPending,
			DeliveryQRCode: utils.NewDeliveryCode(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, line := range body.Items {
			var price models.ItemPrice
			if err := tx.Preload("Item").Preload("ServiceType").
				Where("item_id = ? AND service_type_id = ?", line.ItemID, line.ServiceTypeID).
				First(&price).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: item %d with service %d", ErrUnpricedItem, line.ItemID, line.ServiceTypeID)
				}
				return err
			}

			lineTotal := float64(line.Quantity) * price.Price
			total += lineTotal

			orderItem := models.OrderItem{
				OrderID:       order.ID,
				ItemID:        price.ItemID,
				ServiceTypeID: price.ServiceTypeID,
				ItemName:      price.Item.Name,
				ServiceName:   price.ServiceType.Name,
				Quantity:      line.Quantity,
				UnitPrice:     price.Price,
				LineTotal:     lineTotal,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		order.TotalAmount = total
		return tx.Save(&order).Error
	})
	if err != nil {
		// Bad input is the caller's fault; anything else is ours.
		if errors.Is(err, ErrUnpricedItem) {
			utils.RespondError(c, http.StatusBadRequest, err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	if err := oc.DB.Preload("OrderItems").First(&order, order.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %s created for user %d (batch %d)", order.OrderNumber, userID, order.BatchNumber)
	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) uniqueOrderNumber(tx *gorm.DB) string {
	for {
		number := utils.GenerateOrderNumber()
		var count int64
		tx.Model(&models.Order{}).Where("order_number = ?", number).Count(&count)
		if count == 0 {
			return number
		}
	}
}

// GetMyOrders -> the caller's own orders, newest first.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetAllOrders -> admin listing with optional status filter.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := oc.DB.Preload("OrderItems").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> owner or admin.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("OrderItems").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	role, _ := c.Get("role")
	if order.UserID != userID && role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> admin advances an order one step along the fixed
// vocabulary. Out-of-order requests are state conflicts.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("order_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if req.Status == models.OrderCancelled {
		oc.cancel(c, &order)
		return
	}

	if forwardTransitions[order.Status] != req.Status {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("cannot move order from %s to %s", order.Status, req.Status))
		return
	}

	oc.advance(&order)
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// ScanOrder -> admin scans a delivery QR code; the order advances exactly
// one step.
func (oc *OrderController) ScanOrder(c *gin.Context) {
	code := c.Param("code")

	var order models.Order
	if err := oc.DB.Where("delivery_qr_code = ?", code).First(&order).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("no order for this code"))
		return
	}

	if _, ok := forwardTransitions[order.Status]; !ok {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order is %s and cannot advance", order.Status))
		return
	}

	oc.advance(&order)
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order scanned", order)
}

// advance moves the order to its next status and stamps the matching
// timestamp. Caller persists.
func (oc *OrderController) advance(order *models.Order) {
	now := time.Now()
	next := forwardTransitions[order.Status]

	switch next {
	case models.OrderProcessing:
		order.ReceivedAt = &now
	case models.OrderReady:
		order.ReadyAt = &now
		if order.PickupToken == nil {
			token := utils.NewPickupToken()
			order.PickupToken = &token
		}
	case models.OrderDelivered:
		order.DeliveredAt = &now
	}

	order.Status = next
	order.UpdatedAt = now
}

// CancelOrder -> customers may cancel their own pending orders, admins any
// non-terminal order.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	userID, _ := currentUserID(c)
	role, _ := c.Get("role")
	if role != "admin" {
		if order.UserID != userID {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
		if order.Status != models.OrderPending {
			utils.RespondError(c, http.StatusConflict,
				errors.New("only pending orders can be cancelled"))
			return
		}
	}

	oc.cancel(c, &order)
}

func (oc *OrderController) cancel(c *gin.Context, order *models.Order) {
	if order.IsTerminal() {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order is already %s", order.Status))
		return
	}

	order.Status = models.OrderCancelled
	order.UpdatedAt = time.Now()
	if err := oc.DB.Save(order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	live.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// RedeemPickupToken marks an order delivered via its pickup token. The
// whole check-and-set is one conditional UPDATE keyed by token and status,
// so a token can be redeemed at most once even under concurrent admins.
func (oc *OrderController) RedeemPickupToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	now := time.Now()
	res := oc.DB.Model(&models.Order{}).
		Where("pickup_token = ? AND status = ?", req.Token, models.OrderReady).
		Updates(map[string]interface{}{
			"status":       models.OrderDelivered,
			"delivered_at": now,
			"picked_up_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}

	if res.RowsAffected == 0 {
		var count int64
		oc.DB.Model(&models.Order{}).Where("pickup_token = ?", req.Token).Count(&count)
		if count == 0 {
			utils.RespondError(c, http.StatusNotFound, errors.New("token not found"))
		} else {
			utils.RespondError(c, http.StatusConflict, errors.New("order is not ready for pickup"))
		}
		return
	}

	var order models.Order
	oc.DB.Where("pickup_token = ?", req.Token).First(&order)

	utils.InfoLogger.Printf("Pickup token redeemed for order %s", order.OrderNumber)
	live.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order delivered", order)
}
