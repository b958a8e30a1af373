package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/services"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type RelayController struct {
	DB *gorm.DB
}

func NewRelayController(db *gorm.DB) *RelayController {
	return &RelayController{DB: db}
}

// totalEpsilon is the largest allowed difference between the submitted
// total and the stored order total.
const totalEpsilon = 0.01

// RelayOrder re-validates a submitted order against its stored row before
// forwarding it to the workflow-automation webhook. Any mismatch aborts
// with no partial relay.
func (rc *RelayController) RelayOrder(c *gin.Context) {
	type relayItem struct {
		Name     string  `json:"name" binding:"required"`
		Quantity int     `json:"quantity" binding:"required,min=1"`
		Price    float64 `json:"price" binding:"required"`
	}
	var req struct {
		OrderID       uint        `json:"order_id" binding:"required"`
		OrderNumber   string      `json:"order_number" binding:"required"`
		Items         []relayItem `json:"items" binding:"required,min=1"`
		Total         float64     `json:"total" binding:"required"`
		PaymentMethod string      `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !utils.OrderNumberPattern.MatchString(req.OrderNumber) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order number must match LND followed by 8 digits"))
		return
	}

	var order models.Order
	if err := rc.DB.Preload("OrderItems").First(&order, req.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.OrderNumber != req.OrderNumber {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order number does not match the stored order"))
		return
	}

	userID, _ := currentUserID(c)
	role, _ := c.Get("role")
	if order.UserID != userID && role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var derived float64
	for _, item := range req.Items {
		derived += float64(item.Quantity) * item.Price
	}
	if math.Abs(derived-order.TotalAmount) > totalEpsilon ||
		math.Abs(req.Total-order.TotalAmount) > totalEpsilon {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("amount mismatch: submitted %.2f, stored %.2f", derived, order.TotalAmount))
		return
	}

	payload := gin.H{
		"event":          "order_submitted",
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
		"room_number":    order.RoomNumber,
		"items":          req.Items,
		"total":          order.TotalAmount,
		"payment_method": req.PaymentMethod,
	}
	if err := services.GetNotifier().RelayOrder(payload); err != nil {
		utils.ErrorLogger.Printf("Order %s relay failed: %v", order.OrderNumber, err)
		utils.RespondError(c, http.StatusBadGateway, fmt.Errorf("workflow relay failed: %w", err))
		return
	}

	utils.InfoLogger.Printf("Order %s relayed to workflow webhook", order.OrderNumber)
	utils.RespondJSON(c, http.StatusOK, "Order relayed", gin.H{
		"order_number": order.OrderNumber,
	})
}
