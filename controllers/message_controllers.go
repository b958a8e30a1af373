package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/services"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

type MessageController struct {
	DB *gorm.DB
}

func NewMessageController(db *gorm.DB) *MessageController {
	return &MessageController{DB: db}
}

// SendCustomerMessage stores a notification row and emails the customer.
// The email leg is best-effort; the request succeeds once the row exists.
func (mc *MessageController) SendCustomerMessage(c *gin.Context) {
	var req struct {
		UserID  *uint  `json:"user_id"`
		Email   string `json:"email" binding:"required,email"`
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Message from campus laundry"
	}

	notif := models.Notification{
		UserID:  req.UserID,
		Title:   &subject,
		Message: req.Message,
	}
	if err := mc.DB.Create(&notif).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	go func(to, subject, body string) {
		if err := services.GetMailer().Send(to, subject, body); err != nil {
			utils.ErrorLogger.Printf("Customer email to %s failed: %v", to, err)
		}
	}(req.Email, subject, req.Message)

	utils.RespondJSON(c, http.StatusCreated, "Message sent", notif)
}

// GetAllNotifications -> admin listing.
func (mc *MessageController) GetAllNotifications(c *gin.Context) {
	var notifs []models.Notification
	if err := mc.DB.Order("created_at desc").Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications", notifs)
}

// DeleteNotification
func (mc *MessageController) DeleteNotification(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("notif_id"))

	if err := mc.DB.Delete(&models.Notification{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification deleted", gin.H{"notif_id": id})
}
