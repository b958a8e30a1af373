package Controllers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/controllers"
	"github.com/Rish3666/uni-laundry-sync-sub000/services"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

func setupRelayRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "customer")
		c.Next()
	})
	orderCtrl := controllers.NewOrderController(db)
	relayCtrl := controllers.NewRelayController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.POST("/orders/:order_id/relay", relayCtrl.RelayOrder)
	return router
}

func TestRelayRejectsAmountMismatchBeforeCalling(t *testing.T) {
	utils.InitLogger()

	var calls int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	services.ResetNotifierForTest()
	os.Setenv("ORDER_WEBHOOK_URL", webhook.URL)
	defer func() {
		os.Unsetenv("ORDER_WEBHOOK_URL")
		services.ResetNotifierForTest()
	}()

	db := setupTestDBForOrders(t, "relay_mismatch")
	router := setupRelayRouter(db, 1)
	order := createTestOrder(t, router) // stored total is 20.00

	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items": []map[string]interface{}{
			{"name": "T-Shirt", "quantity": 2, "price": 12.0}, // derives 24.00
		},
		"total":          24.0,
		"payment_method": "cash",
	}
	w := postJSON(t, router, "/orders/1/relay", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "mismatch must abort before any relay call")
}

func TestRelayForwardsValidOrder(t *testing.T) {
	utils.InitLogger()

	var calls int32
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	services.ResetNotifierForTest()
	os.Setenv("ORDER_WEBHOOK_URL", webhook.URL)
	defer func() {
		os.Unsetenv("ORDER_WEBHOOK_URL")
		services.ResetNotifierForTest()
	}()

	db := setupTestDBForOrders(t, "relay_ok")
	router := setupRelayRouter(db, 1)
	order := createTestOrder(t, router)

	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items": []map[string]interface{}{
			{"name": "T-Shirt", "quantity": 2, "price": 10.0},
		},
		"total":          20.0,
		"payment_method": "cash",
	}
	w := postJSON(t, router, "/orders/1/relay", payload)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRelayRejectsMalformedOrderNumber(t *testing.T) {
	utils.InitLogger()

	db := setupTestDBForOrders(t, "relay_badnumber")
	router := setupRelayRouter(db, 1)
	order := createTestOrder(t, router)

	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": "LND123", // too short
		"items": []map[string]interface{}{
			{"name": "T-Shirt", "quantity": 2, "price": 10.0},
		},
		"total": 20.0,
	}
	w := postJSON(t, router, "/orders/1/relay", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelayRejectsForeignOrder(t *testing.T) {
	utils.InitLogger()

	db := setupTestDBForOrders(t, "relay_foreign")
	owner := setupRelayRouter(db, 1)
	order := createTestOrder(t, owner)

	// A different customer must not be able to relay this order.
	intruder := setupRelayRouter(db, 2)
	payload := map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"items": []map[string]interface{}{
			{"name": "T-Shirt", "quantity": 2, "price": 10.0},
		},
		"total": 20.0,
	}
	w := postJSON(t, intruder, "/orders/1/relay", payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
