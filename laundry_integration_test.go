package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/database"
	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/router"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndLaundryFlow walks the main path:
// 1. signup + login as customer
// 2. self-promote with the admin passphrase, login as admin
// 3. customer places an order against the seeded catalog
// 4. admin marks the batch complete -> order ready with pickup token
// 5. admin redeems the pickup token -> order delivered
func TestEndToEndLaundryFlow(t *testing.T) {
	os.Setenv("ADMIN_PASSPHRASE", "integration-secret")
	defer os.Unsetenv("ADMIN_PASSPHRASE")

	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	// 1. Customer signs up and logs in.
	resp := do(t, r, "POST", "/signup", "", map[string]interface{}{
		"name":        "Ravi Kumar",
		"email":       "ravi@example.com",
		"password":    "laundry-pass",
		"phone":       "9876543210",
		"student_id":  "S-2001",
		"room_number": "A-101",
		"gender":      "male",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", resp.Code, resp.Body.String())
	}
	customerToken := login(t, r, "ravi@example.com", "laundry-pass")

	// 2. Admin account promoted via the passphrase gate.
	seedUser(t, db, "admin@example.com", "admin-pass-1")
	adminToken := login(t, r, "admin@example.com", "admin-pass-1")

	var adminUser models.User
	if err := db.Where("email = ?", "admin@example.com").First(&adminUser).Error; err != nil {
		t.Fatalf("admin user missing: %v", err)
	}
	resp = do(t, r, "POST", "/grant-admin", adminToken, map[string]interface{}{
		"user_id":    adminUser.ID,
		"passphrase": "integration-secret",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("grant-admin failed: %d %s", resp.Code, resp.Body.String())
	}
	// Re-login so the token carries the admin role.
	adminToken = login(t, r, "admin@example.com", "admin-pass-1")

	// 3. Customer places an order.
	var price models.ItemPrice
	if err := db.First(&price).Error; err != nil {
		t.Fatalf("seeded price missing: %v", err)
	}
	resp = do(t, r, "POST", "/orders", customerToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"item_id": price.ItemID, "service_type_id": price.ServiceTypeID, "quantity": 3},
		},
		"payment_method": "cash",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("order creation failed: %d %s", resp.Code, resp.Body.String())
	}
	var orderResp struct {
		Data models.Order `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &orderResp); err != nil {
		t.Fatalf("bad order response: %v", err)
	}
	order := orderResp.Data
	if order.Status != models.OrderPending {
		t.Fatalf("new order should be pending, got %s", order.Status)
	}

	// A customer token must not reach admin routes.
	resp = do(t, r, "GET", "/admin/orders", customerToken, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer reached admin route: %d", resp.Code)
	}

	// 4. Admin marks the whole batch complete.
	resp = do(t, r, "POST", "/admin/batches/complete", adminToken, map[string]interface{}{
		"batch_number": order.BatchNumber,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("mark batch complete failed: %d %s", resp.Code, resp.Body.String())
	}

	var ready models.Order
	db.First(&ready, order.ID)
	if ready.Status != models.OrderReady || ready.BatchStatus != models.BatchCompleted {
		t.Fatalf("order not ready after batch completion: %s/%s", ready.Status, ready.BatchStatus)
	}
	if ready.ReadyAt == nil || ready.PickupToken == nil {
		t.Fatal("batch completion must stamp ready_at and issue a pickup token")
	}

	// 5. Token redemption delivers the order, exactly once.
	resp = do(t, r, "POST", "/admin/pickup/redeem", adminToken, map[string]interface{}{
		"token": *ready.PickupToken,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("redeem failed: %d %s", resp.Code, resp.Body.String())
	}
	resp = do(t, r, "POST", "/admin/pickup/redeem", adminToken, map[string]interface{}{
		"token": *ready.PickupToken,
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("second redemption must conflict, got %d", resp.Code)
	}

	var delivered models.Order
	db.First(&delivered, order.ID)
	if delivered.Status != models.OrderDelivered {
		t.Fatalf("order should be delivered, got %s", delivered.Status)
	}
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.Category{},
		&models.Item{},
		&models.ServiceType{},
		&models.ItemPrice{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	if err := database.Seed(db); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Name: "Ops Admin", Email: email, Password: string(hashed)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	profile := models.Profile{
		UserID: user.ID, Name: "Ops Admin", Phone: "9000000000",
		Email: email, Gender: models.GenderMale,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	resp := do(t, r, "POST", "/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login failed for %s: %d %s", email, resp.Code, resp.Body.String())
	}
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad login response: %v", err)
	}
	return body.Data.Token
}

func do(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
