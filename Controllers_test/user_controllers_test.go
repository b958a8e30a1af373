package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Rish3666/uni-laundry-sync-sub000/controllers"
	"github.com/Rish3666/uni-laundry-sync-sub000/models"
	"github.com/Rish3666/uni-laundry-sync-sub000/utils"
)

func setupTestDBForUsers(t *testing.T, name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Profile{}, &models.UserRole{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/signup", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signupPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Asha Rao",
		"email":       "asha@example.com",
		"password":    "washware1",
		"phone":       "9876543210",
		"student_id":  "S-1042",
		"room_number": "B-214",
		"gender":      "female",
	}
}

func TestSignupPasswordLength(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "users_pw")
	router := setupUserRouter(db)

	payload := signupPayload()
	payload["password"] = "short77" // 7 chars
	w := postJSON(t, router, "/signup", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload["password"] = "exactly8" // 8 chars
	w = postJSON(t, router, "/signup", payload)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSignupPhoneValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "users_phone")
	router := setupUserRouter(db)

	payload := signupPayload()
	payload["phone"] = "12345"
	w := postJSON(t, router, "/signup", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload["phone"] = "9876543210"
	w = postJSON(t, router, "/signup", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	var profile models.Profile
	assert.NoError(t, db.Where("email = ?", "asha@example.com").First(&profile).Error)
	assert.Equal(t, "9876543210", profile.Phone)
	assert.Equal(t, "female", profile.Gender)
}

func TestSignupDuplicateEmail(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "users_dup")
	router := setupUserRouter(db)

	w := postJSON(t, router, "/signup", signupPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/signup", signupPayload())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginResolvesRole(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "users_login")
	router := setupUserRouter(db)

	w := postJSON(t, router, "/signup", signupPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	login := map[string]interface{}{
		"email":    "asha@example.com",
		"password": "washware1",
	}
	w = postJSON(t, router, "/login", login)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "customer", data["user_role"])
	assert.NotEmpty(t, data["token"])

	// Promote and login again, role must flip to admin.
	var user models.User
	assert.NoError(t, db.Where("email = ?", "asha@example.com").First(&user).Error)
	db.Create(&models.UserRole{UserID: user.ID, Role: models.RoleAdmin})

	w = postJSON(t, router, "/login", login)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data = resp["data"].(map[string]interface{})
	assert.Equal(t, "admin", data["user_role"])

	// Wrong password stays rejected.
	login["password"] = "wrongpass"
	w = postJSON(t, router, "/login", login)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
