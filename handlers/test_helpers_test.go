package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"storefront-backend/cache"
	"storefront-backend/logger"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/services"
	"storefront-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key-for-unit-tests")
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		utils.UseJSONFieldNames(v)
	}

	os.Exit(m.Run())
}

func seedTestUser(t *testing.T, db *gorm.DB, email string) (models.User, string) {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Name:     "Test User",
		Role:     "customer",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	authHandler := &AuthHandler{DB: db, Log: logger.Nop()}

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/auth/profile", authHandler.GetProfile)

	return r
}

func setupCartRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	svc := services.NewCartService(repository.NewStore(db), cache.NewNoop(), logger.Nop())
	cartHandler := &CartHandler{Service: svc}

	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/cart", cartHandler.GetCart)
	protected.POST("/cart", cartHandler.AddToCart)
	protected.PATCH("/cart", cartHandler.UpdateCartItem)
	protected.DELETE("/cart", cartHandler.RemoveFromCart)

	return r
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

func responseItems(t *testing.T, resp map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := resp["items"].([]interface{})
	if !ok {
		t.Fatalf("expected items array, got %v", resp["items"])
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, it := range raw {
		items = append(items, it.(map[string]interface{}))
	}
	return items
}
