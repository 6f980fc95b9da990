package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gearstore/internal/handlers"
	"gearstore/internal/middleware"
	"gearstore/internal/models"
	"gearstore/internal/repositories"
	"gearstore/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds the full Fiber app over a named in-memory SQLite
// database, wired exactly like main. Each test gets its own database.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService, error) {
	t.Helper()

	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.GearItem{},
		&models.User{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	gearRepo := repositories.NewGORMGearRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	catalogService := services.NewCatalogService(gearRepo)
	cartService := services.NewCartService(cartRepo, gearRepo, orderRepo, nil) // nil broker
	orderService := services.NewOrderService(orderRepo)
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo)

	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(catalogService, userService)

	app := fiber.New()
	api := app.Group("/api/v1")
	authHandler.RegisterRoutes(api)
	catalogHandler.RegisterRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProfileRoutes(protected)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	admin := protected.Group("", middleware.AdminRequired())
	adminHandler.RegisterRoutes(admin)

	if err := seedForTest(gearRepo, userRepo); err != nil {
		return nil, nil, err
	}
	return app, authService, nil
}

// seedForTest populates the catalog and an admin account.
func seedForTest(gearRepo repositories.GearRepository, userRepo repositories.UserRepository) error {
	items := []models.GearItem{
		{ID: "11111111-1111-1111-1111-111111111111", Name: "Shure SM58", Category: models.CategoryMicrophone, Brand: "Shure", Price: 100.00, InStock: true},
		{ID: "22222222-2222-2222-2222-222222222222", Name: "Sony MDR-7506", Category: models.CategoryHeadphones, Brand: "Sony", Price: 50.00, InStock: true},
		{ID: "33333333-3333-3333-3333-333333333333", Name: "Focusrite Scarlett 2i2", Category: models.CategoryInterface, Brand: "Focusrite", Price: 199.99, InStock: false},
	}
	for i := range items {
		if err := gearRepo.Create(&items[i]); err != nil {
			return fmt.Errorf("failed to seed gear item %s: %w", items[i].Name, err)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		ID:       uuid.New().String(),
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hashed),
		IsAdmin:  true,
	}
	return userRepo.Create(&admin)
}

// registerAndLogin creates a fresh user through the API and returns a
// bearer token for it.
func registerAndLogin(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return login(t, app, username, password)
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()
	assert.NotEmpty(t, loginResp["token"])
	return loginResp["token"]
}

// doJSON issues a request with an optional bearer token and JSON body and
// decodes the JSON response into out (when out is non-nil).
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	if out != nil {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	resp.Body.Close()
	return resp
}

// TestMain runs setup and teardown for all tests.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, authService, err := setupApp(t)
	assert.NoError(t, err)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	var registerResp map[string]interface{}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister, &registerResp)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Self-registration never yields an admin account.
	user, ok := registerResp["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, false, user["is_admin"])

	// Duplicate username is rejected.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/register", "", userToRegister, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	token := login(t, app, "testuser", "password123")
	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, false, claims["is_admin"])
	assert.Contains(t, claims, "user_id")

	// Wrong password never yields a token.
	body, _ := json.Marshal(map[string]string{"username": "testuser", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	loginResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, loginResp.StatusCode)
	loginResp.Body.Close()

	// /me returns the profile without the password hash.
	var me models.User
	resp = doJSON(t, app, http.MethodGet, "/api/v1/me", token, nil, &me)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "testuser", me.Username)
	assert.Empty(t, me.Password)
}

func TestCatalogBrowsingIsPublic(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	var categories []string
	resp := doJSON(t, app, http.MethodGet, "/api/v1/categories", "", nil, &categories)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.ElementsMatch(t, []string{"microphone", "headphones", "interface"}, categories)

	var page models.PagedGear
	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear", "", nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), page.Total)

	// Category filter.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear?category=microphone", "", nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "Shure SM58", page.Items[0].Name)

	// Search plus price sort.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear?q=s&sort=price_asc", "", nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, "Sony MDR-7506", page.Items[0].Name)

	// Single item lookup, and a miss.
	var item models.GearItem
	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear/11111111-1111-1111-1111-111111111111", "", nil, &item)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Shure SM58", item.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear/99999999-9999-9999-9999-999999999999", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// cartEnvelope mirrors the cart endpoints' response body.
type cartEnvelope struct {
	Items []struct {
		LineID     string          `json:"id"`
		GearItemID string          `json:"gear_item_id"`
		Quantity   int             `json:"quantity"`
		Gear       models.GearItem `json:"gear_item"`
	} `json:"items"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
	Report *struct {
		Merged   int `json:"merged"`
		Failures []struct {
			GearItemID string `json:"gear_item_id"`
			Quantity   int    `json:"quantity"`
			Reason     string `json:"reason"`
		} `json:"failures"`
	} `json:"report"`
}

func TestCartLifecycle(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "shopper", "shopper@example.com", "password123")

	// Adding the same item twice merges into one line.
	var envelope cartEnvelope
	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "11111111-1111-1111-1111-111111111111", "quantity": 2}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "11111111-1111-1111-1111-111111111111"}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, envelope.Items, 1)
	assert.Equal(t, 3, envelope.Items[0].Quantity)
	assert.Equal(t, 300.00, envelope.Total)
	assert.Equal(t, 3, envelope.Count)

	// Unknown item and bad quantity are definitive rejections.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "99999999-9999-9999-9999-999999999999"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "11111111-1111-1111-1111-111111111111", "quantity": -1}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Quantity update, then removal via a zero quantity.
	lineID := envelope.Items[0].LineID
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/cart/"+lineID, token,
		map[string]interface{}{"quantity": 1}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, envelope.Items[0].Quantity)
	assert.Equal(t, 100.00, envelope.Total)

	resp = doJSON(t, app, http.MethodPatch, "/api/v1/cart/"+lineID, token,
		map[string]interface{}{"quantity": 0}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope.Items)
	assert.Equal(t, 0.00, envelope.Total)

	// DELETE on a line, then a full clear.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "22222222-2222-2222-2222-222222222222"}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/cart/"+envelope.Items[0].LineID, token, nil, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope.Items)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/cart/does-not-exist", token, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/cart", token, nil, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, envelope.Count)
}

func TestAnonymousCartMergeAndCheckout(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)
	token := registerAndLogin(t, app, "returning", "returning@example.com", "password123")

	// The user already had one unit of the microphone server-side.
	var envelope cartEnvelope
	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart", token,
		map[string]interface{}{"gear_item_id": "11111111-1111-1111-1111-111111111111", "quantity": 1}, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// On login the client pushes its anonymous cart: two more microphones,
	// one pair of headphones, and one item that no longer exists.
	mergePayload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"gear_item_id": "11111111-1111-1111-1111-111111111111", "quantity": 2},
			{"gear_item_id": "22222222-2222-2222-2222-222222222222", "quantity": 1},
			{"gear_item_id": "99999999-9999-9999-9999-999999999999", "quantity": 4},
		},
	}
	resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/merge", token, mergePayload, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, envelope.Report)
	assert.Equal(t, 2, envelope.Report.Merged)
	assert.Len(t, envelope.Report.Failures, 1)
	assert.Equal(t, "99999999-9999-9999-9999-999999999999", envelope.Report.Failures[0].GearItemID)

	// Quantities merged: 1 + 2 microphones, 1 headphones. 3x100 + 1x50.
	assert.Len(t, envelope.Items, 2)
	assert.Equal(t, 3, envelope.Items[0].Quantity)
	assert.Equal(t, 350.00, envelope.Total)
	assert.Equal(t, 4, envelope.Count)

	// Checkout converts the cart into an immutable order.
	var order models.Order
	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, nil, &order)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, order.ID)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 350.00, order.TotalAmount)

	// The cart is empty afterwards and a second checkout fails.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/cart", token, nil, &envelope)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, envelope.Items)
	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", token, nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The order is retrievable by its owner with captured prices.
	var orders []models.Order
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders", token, nil, &orders)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, orders, 1)

	var fetched models.Order
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, token, nil, &fetched)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, 100.00, fetched.Items[0].Price)

	// Another user cannot see it.
	otherToken := registerAndLogin(t, app, "stranger", "stranger@example.com", "password123")
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID, otherToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart"},
		{http.MethodPost, "/api/v1/cart/merge"},
		{http.MethodPost, "/api/v1/checkout"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/me"},
	} {
		resp := doJSON(t, app, route.method, route.path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestAdminGearManagement(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)
	adminToken := login(t, app, "admin", "adminpassword")
	userToken := registerAndLogin(t, app, "pleb", "pleb@example.com", "password123")

	// A regular user is forbidden from catalog management.
	newItem := map[string]interface{}{
		"name":     "AKG C414",
		"category": "microphone",
		"brand":    "AKG",
		"price":    1099.00,
		"in_stock": true,
	}
	resp := doJSON(t, app, http.MethodPost, "/api/v1/gear", userToken, newItem, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin creates, edits and deletes a gear item.
	var created models.GearItem
	resp = doJSON(t, app, http.MethodPost, "/api/v1/gear", adminToken, newItem, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)

	// Validation rejects an unknown category.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/gear", adminToken,
		map[string]interface{}{"name": "Mystery Box", "category": "widget", "brand": "Acme", "price": 1.00}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var updated models.GearItem
	resp = doJSON(t, app, http.MethodPatch, "/api/v1/gear/"+created.ID, adminToken,
		map[string]interface{}{"price": 999.00, "in_stock": false}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 999.00, updated.Price)
	assert.False(t, updated.InStock)
	assert.Equal(t, "AKG C414", updated.Name) // untouched fields survive

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/gear/"+created.ID, adminToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/v1/gear/"+created.ID, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Admin gear listing is reachable; the shopper's is not.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/gear", adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/gear", userToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminUserManagement(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)
	adminToken := login(t, app, "admin", "adminpassword")
	registerAndLogin(t, app, "doomed", "doomed@example.com", "password123")

	var page models.PagedUsers
	resp := doJSON(t, app, http.MethodGet, "/api/v1/admin/users", adminToken, nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), page.Total)
	// Admins sort first, and no password hash leaks.
	assert.Equal(t, "admin", page.Items[0].Username)
	for _, u := range page.Items {
		assert.Empty(t, u.Password)
	}

	var doomedID string
	for _, u := range page.Items {
		if u.Username == "doomed" {
			doomedID = u.ID
		}
	}
	assert.NotEmpty(t, doomedID)

	resp = doJSON(t, app, http.MethodDelete, "/api/v1/admin/users/"+doomedID, adminToken, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The root admin cannot delete itself.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/admin/users/"+page.Items[0].ID, adminToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/v1/admin/users", adminToken, nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), page.Total)
}
