package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"testing"

	"gearstore/internal/models"
	"gearstore/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// Suppress seed logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestDatabase(t *testing.T) (repositories.UserRepository, repositories.GearRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := openDatabase("sqlite", dsn)
	assert.NoError(t, err)
	err = db.AutoMigrate(&models.User{}, &models.GearItem{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{})
	assert.NoError(t, err)
	return repositories.NewGORMUserRepository(db), repositories.NewGORMGearRepository(db)
}

func TestOpenDatabaseUnknownDriverFallsBackToSQLite(t *testing.T) {
	db, err := openDatabase("not-a-driver", "file:fallback?mode=memory&cache=shared")
	assert.NoError(t, err)
	assert.NotNil(t, db)
}

func TestSeedDatabase(t *testing.T) {
	userRepo, gearRepo := newTestDatabase(t)

	seedDatabase(userRepo, gearRepo)

	admin, err := userRepo.GetByUsername("admin")
	assert.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("admin")))

	items, total, err := gearRepo.List(repositories.GearQuery{Limit: 100})
	assert.NoError(t, err)
	assert.Equal(t, int64(14), total)

	// Every seeded item belongs to a known category.
	valid := models.Categories()
	for _, item := range items {
		assert.Contains(t, valid, item.Category)
	}
}

func TestSeedDatabaseIsIdempotent(t *testing.T) {
	userRepo, gearRepo := newTestDatabase(t)

	seedDatabase(userRepo, gearRepo)
	seedDatabase(userRepo, gearRepo)

	_, total, err := gearRepo.List(repositories.GearQuery{Limit: 100})
	assert.NoError(t, err)
	assert.Equal(t, int64(14), total)

	users, userTotal, err := userRepo.List(repositories.UserQuery{Limit: 100})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), userTotal)
	assert.Equal(t, "admin", users[0].Username)
}
