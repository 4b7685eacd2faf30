package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ecothreads/internal/adapters/persistence/models"
	"ecothreads/internal/adapters/persistence/repositories"
	"ecothreads/internal/core/domain"
)

// newTestDB opens a fresh in-memory database per test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// newTestServices wires the service stack over one database
func newTestServices(db *gorm.DB) (*ItemService, *PointsService, *ExchangeService, *DonationService) {
	itemService := NewItemService(repositories.NewItemRepository(db))
	pointsService := NewPointsService(db, repositories.NewPointTransactionRepository(db))
	exchangeService := NewExchangeService(db, repositories.NewExchangeRepository(db), itemService, pointsService)
	donationService := NewDonationService(db, repositories.NewDonationRepository(db), itemService, pointsService)
	return itemService, pointsService, exchangeService, donationService
}

func createTestUser(t *testing.T, db *gorm.DB, name string, points int) *models.User {
	t.Helper()
	user := &models.User{
		Name:      name,
		Email:     fmt.Sprintf("%s@test.local", name),
		Password:  "hashed",
		EcoPoints: points,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestItem(t *testing.T, db *gorm.DB, ownerID uint, title string, cost *int) *models.ClothingItem {
	t.Helper()
	item := &models.ClothingItem{
		UserID:        ownerID,
		Title:         title,
		Category:      "Shirts",
		ItemCondition: "Good",
		Cost:          cost,
		ItemStatus:    domain.ItemAvailable,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func intp(v int) *int { return &v }

// reloadBalance reads a user's stored balance
func reloadBalance(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	return user.EcoPoints
}

// ledgerSum computes Earn minus Spend for a user from the ledger
func ledgerSum(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var txs []models.PointTransaction
	require.NoError(t, db.Where("user_id = ?", userID).Find(&txs).Error)

	sum := 0
	for _, tx := range txs {
		switch tx.TransactionType {
		case domain.TxEarn:
			sum += tx.Points
		case domain.TxSpend:
			sum -= tx.Points
		}
	}
	return sum
}

func itemStatus(t *testing.T, db *gorm.DB, itemID uint) domain.ItemStatus {
	t.Helper()
	var item models.ClothingItem
	require.NoError(t, db.First(&item, itemID).Error)
	return item.ItemStatus
}
