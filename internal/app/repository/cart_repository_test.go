package repository

import (
	"testing"
	"time"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Drink) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewCartRepository(testDB)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test drink
	drink := &model.Drink{
		Description: "Dark cocoa with oat milk",
		BasePrice:   580,
		UniqueID:    "000101000201",
	}
	testDB.Create(drink)

	return testDB, repo, user, drink
}

func TestCartRepository_CreateCart(t *testing.T) {
	testDB, repo, user, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}

	err := repo.CreateCart(cart)
	assert.NoError(t, err)
	assert.NotZero(t, cart.ID)
}

func TestCartRepository_FindCartByUserID(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	item := &model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 2, Price: drink.BasePrice}
	require.NoError(t, repo.CreateItem(item))

	found, err := repo.FindCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, drink.ID, found.Items[0].DrinkID)
	assert.NotNil(t, found.Items[0].Drink)
}

func TestCartRepository_FindCartByUserID_NotFound(t *testing.T) {
	testDB, repo, _, _ := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := repo.FindCartByUserID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_FindItemByCartAndDrink(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	item := &model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: drink.BasePrice}
	require.NoError(t, repo.CreateItem(item))

	found, err := repo.FindItemByCartAndDrink(cart.ID, drink.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, found.ID)

	_, err = repo.FindItemByCartAndDrink(cart.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_FindItemWithCart(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	item := &model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: drink.BasePrice}
	require.NoError(t, repo.CreateItem(item))

	foundItem, foundCart, err := repo.FindItemWithCart(item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, foundItem.ID)
	assert.Equal(t, user.ID, foundCart.UserID)
}

func TestCartRepository_UpdateItem(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	item := &model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: drink.BasePrice}
	require.NoError(t, repo.CreateItem(item))

	item.Quantity = 5
	require.NoError(t, repo.UpdateItem(item))

	found, err := repo.FindItemByCartAndDrink(cart.ID, drink.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartRepository_DeleteItem(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	item := &model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: drink.BasePrice}
	require.NoError(t, repo.CreateItem(item))

	require.NoError(t, repo.DeleteItem(item.ID))

	err := repo.DeleteItem(item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_DeleteItemsByCartID(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	drink2 := &model.Drink{Description: "Mint cocoa", BasePrice: 620, UniqueID: "000301000401"}
	testDB.Create(drink2)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))

	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: 580}))
	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, DrinkID: drink2.ID, Quantity: 2, Price: 620}))

	require.NoError(t, repo.DeleteItemsByCartID(cart.ID))

	found, err := repo.FindCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}

func TestCartRepository_DeleteCartsInactiveSince(t *testing.T) {
	testDB, repo, user, drink := setupCartTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, repo.CreateCart(cart))
	require.NoError(t, repo.CreateItem(&model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: 1, Price: 580}))

	// Backdate the cart past the cutoff
	old := time.Now().Add(-31 * 24 * time.Hour)
	require.NoError(t, testDB.Model(&model.Cart{}).Where("id = ?", cart.ID).Update("updated_at", old).Error)

	deleted, err := repo.DeleteCartsInactiveSince(time.Now().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindCartByUserID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
