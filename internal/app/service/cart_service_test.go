package service

import (
	"testing"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*gorm.DB, CartService, *model.User, *model.Drink) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	drinkRepo := repository.NewDrinkRepository(testDB)
	svc := NewCartService(cartRepo, drinkRepo)

	user := &model.User{Email: "test@example.com", PasswordHash: "hash", Name: "Test User", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)

	drink := &model.Drink{Description: "Hazelnut cocoa", BasePrice: 560, UniqueID: "000701"}
	require.NoError(t, testDB.Create(drink).Error)

	return testDB, svc, user, drink
}

func TestCartService_GetCart_NoCartYet(t *testing.T) {
	testDB, svc, user, _ := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// No cart row was created by the read
	var count int64
	testDB.Model(&model.Cart{}).Count(&count)
	assert.Zero(t, count)
}

func TestCartService_AddToCart(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := svc.AddToCart(user.ID, drink.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, item.Quantity)
	// Price is captured from the drink at add time
	assert.Equal(t, drink.BasePrice, item.Price)

	// The cart was created lazily
	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Len(t, cart.Items, 1)
}

func TestCartService_AddToCart_KeepsCapturedPrice(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := svc.AddToCart(user.ID, drink.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 560.0, item.Price)

	// The drink gets more expensive after the item is in the cart
	require.NoError(t, testDB.Model(&model.Drink{}).Where("id = ?", drink.ID).Update("base_price", 700).Error)

	updated, err := svc.AddToCart(user.ID, drink.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Quantity)
	assert.Equal(t, 560.0, updated.Price)
}

func TestCartService_AddToCart_IncrementsExisting(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	first, err := svc.AddToCart(user.ID, drink.ID, 1)
	require.NoError(t, err)

	second, err := svc.AddToCart(user.ID, drink.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)
}

func TestCartService_AddToCart_UnknownDrink(t *testing.T) {
	testDB, svc, user, _ := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrDrinkNotFound)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := svc.AddToCart(user.ID, drink.ID, 1)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(user.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateQuantity(user.ID, item.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(user.ID, 9999, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateQuantity_ForeignItem(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger", Role: model.RoleUser}
	require.NoError(t, testDB.Create(stranger).Error)

	item, err := svc.AddToCart(stranger.ID, drink.ID, 1)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(user.ID, item.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotOwned)
}

func TestCartService_RemoveItem(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	item, err := svc.AddToCart(user.ID, drink.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(user.ID, item.ID))

	err = svc.RemoveItem(user.ID, item.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	testDB, svc, user, drink := setupCartServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.AddToCart(user.ID, drink.ID, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(user.ID))

	cart, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Clearing a user without a cart is a no-op
	assert.NoError(t, svc.ClearCart(9999))
}
