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

func setupDrinkServiceTest(t *testing.T) (*gorm.DB, DrinkService, *model.User, []model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	drinkRepo := repository.NewDrinkRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	svc := NewDrinkService(drinkRepo, productRepo, testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	products := []model.Product{
		{Name: "Dark Cocoa", Price: 300, Category: model.CategoryBase},
		{Name: "Oat Milk", Price: 120, Category: model.CategoryMilk},
		{Name: "Caramel Syrup", Price: 80, Category: model.CategorySyrup},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	return testDB, svc, user, products
}

func TestDrinkService_ResolveOrCreateDrink(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{
		{ProductID: products[1].ID, Quantity: 1},
		{ProductID: products[0].ID, Quantity: 2},
	}

	userDrink, err := svc.ResolveOrCreateDrink(user.ID, "My cocoa", entries, "Extra dark", 0, "")
	require.NoError(t, err)
	require.NotNil(t, userDrink.Drink)

	assert.Equal(t, "My cocoa", userDrink.Name)
	assert.Equal(t, user.ID, userDrink.UserID)

	// Price comes from the ingredients
	assert.Equal(t, 2*300.0+120.0, userDrink.Drink.BasePrice)
	assert.Len(t, userDrink.Drink.DrinkProducts, 2)

	// Composition rows are sorted by product ID in the identifier
	normalized, err := model.NormalizeComposition(entries)
	require.NoError(t, err)
	assert.Equal(t, model.CompositionUniqueID(normalized), userDrink.Drink.UniqueID)
}

func TestDrinkService_ResolveOrCreateDrink_ReusesExistingDrink(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other", Role: model.RoleUser}
	require.NoError(t, testDB.Create(other).Error)

	entries := []model.CompositionEntry{
		{ProductID: products[0].ID, Quantity: 1},
		{ProductID: products[2].ID, Quantity: 2},
	}

	first, err := svc.ResolveOrCreateDrink(user.ID, "Mine", entries, "", 0, "")
	require.NoError(t, err)

	// Same composition in a different order resolves to the same drink
	reversed := []model.CompositionEntry{
		{ProductID: products[2].ID, Quantity: 2},
		{ProductID: products[0].ID, Quantity: 1},
	}
	second, err := svc.ResolveOrCreateDrink(other.ID, "Yours", reversed, "", 0, "")
	require.NoError(t, err)

	assert.Equal(t, first.DrinkID, second.DrinkID)

	var drinkCount int64
	testDB.Model(&model.Drink{}).Count(&drinkCount)
	assert.Equal(t, int64(1), drinkCount)
}

func TestDrinkService_ResolveOrCreateDrink_RepeatedSaveKeepsFirstName(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{{ProductID: products[0].ID, Quantity: 1}}

	first, err := svc.ResolveOrCreateDrink(user.ID, "First", entries, "", 0, "")
	require.NoError(t, err)

	// Saving the same composition again succeeds and keeps the first name
	second, err := svc.ResolveOrCreateDrink(user.ID, "Second", entries, "", 0, "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "First", second.Name)

	var udCount int64
	testDB.Model(&model.UserDrink{}).Where("user_id = ?", user.ID).Count(&udCount)
	assert.Equal(t, int64(1), udCount)
}

func TestDrinkService_ResolveOrCreateDrink_SuppliedBasePrice(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{{ProductID: products[0].ID, Quantity: 2}}

	userDrink, err := svc.ResolveOrCreateDrink(user.ID, "Priced", entries, "", 777, "")
	require.NoError(t, err)
	require.NotNil(t, userDrink.Drink)

	// A supplied base price overrides the ingredient-derived sum
	assert.Equal(t, 777.0, userDrink.Drink.BasePrice)
}

func TestDrinkService_ResolveOrCreateDrink_UnknownProduct(t *testing.T) {
	testDB, svc, user, _ := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.ResolveOrCreateDrink(user.ID, "Ghost", []model.CompositionEntry{{ProductID: 9999, Quantity: 1}}, "", 0, "")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestDrinkService_ResolveOrCreateDrink_EmptyComposition(t *testing.T) {
	testDB, svc, user, _ := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.ResolveOrCreateDrink(user.ID, "Nothing", nil, "", 0, "")
	assert.ErrorIs(t, err, model.ErrEmptyComposition)
}

func TestDrinkService_CreateAdminDrink(t *testing.T) {
	testDB, svc, _, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{
		{ProductID: products[0].ID, Quantity: 1},
		{ProductID: products[1].ID, Quantity: 1},
	}

	drink, err := svc.CreateAdminDrink(entries, "House classic", 500, "")
	require.NoError(t, err)
	assert.Equal(t, 500.0, drink.BasePrice)

	// The admin flow rejects duplicates instead of reusing them
	_, err = svc.CreateAdminDrink(entries, "House classic again", 600, "")
	assert.ErrorIs(t, err, ErrDrinkCompositionExists)
}

func TestDrinkService_DeleteDrink(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{{ProductID: products[0].ID, Quantity: 1}}
	userDrink, err := svc.ResolveOrCreateDrink(user.ID, "Doomed", entries, "", 0, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDrink(userDrink.DrinkID))

	_, err = svc.GetDrinkByID(userDrink.DrinkID)
	assert.ErrorIs(t, err, ErrDrinkNotFound)

	var udCount int64
	testDB.Model(&model.UserDrink{}).Where("drink_id = ?", userDrink.DrinkID).Count(&udCount)
	assert.Zero(t, udCount)
}

func TestDrinkService_DeleteDrink_BlockedByOrders(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{{ProductID: products[1].ID, Quantity: 1}}
	userDrink, err := svc.ResolveOrCreateDrink(user.ID, "Ordered", entries, "", 0, "")
	require.NoError(t, err)

	address := &model.Address{UserID: user.ID, Recipient: "Test", Phone: "09011112222", ZipCode: "1500001", Address: "Tokyo"}
	require.NoError(t, testDB.Create(address).Error)
	order := &model.Order{UserID: user.ID, AddressID: address.ID, Status: model.OrderStatusPending, PaymentMethod: model.PaymentMethodCard, TotalAmount: 120}
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{OrderID: order.ID, DrinkID: userDrink.DrinkID, Quantity: 1, Price: 120}).Error)

	err = svc.DeleteDrink(userDrink.DrinkID)
	assert.ErrorIs(t, err, ErrDrinkHasOrders)

	// The drink survives for order history
	_, err = svc.GetDrinkByID(userDrink.DrinkID)
	assert.NoError(t, err)
}

func TestDrinkService_DeleteUserDrink(t *testing.T) {
	testDB, svc, user, products := setupDrinkServiceTest(t)
	defer db.CleanupTestDB(testDB)

	entries := []model.CompositionEntry{{ProductID: products[2].ID, Quantity: 1}}
	userDrink, err := svc.ResolveOrCreateDrink(user.ID, "Removable", entries, "", 0, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUserDrink(user.ID, userDrink.DrinkID))

	err = svc.DeleteUserDrink(user.ID, userDrink.DrinkID)
	assert.ErrorIs(t, err, ErrUserDrinkNotFound)

	// The shared drink itself is untouched
	_, err = svc.GetDrinkByID(userDrink.DrinkID)
	assert.NoError(t, err)
}
