package repository

import (
	"testing"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDrinkTest(t *testing.T) (*gorm.DB, DrinkRepository, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewDrinkRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	return testDB, repo, user
}

func createTestDrink(t *testing.T, testDB *gorm.DB, uniqueID string) *model.Drink {
	t.Helper()

	drink := &model.Drink{
		Description: "Custom cocoa",
		BasePrice:   550,
		UniqueID:    uniqueID,
	}
	require.NoError(t, testDB.Create(drink).Error)
	return drink
}

func TestDrinkRepository_FindByUniqueID(t *testing.T) {
	testDB, repo, _ := setupDrinkTest(t)
	defer db.CleanupTestDB(testDB)

	drink := createTestDrink(t, testDB, "000501001202")

	found, err := repo.FindByUniqueID("000501001202")
	require.NoError(t, err)
	assert.Equal(t, drink.ID, found.ID)

	_, err = repo.FindByUniqueID("999901")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDrinkRepository_FindByID_PreloadsComposition(t *testing.T) {
	testDB, repo, _ := setupDrinkTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Dark Cocoa", Price: 300, Category: model.CategoryBase}
	require.NoError(t, testDB.Create(product).Error)

	drink := createTestDrink(t, testDB, "000102")
	require.NoError(t, testDB.Create(&model.DrinkProduct{
		DrinkID:   drink.ID,
		ProductID: product.ID,
		Quantity:  2,
	}).Error)

	found, err := repo.FindByID(drink.ID)
	require.NoError(t, err)
	require.Len(t, found.DrinkProducts, 1)
	assert.Equal(t, product.ID, found.DrinkProducts[0].ProductID)
	require.NotNil(t, found.DrinkProducts[0].Product)
	assert.Equal(t, "Dark Cocoa", found.DrinkProducts[0].Product.Name)
}

func TestDrinkRepository_Delete_CascadesCompositionAndUserDrinks(t *testing.T) {
	testDB, repo, user := setupDrinkTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Milk", Price: 100, Category: model.CategoryMilk}
	require.NoError(t, testDB.Create(product).Error)

	drink := createTestDrink(t, testDB, "000201")
	require.NoError(t, testDB.Create(&model.DrinkProduct{DrinkID: drink.ID, ProductID: product.ID, Quantity: 1}).Error)
	require.NoError(t, testDB.Create(&model.UserDrink{UserID: user.ID, DrinkID: drink.ID, Name: "My usual"}).Error)

	require.NoError(t, repo.Delete(drink.ID))

	_, err := repo.FindByID(drink.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var dpCount, udCount int64
	testDB.Model(&model.DrinkProduct{}).Where("drink_id = ?", drink.ID).Count(&dpCount)
	testDB.Model(&model.UserDrink{}).Where("drink_id = ?", drink.ID).Count(&udCount)
	assert.Zero(t, dpCount)
	assert.Zero(t, udCount)
}

func TestDrinkRepository_CountOrderItems(t *testing.T) {
	testDB, repo, user := setupDrinkTest(t)
	defer db.CleanupTestDB(testDB)

	drink := createTestDrink(t, testDB, "000301")

	address := &model.Address{UserID: user.ID, Recipient: "Test", Phone: "09011112222", ZipCode: "1500001", Address: "Tokyo"}
	require.NoError(t, testDB.Create(address).Error)

	order := &model.Order{
		UserID:        user.ID,
		AddressID:     address.ID,
		Status:        model.OrderStatusPending,
		PaymentMethod: model.PaymentMethodCard,
		TotalAmount:   550,
	}
	require.NoError(t, testDB.Create(order).Error)
	require.NoError(t, testDB.Create(&model.OrderItem{
		OrderID:  order.ID,
		DrinkID:  drink.ID,
		Quantity: 1,
		Price:    550,
	}).Error)

	count, err := repo.CountOrderItems(drink.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountOrderItems(9999)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDrinkRepository_UserDrinks(t *testing.T) {
	testDB, repo, user := setupDrinkTest(t)
	defer db.CleanupTestDB(testDB)

	drink := createTestDrink(t, testDB, "000401")

	userDrink := &model.UserDrink{UserID: user.ID, DrinkID: drink.ID, Name: "Friday treat"}
	require.NoError(t, repo.CreateUserDrink(userDrink))

	// Second save of the same drink violates the unique index
	err := repo.CreateUserDrink(&model.UserDrink{UserID: user.ID, DrinkID: drink.ID, Name: "Again"})
	assert.Error(t, err)

	drinks, err := repo.FindUserDrinks(user.ID)
	require.NoError(t, err)
	require.Len(t, drinks, 1)
	assert.Equal(t, "Friday treat", drinks[0].Name)

	require.NoError(t, repo.DeleteUserDrink(user.ID, drink.ID))
	err = repo.DeleteUserDrink(user.ID, drink.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
