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

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(testDB)
	return testDB, NewProductService(productRepo)
}

func TestProductService_UpdateProduct_Partial(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Dark Cocoa", Description: "70% cacao", Price: 350, Category: model.CategoryBase}
	require.NoError(t, testDB.Create(product).Error)

	updated, err := svc.UpdateProduct(product.ID, &model.Product{Price: 400})
	require.NoError(t, err)

	// Unset fields are left alone
	assert.Equal(t, 400.0, updated.Price)
	assert.Equal(t, "Dark Cocoa", updated.Name)
	assert.Equal(t, "70% cacao", updated.Description)
}

func TestProductService_DeleteProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Mint Syrup", Price: 90, Category: model.CategorySyrup}
	require.NoError(t, testDB.Create(product).Error)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.GetProductByID(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_UsedByDrink(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{Name: "Dark Cocoa", Price: 350, Category: model.CategoryBase}
	require.NoError(t, testDB.Create(product).Error)

	drink := &model.Drink{Description: "House cocoa", BasePrice: 350, UniqueID: "000101"}
	require.NoError(t, testDB.Create(drink).Error)
	require.NoError(t, testDB.Create(&model.DrinkProduct{DrinkID: drink.ID, ProductID: product.ID, Quantity: 1}).Error)

	err := svc.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductInUse)

	// Still there
	_, err = svc.GetProductByID(product.ID)
	assert.NoError(t, err)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	err := svc.DeleteProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
