package service

import (
	"strconv"
	"testing"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type orderTestFixture struct {
	db      *gorm.DB
	svc     OrderService
	user    *model.User
	address *model.Address
	cart    *model.Cart
	items   []model.CartItem
}

func setupOrderServiceTest(t *testing.T) *orderTestFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)
	paymentSvc := NewPaymentService(nil)
	svc := NewOrderService(orderRepo, cartRepo, addressRepo, paymentSvc, testDB)

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer", Role: model.RoleUser}
	require.NoError(t, testDB.Create(user).Error)

	address := &model.Address{UserID: user.ID, Recipient: "Buyer", Phone: "09011112222", ZipCode: "1500001", Address: "Shibuya"}
	require.NoError(t, testDB.Create(address).Error)

	cart := &model.Cart{UserID: user.ID}
	require.NoError(t, testDB.Create(cart).Error)

	// Two drinks in the cart. Cart prices deliberately differ from the
	// drinks' current base prices to prove the order charges the captured
	// cart price.
	items := make([]model.CartItem, 2)
	for i, price := range []float64{500, 650} {
		drink := &model.Drink{Description: "Cocoa " + strconv.Itoa(i), BasePrice: price + 100, UniqueID: "00090" + strconv.Itoa(i)}
		require.NoError(t, testDB.Create(drink).Error)

		items[i] = model.CartItem{CartID: cart.ID, DrinkID: drink.ID, Quantity: i + 1, Price: price}
		require.NoError(t, testDB.Create(&items[i]).Error)
	}

	return &orderTestFixture{db: testDB, svc: svc, user: user, address: address, cart: cart, items: items}
}

func (f *orderTestFixture) itemIDs() []uint {
	ids := make([]uint, len(f.items))
	for i, item := range f.items {
		ids[i] = item.ID
	}
	return ids
}

func TestOrderService_PlaceOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	order, initiation, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, model.PaymentMethodCard)
	require.NoError(t, err)

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentMethodCard, order.PaymentMethod)

	// Total is the sum of captured cart prices times quantities
	expected := 500.0*1 + 650.0*2
	assert.Equal(t, expected, order.TotalAmount)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 500.0, order.Items[0].Price)
	assert.Equal(t, 650.0, order.Items[1].Price)

	// Cart is fully cleared
	var remaining int64
	f.db.Model(&model.CartItem{}).Where("cart_id = ?", f.cart.ID).Count(&remaining)
	assert.Zero(t, remaining)

	// Card checkout returns a payment token
	require.NotNil(t, initiation)
	assert.Equal(t, model.PaymentMethodCard, initiation.Method)
	assert.NotEmpty(t, initiation.Token)
}

func TestOrderService_PlaceOrder_ClearsWholeCart(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	// Order only the first item; the second must still disappear
	_, _, err := f.svc.PlaceOrder(f.user.ID, []uint{f.items[0].ID}, f.address.ID, model.PaymentMethodPayPay)
	require.NoError(t, err)

	var remaining int64
	f.db.Model(&model.CartItem{}).Where("cart_id = ?", f.cart.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestOrderService_PlaceOrder_PaymentPayloads(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	order, initiation, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, model.PaymentMethodConvenience)
	require.NoError(t, err)
	require.NotNil(t, initiation)

	assert.Equal(t, model.PaymentMethodConvenience, initiation.Method)
	assert.Contains(t, initiation.Instructions, "convenience store")
	assert.Contains(t, initiation.Instructions, "ORD-"+strconv.FormatUint(uint64(order.ID), 10))
}

func TestOrderService_PlaceOrder_InvalidPaymentMethod(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	_, _, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, "bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestOrderService_PlaceOrder_EmptyItems(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	_, _, err := f.svc.PlaceOrder(f.user.ID, nil, f.address.ID, model.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_PlaceOrder_ForeignAddress(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger", Role: model.RoleUser}
	require.NoError(t, f.db.Create(stranger).Error)
	foreign := &model.Address{UserID: stranger.ID, Recipient: "Stranger", Phone: "08033334444", ZipCode: "1000001", Address: "Chiyoda"}
	require.NoError(t, f.db.Create(foreign).Error)

	// Someone else's address reads as not found
	_, _, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), foreign.ID, model.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, _, err = f.svc.PlaceOrder(f.user.ID, f.itemIDs(), 9999, model.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestOrderService_PlaceOrder_ForeignCartItems(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger", Role: model.RoleUser}
	require.NoError(t, f.db.Create(stranger).Error)
	strangerCart := &model.Cart{UserID: stranger.ID}
	require.NoError(t, f.db.Create(strangerCart).Error)
	foreignItem := &model.CartItem{CartID: strangerCart.ID, DrinkID: f.items[0].DrinkID, Quantity: 1, Price: 500}
	require.NoError(t, f.db.Create(foreignItem).Error)

	_, _, err := f.svc.PlaceOrder(f.user.ID, []uint{f.items[0].ID, foreignItem.ID}, f.address.ID, model.PaymentMethodCard)
	assert.ErrorIs(t, err, ErrCartItemsNotInUserCart)

	// Nothing was committed
	var orderCount, itemCount int64
	f.db.Model(&model.Order{}).Count(&orderCount)
	f.db.Model(&model.CartItem{}).Where("cart_id = ?", f.cart.ID).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Equal(t, int64(2), itemCount)
}

func TestOrderService_GetOrderByID_Ownership(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	order, _, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, model.PaymentMethodCard)
	require.NoError(t, err)

	found, err := f.svc.GetOrderByID(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	stranger := &model.User{Email: "stranger@example.com", PasswordHash: "hash", Name: "Stranger", Role: model.RoleUser}
	require.NoError(t, f.db.Create(stranger).Error)

	_, err = f.svc.GetOrderByID(stranger.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_CancelOrder(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	order, _, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, model.PaymentMethodCard)
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	// Cancelled orders cannot be cancelled again
	_, err = f.svc.CancelOrder(f.user.ID, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := setupOrderServiceTest(t)
	defer db.CleanupTestDB(f.db)

	order, _, err := f.svc.PlaceOrder(f.user.ID, f.itemIDs(), f.address.ID, model.PaymentMethodCard)
	require.NoError(t, err)

	updated, err := f.svc.UpdateOrderStatus(order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	_, err = f.svc.UpdateOrderStatus(order.ID, "teleported")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	_, err = f.svc.UpdateOrderStatus(9999, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
