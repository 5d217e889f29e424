package service

import (
	"errors"
	"fmt"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidPaymentMethod   = errors.New("unsupported payment method")
	ErrInvalidOrderStatus     = errors.New("invalid order status")
	ErrOrderNotCancellable    = errors.New("order can no longer be cancelled")
	ErrCartItemsNotInUserCart = errors.New("cart items do not belong to this user")
)

type OrderService interface {
	PlaceOrder(userID uint, cartItemIDs []uint, addressID uint, paymentMethod model.PaymentMethod) (*model.Order, *PaymentInitiation, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	CancelOrder(userID, orderID uint) (*model.Order, error)
	GetAllOrders() ([]model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	paymentSvc  PaymentService
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	paymentSvc PaymentService,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		paymentSvc:  paymentSvc,
		db:          db,
	}
}

// PlaceOrder turns the given cart items into a pending order. Item prices
// are taken from the cart rows, not re-read from the drinks, so the user
// pays what they saw when they added the item. The whole cart is cleared on
// success, then payment initiation runs after the transaction commits.
func (s *orderService) PlaceOrder(userID uint, cartItemIDs []uint, addressID uint, paymentMethod model.PaymentMethod) (*model.Order, *PaymentInitiation, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":        userID,
		"address_id":     addressID,
		"payment_method": paymentMethod,
		"item_count":     len(cartItemIDs),
	})

	if !paymentMethod.IsValid() {
		logger.Warn("Unsupported payment method", map[string]interface{}{
			"user_id":        userID,
			"payment_method": paymentMethod,
		})
		return nil, nil, ErrInvalidPaymentMethod
	}
	if len(cartItemIDs) == 0 {
		return nil, nil, ErrEmptyCart
	}

	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAddressNotFound
		}
		return nil, nil, err
	}
	if address.UserID != userID {
		// Another user's address is indistinguishable from a missing one
		logger.Warn("Address ownership check failed during order placement", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
			"owner_id":   address.UserID,
		})
		return nil, nil, ErrAddressNotFound
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	// Fetch the requested items joined with the owning cart so items that
	// exist but belong to someone else never come back.
	var cartItems []model.CartItem
	err = tx.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id IN ? AND carts.user_id = ?", cartItemIDs, userID).
		Find(&cartItems).Error
	if err != nil {
		tx.Rollback()
		logger.Error("Failed to fetch cart items during order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}
	if len(cartItems) != len(cartItemIDs) {
		tx.Rollback()
		logger.Warn("Order placement rejected: cart items missing or not owned", map[string]interface{}{
			"user_id":   userID,
			"requested": len(cartItemIDs),
			"found":     len(cartItems),
		})
		return nil, nil, ErrCartItemsNotInUserCart
	}

	var totalAmount float64
	for _, item := range cartItems {
		totalAmount += item.Price * float64(item.Quantity)
	}

	order := &model.Order{
		UserID:        userID,
		AddressID:     addressID,
		Status:        model.OrderStatusPending,
		PaymentMethod: paymentMethod,
		TotalAmount:   totalAmount,
	}
	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}

	for _, item := range cartItems {
		orderItem := model.OrderItem{
			OrderID:  order.ID,
			DrinkID:  item.DrinkID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to create order item", err, map[string]interface{}{
				"user_id":  userID,
				"order_id": order.ID,
				"drink_id": item.DrinkID,
			})
			return nil, nil, err
		}
		order.Items = append(order.Items, orderItem)
	}

	// The entire cart is emptied at checkout, not just the ordered items
	cartID := cartItems[0].CartID
	if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart during order placement", err, map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
		})
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, nil, err
	}

	order.Address = address

	logger.Info("Order placed", map[string]interface{}{
		"order_id":       order.ID,
		"user_id":        userID,
		"total_amount":   totalAmount,
		"payment_method": paymentMethod,
		"item_count":     len(order.Items),
	})

	// Payment initiation happens outside the transaction: the order exists
	// regardless of whether the payment provider call succeeds.
	initiation, err := s.paymentSvc.InitiatePayment(order)
	if err != nil {
		logger.Error("Payment initiation failed after order placement", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return order, nil, nil
	}

	return order, initiation, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

// GetOrderByID returns the order only if it belongs to the user. Orders of
// other users look like they do not exist.
func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder cancels a pending order. Orders that have progressed past
// pending must be handled by support.
func (s *orderService) CancelOrder(userID, orderID uint) (*model.Order, error) {
	order, err := s.GetOrderByID(userID, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != model.OrderStatusPending {
		logger.Warn("Order cancellation rejected", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	order.Status = model.OrderStatusCancelled
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return order, nil
}

func (s *orderService) GetAllOrders() ([]model.Order, error) {
	return s.orderRepo.FindAll()
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	if !status.IsValid() {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	previous := order.Status
	order.Status = status
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     previous,
		"to":       status,
	})
	return order, nil
}
