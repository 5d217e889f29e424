package service

import (
	"errors"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrCartItemNotOwned = errors.New("cart item does not belong to this user")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type CartService interface {
	GetCart(userID uint) (*model.Cart, error)
	AddToCart(userID, drinkID uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(userID, itemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo  repository.CartRepository
	drinkRepo repository.DrinkRepository
}

func NewCartService(cartRepo repository.CartRepository, drinkRepo repository.DrinkRepository) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		drinkRepo: drinkRepo,
	}
}

// GetCart returns the user's cart. Users without a cart get an empty one
// back without a row being created.
func (s *cartService) GetCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddToCart puts a drink in the user's cart, creating the cart on first use.
// Adding a drink already in the cart increments its quantity. The item price
// is captured from the drink at add time and reused at checkout.
func (s *cartService) AddToCart(userID, drinkID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	logger.Info("Adding drink to cart", map[string]interface{}{
		"user_id":  userID,
		"drink_id": drinkID,
		"quantity": quantity,
	})

	drink, err := s.drinkRepo.FindByID(drinkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot add unknown drink to cart", map[string]interface{}{
				"user_id":  userID,
				"drink_id": drinkID,
			})
			return nil, ErrDrinkNotFound
		}
		return nil, err
	}

	cart, err := s.ensureCart(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItemByCartAndDrink(cart.ID, drinkID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
		logger.Info("Cart item quantity incremented", map[string]interface{}{
			"cart_item_id": existing.ID,
			"quantity":     existing.Quantity,
		})
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.CartItem{
		CartID:   cart.ID,
		DrinkID:  drinkID,
		Quantity: quantity,
		Price:    drink.BasePrice,
	}
	if err := s.cartRepo.CreateItem(item); err != nil {
		return nil, err
	}

	logger.Info("Drink added to cart", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      cart.ID,
		"drink_id":     drinkID,
		"price":        item.Price,
	})
	return item, nil
}

func (s *cartService) ensureCart(userID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = &model.Cart{UserID: userID}
	if err := s.cartRepo.CreateCart(cart); err != nil {
		// Concurrent first add may have created it already
		if existing, findErr := s.cartRepo.FindCartByUserID(userID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the quantity of a cart item owned by the user
func (s *cartService) UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, cart, err := s.cartRepo.FindItemWithCart(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if cart.UserID != userID {
		logger.Warn("Cart item ownership check failed", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"owner_id":     cart.UserID,
		})
		return nil, ErrCartItemNotOwned
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveItem deletes a cart item owned by the user
func (s *cartService) RemoveItem(userID, itemID uint) error {
	item, cart, err := s.cartRepo.FindItemWithCart(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if cart.UserID != userID {
		logger.Warn("Cart item ownership check failed", map[string]interface{}{
			"user_id":      userID,
			"cart_item_id": itemID,
			"owner_id":     cart.UserID,
		})
		return ErrCartItemNotOwned
	}

	return s.cartRepo.DeleteItem(item.ID)
}

// ClearCart removes every item from the user's cart
func (s *cartService) ClearCart(userID uint) error {
	cart, err := s.cartRepo.FindCartByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.cartRepo.DeleteItemsByCartID(cart.ID)
}
