package repository

import (
	"time"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindCartByUserID(userID uint) (*model.Cart, error)
	CreateCart(cart *model.Cart) error
	FindItemByCartAndDrink(cartID, drinkID uint) (*model.CartItem, error)
	FindItemWithCart(itemID uint) (*model.CartItem, *model.Cart, error)
	CreateItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	DeleteItem(id uint) error
	DeleteItemsByCartID(cartID uint) error
	DeleteCartsInactiveSince(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindCartByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Items.Drink.DrinkProducts.Product").
		First(&cart).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
		"items":   len(cart.Items),
	})
	return &cart, nil
}

func (r *cartRepository) CreateCart(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id": cart.UserID,
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindItemByCartAndDrink(cartID, drinkID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND drink_id = ?", cartID, drinkID).
		First(&item).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item by cart and drink in database", err, map[string]interface{}{
				"cart_id":  cartID,
				"drink_id": drinkID,
			})
		}
		return nil, err
	}
	return &item, nil
}

// FindItemWithCart loads a cart item together with its owning cart in a
// single joined query, so callers can check ownership without a second
// round trip.
func (r *cartRepository) FindItemWithCart(itemID uint) (*model.CartItem, *model.Cart, error) {
	logger.Debug("Finding cart item with cart in database", map[string]interface{}{
		"cart_item_id": itemID,
	})

	var item model.CartItem
	err := r.db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ?", itemID).
		First(&item).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find cart item with cart in database", err, map[string]interface{}{
				"cart_item_id": itemID,
			})
		}
		return nil, nil, err
	}

	var cart model.Cart
	if err := r.db.First(&cart, item.CartID).Error; err != nil {
		return nil, nil, err
	}

	return &item, &cart, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	logger.Debug("Creating cart item in database", map[string]interface{}{
		"cart_id":  item.CartID,
		"drink_id": item.DrinkID,
		"quantity": item.Quantity,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item in database", err, map[string]interface{}{
			"cart_id":  item.CartID,
			"drink_id": item.DrinkID,
		})
		return err
	}

	logger.Debug("Cart item created in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"cart_id":      item.CartID,
		"drink_id":     item.DrinkID,
	})
	return nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	logger.Debug("Updating cart item in database", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})

	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item in database", err, map[string]interface{}{
			"cart_item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(id uint) error {
	logger.Debug("Deleting cart item in database", map[string]interface{}{
		"cart_item_id": id,
	})

	result := r.db.Delete(&model.CartItem{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete cart item in database", result.Error, map[string]interface{}{
			"cart_item_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cartRepository) DeleteItemsByCartID(cartID uint) error {
	logger.Debug("Deleting all cart items for cart in database", map[string]interface{}{
		"cart_id": cartID,
	})

	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to delete cart items for cart in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

// DeleteCartsInactiveSince removes carts (and their items) that have not been
// touched since the cutoff. Used by the cleanup scheduler.
func (r *cartRepository) DeleteCartsInactiveSince(cutoff time.Time) (int64, error) {
	var staleIDs []uint
	err := r.db.Model(&model.Cart{}).
		Where("updated_at < ?", cutoff).
		Pluck("id", &staleIDs).Error
	if err != nil {
		logger.Error("Failed to find stale carts in database", err)
		return 0, err
	}
	if len(staleIDs) == 0 {
		return 0, nil
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id IN ?", staleIDs).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, staleIDs).Error
	})
	if err != nil {
		logger.Error("Failed to delete stale carts in database", err, map[string]interface{}{
			"count": len(staleIDs),
		})
		return 0, err
	}

	logger.Info("Stale carts deleted in database", map[string]interface{}{
		"count":  len(staleIDs),
		"cutoff": cutoff,
	})
	return int64(len(staleIDs)), nil
}
