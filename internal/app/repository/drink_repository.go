package repository

import (
	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

type DrinkRepository interface {
	FindByID(id uint) (*model.Drink, error)
	FindByUniqueID(uniqueID string) (*model.Drink, error)
	FindAll() ([]model.Drink, error)
	Update(drink *model.Drink) error
	Delete(id uint) error
	CountOrderItems(drinkID uint) (int64, error)

	CreateUserDrink(userDrink *model.UserDrink) error
	FindUserDrinks(userID uint) ([]model.UserDrink, error)
	FindUserDrink(userID, drinkID uint) (*model.UserDrink, error)
	DeleteUserDrink(userID, drinkID uint) error
}

type drinkRepository struct {
	db *gorm.DB
}

func NewDrinkRepository(db *gorm.DB) DrinkRepository {
	return &drinkRepository{db: db}
}

func (r *drinkRepository) FindByID(id uint) (*model.Drink, error) {
	logger.Debug("Finding drink by ID in database", map[string]interface{}{
		"drink_id": id,
	})

	var drink model.Drink
	err := r.db.Preload("DrinkProducts.Product").First(&drink, id).Error
	if err != nil {
		logger.Error("Failed to find drink by ID in database", err, map[string]interface{}{
			"drink_id": id,
		})
		return nil, err
	}

	logger.Debug("Drink found by ID in database", map[string]interface{}{
		"drink_id":  drink.ID,
		"unique_id": drink.UniqueID,
	})
	return &drink, nil
}

func (r *drinkRepository) FindByUniqueID(uniqueID string) (*model.Drink, error) {
	logger.Debug("Finding drink by unique ID in database", map[string]interface{}{
		"unique_id": uniqueID,
	})

	var drink model.Drink
	err := r.db.Where("unique_id = ?", uniqueID).
		Preload("DrinkProducts.Product").
		First(&drink).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find drink by unique ID in database", err, map[string]interface{}{
				"unique_id": uniqueID,
			})
		}
		return nil, err
	}

	logger.Debug("Drink found by unique ID in database", map[string]interface{}{
		"drink_id":  drink.ID,
		"unique_id": drink.UniqueID,
	})
	return &drink, nil
}

func (r *drinkRepository) FindAll() ([]model.Drink, error) {
	logger.Debug("Finding all drinks in database")

	var drinks []model.Drink
	err := r.db.Preload("DrinkProducts.Product").
		Order("created_at DESC").
		Find(&drinks).Error
	if err != nil {
		logger.Error("Failed to find all drinks in database", err)
		return nil, err
	}

	logger.Debug("Drinks found in database", map[string]interface{}{
		"count": len(drinks),
	})
	return drinks, nil
}

func (r *drinkRepository) Update(drink *model.Drink) error {
	logger.Debug("Updating drink in database", map[string]interface{}{
		"drink_id": drink.ID,
	})

	if err := r.db.Save(drink).Error; err != nil {
		logger.Error("Failed to update drink in database", err, map[string]interface{}{
			"drink_id": drink.ID,
		})
		return err
	}
	return nil
}

func (r *drinkRepository) Delete(id uint) error {
	logger.Debug("Deleting drink in database", map[string]interface{}{
		"drink_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drink_id = ?", id).Delete(&model.DrinkProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("drink_id = ?", id).Delete(&model.UserDrink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("drink_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Drink{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete drink in database", err, map[string]interface{}{
			"drink_id": id,
		})
		return err
	}

	logger.Debug("Drink deleted in database", map[string]interface{}{
		"drink_id": id,
	})
	return nil
}

func (r *drinkRepository) CountOrderItems(drinkID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.OrderItem{}).
		Where("drink_id = ?", drinkID).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count order items for drink in database", err, map[string]interface{}{
			"drink_id": drinkID,
		})
		return 0, err
	}
	return count, nil
}

func (r *drinkRepository) CreateUserDrink(userDrink *model.UserDrink) error {
	logger.Debug("Creating user drink in database", map[string]interface{}{
		"user_id":  userDrink.UserID,
		"drink_id": userDrink.DrinkID,
		"name":     userDrink.Name,
	})

	if err := r.db.Create(userDrink).Error; err != nil {
		logger.Error("Failed to create user drink in database", err, map[string]interface{}{
			"user_id":  userDrink.UserID,
			"drink_id": userDrink.DrinkID,
		})
		return err
	}

	logger.Debug("User drink created in database", map[string]interface{}{
		"user_drink_id": userDrink.ID,
		"user_id":       userDrink.UserID,
		"drink_id":      userDrink.DrinkID,
	})
	return nil
}

func (r *drinkRepository) FindUserDrinks(userID uint) ([]model.UserDrink, error) {
	logger.Debug("Finding user drinks in database", map[string]interface{}{
		"user_id": userID,
	})

	var userDrinks []model.UserDrink
	err := r.db.Where("user_id = ?", userID).
		Preload("Drink.DrinkProducts.Product").
		Order("created_at DESC").
		Find(&userDrinks).Error
	if err != nil {
		logger.Error("Failed to find user drinks in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User drinks found in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(userDrinks),
	})
	return userDrinks, nil
}

func (r *drinkRepository) FindUserDrink(userID, drinkID uint) (*model.UserDrink, error) {
	var userDrink model.UserDrink
	err := r.db.Where("user_id = ? AND drink_id = ?", userID, drinkID).
		Preload("Drink.DrinkProducts.Product").
		First(&userDrink).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find user drink in database", err, map[string]interface{}{
				"user_id":  userID,
				"drink_id": drinkID,
			})
		}
		return nil, err
	}
	return &userDrink, nil
}

func (r *drinkRepository) DeleteUserDrink(userID, drinkID uint) error {
	logger.Debug("Deleting user drink in database", map[string]interface{}{
		"user_id":  userID,
		"drink_id": drinkID,
	})

	result := r.db.Where("user_id = ? AND drink_id = ?", userID, drinkID).
		Delete(&model.UserDrink{})
	if result.Error != nil {
		logger.Error("Failed to delete user drink in database", result.Error, map[string]interface{}{
			"user_id":  userID,
			"drink_id": drinkID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("User drink deleted in database", map[string]interface{}{
		"user_id":  userID,
		"drink_id": drinkID,
	})
	return nil
}
