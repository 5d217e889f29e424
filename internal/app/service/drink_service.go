package service

import (
	"errors"
	"fmt"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	apperrors "github.com/ksaito/chocolatte-backend/internal/errors"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDrinkNotFound          = errors.New("drink not found")
	ErrDrinkCompositionExists = errors.New("drink with this composition already exists")
	ErrDrinkHasOrders         = errors.New("drink is referenced by existing orders")
	ErrUserDrinkNotFound      = errors.New("saved drink not found")
)

type DrinkService interface {
	ResolveOrCreateDrink(userID uint, name string, entries []model.CompositionEntry, description string, basePrice float64, imageURL string) (*model.UserDrink, error)
	CreateAdminDrink(entries []model.CompositionEntry, description string, basePrice float64, imageURL string) (*model.Drink, error)
	GetDrinks() ([]model.Drink, error)
	GetDrinkByID(id uint) (*model.Drink, error)
	UpdateDrink(id uint, description string, basePrice float64, imageURL string) (*model.Drink, error)
	DeleteDrink(id uint) error
	GetUserDrinks(userID uint) ([]model.UserDrink, error)
	DeleteUserDrink(userID, drinkID uint) error
}

type drinkService struct {
	drinkRepo   repository.DrinkRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
}

func NewDrinkService(
	drinkRepo repository.DrinkRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
) DrinkService {
	return &drinkService{
		drinkRepo:   drinkRepo,
		productRepo: productRepo,
		db:          db,
	}
}

// ResolveOrCreateDrink resolves a submitted composition to its canonical
// drink, creating the drink if no equivalent one exists yet, and saves it to
// the user's drink list under the given name. Resolution is silent: the user
// is never told whether the recipe already existed. Saving a drink the user
// already has is a no-op that returns the existing entry, so the first name
// the user supplied stays.
func (s *drinkService) ResolveOrCreateDrink(userID uint, name string, entries []model.CompositionEntry, description string, basePrice float64, imageURL string) (*model.UserDrink, error) {
	logger.Info("Resolving drink composition", map[string]interface{}{
		"user_id":     userID,
		"entry_count": len(entries),
	})

	normalized, err := model.NormalizeComposition(entries)
	if err != nil {
		logger.Warn("Invalid drink composition", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}
	uniqueID := model.CompositionUniqueID(normalized)

	products, err := s.loadCompositionProducts(normalized)
	if err != nil {
		return nil, err
	}

	drink, err := s.resolveDrink(uniqueID, normalized, products, description, basePrice, imageURL)
	if err != nil {
		return nil, err
	}

	userDrink := &model.UserDrink{
		UserID:  userID,
		DrinkID: drink.ID,
		Name:    name,
	}
	if err := s.drinkRepo.CreateUserDrink(userDrink); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Debug("User already saved this drink, returning existing entry", map[string]interface{}{
				"user_id":  userID,
				"drink_id": drink.ID,
			})
			existing, findErr := s.drinkRepo.FindUserDrink(userID, drink.ID)
			if findErr != nil {
				return nil, findErr
			}
			existing.Drink = drink
			return existing, nil
		}
		return nil, err
	}
	userDrink.Drink = drink

	logger.Info("Drink saved to user list", map[string]interface{}{
		"user_id":       userID,
		"drink_id":      drink.ID,
		"user_drink_id": userDrink.ID,
		"unique_id":     uniqueID,
	})
	return userDrink, nil
}

// resolveDrink returns the existing drink for uniqueID or creates it, priced
// from basePrice when supplied and from the ingredients otherwise. If the
// create loses a race on the unique index, the winner's row is re-read once
// and returned instead.
func (s *drinkService) resolveDrink(uniqueID string, normalized []model.CompositionEntry, products map[uint]model.Product, description string, basePrice float64, imageURL string) (*model.Drink, error) {
	drink, err := s.drinkRepo.FindByUniqueID(uniqueID)
	if err == nil {
		logger.Debug("Composition resolved to existing drink", map[string]interface{}{
			"drink_id":  drink.ID,
			"unique_id": uniqueID,
		})
		return drink, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var created *model.Drink
	if basePrice > 0 {
		created, err = s.createDrinkWithPrice(uniqueID, normalized, basePrice, description, imageURL)
	} else {
		created, err = s.createDrink(uniqueID, normalized, products, description, imageURL)
	}
	if err == nil {
		return created, nil
	}
	if !apperrors.IsUniqueViolation(err) {
		return nil, err
	}

	// Concurrent request created the same composition first
	logger.Debug("Lost create race on drink composition, re-reading", map[string]interface{}{
		"unique_id": uniqueID,
	})
	return s.drinkRepo.FindByUniqueID(uniqueID)
}

// CreateAdminDrink creates a catalogue drink from a composition. Unlike the
// user flow, an already existing composition is an error here.
func (s *drinkService) CreateAdminDrink(entries []model.CompositionEntry, description string, basePrice float64, imageURL string) (*model.Drink, error) {
	logger.Info("Creating catalogue drink", map[string]interface{}{
		"entry_count": len(entries),
		"base_price":  basePrice,
	})

	normalized, err := model.NormalizeComposition(entries)
	if err != nil {
		return nil, err
	}
	uniqueID := model.CompositionUniqueID(normalized)

	if _, err := s.drinkRepo.FindByUniqueID(uniqueID); err == nil {
		logger.Warn("Catalogue drink composition already exists", map[string]interface{}{
			"unique_id": uniqueID,
		})
		return nil, ErrDrinkCompositionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.loadCompositionProducts(normalized); err != nil {
		return nil, err
	}

	drink, err := s.createDrinkWithPrice(uniqueID, normalized, basePrice, description, imageURL)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrDrinkCompositionExists
		}
		return nil, err
	}

	logger.Info("Catalogue drink created", map[string]interface{}{
		"drink_id":  drink.ID,
		"unique_id": uniqueID,
	})
	return drink, nil
}

// createDrink prices the drink from its ingredients and persists it together
// with its composition rows in one transaction.
func (s *drinkService) createDrink(uniqueID string, normalized []model.CompositionEntry, products map[uint]model.Product, description, imageURL string) (*model.Drink, error) {
	var basePrice float64
	for _, e := range normalized {
		basePrice += products[e.ProductID].Price * float64(e.Quantity)
	}
	return s.createDrinkWithPrice(uniqueID, normalized, basePrice, description, imageURL)
}

func (s *drinkService) createDrinkWithPrice(uniqueID string, normalized []model.CompositionEntry, basePrice float64, description, imageURL string) (*model.Drink, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during drink creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"unique_id": uniqueID,
			})
		}
	}()

	drink := &model.Drink{
		Description: description,
		BasePrice:   basePrice,
		ImageURL:    imageURL,
		UniqueID:    uniqueID,
	}
	if err := tx.Create(drink).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, e := range normalized {
		drinkProduct := model.DrinkProduct{
			DrinkID:   drink.ID,
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
		}
		if err := tx.Create(&drinkProduct).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		drink.DrinkProducts = append(drink.DrinkProducts, drinkProduct)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit drink creation", err, map[string]interface{}{
			"unique_id": uniqueID,
		})
		return nil, err
	}

	logger.Debug("Drink created", map[string]interface{}{
		"drink_id":  drink.ID,
		"unique_id": uniqueID,
	})
	return drink, nil
}

// loadCompositionProducts fetches every product referenced by the
// composition and fails if any is missing.
func (s *drinkService) loadCompositionProducts(normalized []model.CompositionEntry) (map[uint]model.Product, error) {
	ids := make([]uint, 0, len(normalized))
	for _, e := range normalized {
		ids = append(ids, e.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, e := range normalized {
		if _, ok := byID[e.ProductID]; !ok {
			logger.Warn("Composition references unknown product", map[string]interface{}{
				"product_id": e.ProductID,
			})
			return nil, ErrProductNotFound
		}
	}
	return byID, nil
}

func (s *drinkService) GetDrinks() ([]model.Drink, error) {
	return s.drinkRepo.FindAll()
}

func (s *drinkService) GetDrinkByID(id uint) (*model.Drink, error) {
	drink, err := s.drinkRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrinkNotFound
		}
		return nil, err
	}
	return drink, nil
}

// UpdateDrink edits a drink's presentation fields. The composition and its
// uniqueid are immutable, a different recipe is a different drink.
func (s *drinkService) UpdateDrink(id uint, description string, basePrice float64, imageURL string) (*model.Drink, error) {
	drink, err := s.GetDrinkByID(id)
	if err != nil {
		return nil, err
	}

	if description != "" {
		drink.Description = description
	}
	if basePrice > 0 {
		drink.BasePrice = basePrice
	}
	if imageURL != "" {
		drink.ImageURL = imageURL
	}

	if err := s.drinkRepo.Update(drink); err != nil {
		return nil, err
	}

	logger.Info("Drink updated", map[string]interface{}{
		"drink_id": drink.ID,
	})
	return drink, nil
}

// DeleteDrink removes a drink and its composition. A drink that appears in
// any order is kept for order history and cannot be deleted.
func (s *drinkService) DeleteDrink(id uint) error {
	logger.Info("Deleting drink", map[string]interface{}{
		"drink_id": id,
	})

	if _, err := s.drinkRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDrinkNotFound
		}
		return err
	}

	count, err := s.drinkRepo.CountOrderItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Drink has order references, refusing delete", map[string]interface{}{
			"drink_id":    id,
			"order_items": count,
		})
		return ErrDrinkHasOrders
	}

	return s.drinkRepo.Delete(id)
}

func (s *drinkService) GetUserDrinks(userID uint) ([]model.UserDrink, error) {
	return s.drinkRepo.FindUserDrinks(userID)
}

func (s *drinkService) DeleteUserDrink(userID, drinkID uint) error {
	logger.Info("Removing drink from user list", map[string]interface{}{
		"user_id":  userID,
		"drink_id": drinkID,
	})

	err := s.drinkRepo.DeleteUserDrink(userID, drinkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserDrinkNotFound
		}
		return err
	}
	return nil
}
