package service

import (
	"errors"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is used by existing drink compositions")
)

type ProductService interface {
	GetProducts(category model.ProductCategory) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(id uint, updates *model.Product) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) GetProducts(category model.ProductCategory) ([]model.Product, error) {
	return s.productRepo.FindAll(category)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name":     product.Name,
		"category": product.Category,
		"price":    product.Price,
	})
	return s.productRepo.Create(product)
}

func (s *productService) UpdateProduct(id uint, updates *model.Product) (*model.Product, error) {
	product, err := s.GetProductByID(id)
	if err != nil {
		return nil, err
	}

	if updates.Name != "" {
		product.Name = updates.Name
	}
	if updates.Description != "" {
		product.Description = updates.Description
	}
	if updates.Price > 0 {
		product.Price = updates.Price
	}
	if updates.Category != "" {
		product.Category = updates.Category
	}
	if updates.StockQuantity >= 0 {
		product.StockQuantity = updates.StockQuantity
	}
	if updates.ImageURL != "" {
		product.ImageURL = updates.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeleteProduct removes an ingredient. Products that appear in any drink
// composition stay, since composition rows are immutable.
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	count, err := s.productRepo.CountDrinkReferences(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Product has drink references, refusing delete", map[string]interface{}{
			"product_id":     id,
			"drink_products": count,
		})
		return ErrProductInUse
	}

	err = s.productRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
