package service

import (
	"errors"

	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewExists        = errors.New("product already reviewed by this user")
	ErrInvalidReviewRating = errors.New("rating must be between 1 and 5")
	ErrReviewNotOwned      = errors.New("review does not belong to this user")
)

type ReviewService interface {
	GetProductReviews(productID uint) ([]model.Review, error)
	CreateReview(userID, productID uint, rating int, content string) (*model.Review, error)
	UpdateReview(userID, reviewID uint, rating int, content string) (*model.Review, error)
	DeleteReview(userID, reviewID uint) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) GetProductReviews(productID uint) ([]model.Review, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.reviewRepo.FindByProductID(productID)
}

func (s *reviewService) CreateReview(userID, productID uint, rating int, content string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidReviewRating
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.FindByUserAndProduct(userID, productID); err == nil {
		logger.Warn("Duplicate review rejected", map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		return nil, ErrReviewExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Content:   content,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":  review.ID,
		"user_id":    userID,
		"product_id": productID,
		"rating":     rating,
	})
	return review, nil
}

func (s *reviewService) UpdateReview(userID, reviewID uint, rating int, content string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidReviewRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrReviewNotOwned
	}

	review.Rating = rating
	review.Content = content
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(userID, reviewID uint) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != userID {
		return ErrReviewNotOwned
	}

	return s.reviewRepo.Delete(reviewID)
}
