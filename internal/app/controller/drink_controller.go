package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ksaito/chocolatte-backend/internal/app/model"
	"github.com/ksaito/chocolatte-backend/internal/app/service"
	apperrors "github.com/ksaito/chocolatte-backend/internal/errors"
	"github.com/ksaito/chocolatte-backend/internal/middleware"
)

type DrinkController struct {
	drinkService service.DrinkService
}

func NewDrinkController(drinkService service.DrinkService) *DrinkController {
	return &DrinkController{
		drinkService: drinkService,
	}
}

type CreateDrinkRequest struct {
	Name        string                   `json:"name" binding:"required"`
	Composition []model.CompositionEntry `json:"composition" binding:"required"`
	Description string                   `json:"description"`
	BasePrice   float64                  `json:"base_price" binding:"omitempty,gt=0"`
	ImageURL    string                   `json:"image_url"`
}

type CreateAdminDrinkRequest struct {
	Composition []model.CompositionEntry `json:"composition" binding:"required"`
	Description string                   `json:"description"`
	BasePrice   float64                  `json:"base_price" binding:"required,gt=0"`
	ImageURL    string                   `json:"image_url"`
}

type UpdateAdminDrinkRequest struct {
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
	ImageURL    string  `json:"image_url"`
}

// CreateDrink composes a drink and saves it to the user's list
// POST /api/v1/drinks
func (ctrl *DrinkController) CreateDrink(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req CreateDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid drink creation request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid drink data")
		return
	}

	userDrink, err := ctrl.drinkService.ResolveOrCreateDrink(userID, req.Name, req.Composition, req.Description, req.BasePrice, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyComposition):
			apperrors.BadRequest(c, apperrors.DrinkEmptyComposition, "A drink needs at least one ingredient")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "One of the ingredients does not exist")
		default:
			log.Error("Failed to create drink", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"drink": userDrink,
	})
}

// GetMyDrinks returns the user's saved drinks
// GET /api/v1/drinks/mine
func (ctrl *DrinkController) GetMyDrinks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	drinks, err := ctrl.drinkService.GetUserDrinks(userID)
	if err != nil {
		log.Error("Failed to fetch user drinks", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drinks": drinks,
		"count":  len(drinks),
	})
}

// DeleteMyDrink removes a drink from the user's list
// DELETE /api/v1/drinks/mine/:id
func (ctrl *DrinkController) DeleteMyDrink(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	drinkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.drinkService.DeleteUserDrink(userID, drinkID)
	if err != nil {
		if errors.Is(err, service.ErrUserDrinkNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Saved drink not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Drink removed from your list",
	})
}

// GetDrinks returns the full drink catalogue
// GET /api/v1/drinks
func (ctrl *DrinkController) GetDrinks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	drinks, err := ctrl.drinkService.GetDrinks()
	if err != nil {
		log.Error("Failed to fetch drinks", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drinks": drinks,
		"count":  len(drinks),
	})
}

// GetDrink returns one drink with its composition
// GET /api/v1/drinks/:id
func (ctrl *DrinkController) GetDrink(c *gin.Context) {
	drinkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	drink, err := ctrl.drinkService.GetDrinkByID(drinkID)
	if err != nil {
		if errors.Is(err, service.ErrDrinkNotFound) {
			apperrors.NotFound(c, apperrors.DrinkNotFound, "Drink not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drink": drink,
	})
}

// CreateAdminDrink adds a drink to the catalogue
// POST /api/v1/admin/drinks
func (ctrl *DrinkController) CreateAdminDrink(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateAdminDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid drink data")
		return
	}

	drink, err := ctrl.drinkService.CreateAdminDrink(req.Composition, req.Description, req.BasePrice, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyComposition):
			apperrors.BadRequest(c, apperrors.DrinkEmptyComposition, "A drink needs at least one ingredient")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "One of the ingredients does not exist")
		case errors.Is(err, service.ErrDrinkCompositionExists):
			apperrors.Conflict(c, apperrors.DrinkCompositionExists, "A drink with this composition already exists")
		default:
			log.Error("Failed to create catalogue drink", err)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"drink": drink,
	})
}

// UpdateDrink edits a catalogue drink's description, price or image. The
// composition itself cannot be changed.
// PUT /api/v1/admin/drinks/:id
func (ctrl *DrinkController) UpdateDrink(c *gin.Context) {
	drinkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAdminDrinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid drink data")
		return
	}

	drink, err := ctrl.drinkService.UpdateDrink(drinkID, req.Description, req.BasePrice, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrDrinkNotFound) {
			apperrors.NotFound(c, apperrors.DrinkNotFound, "Drink not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drink": drink,
	})
}

// DeleteDrink removes a drink from the catalogue
// DELETE /api/v1/admin/drinks/:id
func (ctrl *DrinkController) DeleteDrink(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	drinkID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.drinkService.DeleteDrink(drinkID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDrinkNotFound):
			apperrors.NotFound(c, apperrors.DrinkNotFound, "Drink not found")
		case errors.Is(err, service.ErrDrinkHasOrders):
			apperrors.Conflict(c, apperrors.DrinkHasOrders, "This drink appears in existing orders and cannot be deleted")
		default:
			log.Error("Failed to delete drink", err, map[string]interface{}{
				"drink_id": drinkID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Drink deleted",
	})
}

// parseIDParam parses a numeric path parameter, responding with a 400 on
// failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID in URL")
		return 0, false
	}
	return uint(id), true
}
