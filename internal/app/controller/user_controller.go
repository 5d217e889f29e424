package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ksaito/chocolatte-backend/internal/app/service"
	apperrors "github.com/ksaito/chocolatte-backend/internal/errors"
	"github.com/ksaito/chocolatte-backend/internal/middleware"
)

// UserController serves account-level endpoints that don't fit auth:
// data export and the menu chatbot.
type UserController struct {
	exportService  service.ExportService
	chatbotService service.ChatbotService
}

func NewUserController(exportService service.ExportService, chatbotService service.ChatbotService) *UserController {
	return &UserController{
		exportService:  exportService,
		chatbotService: chatbotService,
	}
}

type ChatbotRequest struct {
	Question string `json:"question" binding:"required"`
}

// ExportOrderHistory downloads the user's order history as an XLSX file
// GET /api/v1/users/me/export
func (ctrl *UserController) ExportOrderHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	data, filename, err := ctrl.exportService.ExportOrderHistory(userID)
	if err != nil {
		log.Error("Failed to export order history", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Chatbot answers a menu question
// POST /api/v1/chatbot
func (ctrl *UserController) Chatbot(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid chatbot request")
		return
	}

	answer, err := ctrl.chatbotService.Ask(req.Question)
	if err != nil {
		if errors.Is(err, service.ErrChatbotUnavailable) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalExternalAPI, "The chatbot is not available right now")
			return
		}
		log.Error("Chatbot request failed", err)
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.InternalExternalAPI, "Failed to get an answer, please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": answer,
	})
}
