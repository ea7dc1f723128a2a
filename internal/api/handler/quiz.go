package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/middleware"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

type QuizHandler struct {
	quizService *service.QuizService
}

func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Create queues quiz generation; the result arrives over WebSocket.
// POST /api/v1/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.quizService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPremiumRequired):
			response.PremiumError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "génération du quiz lancée", info)
}

// GetByID
// GET /api/v1/quizzes/:id
func (h *QuizHandler) GetByID(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	info, err := h.quizService.GetByID(userID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrQuizPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// List
// GET /api/v1/quizzes?page=1&page_size=20
func (h *QuizHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	infos, total, err := h.quizService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, infos)
}

// Delete
// DELETE /api/v1/quizzes/:id
func (h *QuizHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(userID, quizID); err != nil {
		switch {
		case errors.Is(err, service.ErrQuizNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrQuizPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "quiz supprimé", nil)
}
