package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/middleware"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

const maxAvatarSize = 2 << 20 // 2 MiB

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile
// PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, info)
}

// UploadAvatar
// POST /api/v1/users/me/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "fichier avatar manquant")
		return
	}
	if fileHeader.Size > maxAvatarSize {
		response.ParamError(c, "avatar trop volumineux (2 Mo maximum)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	url, err := h.userService.UploadAvatar(userID, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAvatarFormat) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"avatar_url": url})
}
