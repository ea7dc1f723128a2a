package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/middleware"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

const maxDocumentSize = 20 << 20 // 20 MiB

type DocumentHandler struct {
	documentService *service.DocumentService
	authService     *service.AuthService
}

func NewDocumentHandler(documentService *service.DocumentService, authService *service.AuthService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		authService:     authService,
	}
}

// Create uploads an exam PDF. Restricted to teachers and admins by the router.
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "fichier PDF manquant")
		return
	}
	if fileHeader.Size > maxDocumentSize {
		response.ParamError(c, "fichier trop volumineux (20 Mo maximum)")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	info, err := h.documentService.Create(userID, &req, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFileFormat) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// List returns the catalogue, premium download URLs withheld for free users.
// GET /api/v1/documents?page=1&page_size=20&subject=maths&level=terminale
func (h *DocumentHandler) List(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	infos, total, err := h.documentService.List(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, req.Page, req.PageSize, infos)
}

// GetByID
// GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	docID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	info, err := h.documentService.GetByID(userID, docID)
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

	response.Success(c, info)
}

// Download returns a short-lived signed URL for the PDF itself.
// GET /api/v1/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	docID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.documentService.DownloadURL(userID, docID)
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

	response.Success(c, gin.H{"download_url": url})
}

// Delete
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	docID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role := model.RoleStudent
	if user, err := h.authService.GetUserByID(userID); err == nil {
		role = user.Role
	}

	if err := h.documentService.Delete(userID, docID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrDocumentPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "document supprimé", nil)
}
