package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
)

// parseIDParam reads a numeric path parameter, answering the request itself
// on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "identifiant invalide")
		return 0, false
	}
	return id, true
}
