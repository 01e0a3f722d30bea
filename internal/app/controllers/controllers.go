// Package controllers handles HTTP request handling
package controllers

import (
	"strconv"

	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive numeric path parameter and answers 400 otherwise
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(label+" ID must be a valid number"))
		return 0, false
	}
	return id, true
}
