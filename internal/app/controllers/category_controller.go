package controllers

import (
	"net/http"

	"github.com/Asus75000/sae-prof/internal/app/models/dto"
	"github.com/Asus75000/sae-prof/internal/app/services"
	"github.com/Asus75000/sae-prof/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CategoryController handles sport category operations
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// List returns every category
// @Summary List sport categories
// @Tags categories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse}
// @Router /categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.categoryService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories, ""))
}

// Create adds a category
// @Summary Create a sport category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CategoryRequest true "Category"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "Label already used"
// @Router /categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	var req dto.CategoryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	category, err := c.categoryService.Create(ctx.Request.Context(), middleware.GetIdentity(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(category, "Category created."))
}

// Update renames a category
// @Summary Rename a sport category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body dto.CategoryRequest true "Category"
// @Success 200 {object} dto.APIResponse{data=dto.CategoryResponse}
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 409 {object} dto.ErrorResponse "Label already used"
// @Router /categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Category")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	category, err := c.categoryService.Update(ctx.Request.Context(), middleware.GetIdentity(ctx), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(category, "Category updated."))
}

// Delete removes a category no event uses
// @Summary Delete a sport category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 409 {object} dto.ErrorResponse "Category still used by events, details.eventCount holds the count"
// @Router /categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Category")
	if !ok {
		return
	}

	if err := c.categoryService.Delete(ctx.Request.Context(), middleware.GetIdentity(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Category deleted."))
}
