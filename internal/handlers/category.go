package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/models"
	"github.com/shoporbit/storefront/internal/util"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "Category name is required")
	}

	var existing models.Category
	err := h.DB.Where("name = ?", req.Name).First(&existing).Error
	if err == nil {
		return fail(c, http.StatusConflict, "Category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return failErr(c, http.StatusInternalServerError, "Error while creating category", err)
	}

	category := models.Category{
		Name: req.Name,
		Slug: util.Slugify(req.Name),
	}
	if err := h.DB.Create(&category).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while creating category", err)
	}

	return ok(c, http.StatusCreated, echo.Map{
		"message":  "New category created",
		"category": category,
	})
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category id")
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return fail(c, http.StatusBadRequest, "Category name is required")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while updating category", err)
	}

	category.Name = req.Name
	category.Slug = util.Slugify(req.Name)
	if err := h.DB.Save(&category).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while updating category", err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"message":  "Category updated successfully",
		"category": category,
	})
}

func (h *CategoryHandler) List(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while getting categories", err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"message":  "List of all categories",
		"category": categories,
	})
}

func (h *CategoryHandler) Single(c echo.Context) error {
	var category models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while getting category", err)
	}

	return ok(c, http.StatusOK, echo.Map{"category": category})
}

// Delete removes the category only. Products referencing it are left
// untouched and keep the dangling reference.
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category id")
	}

	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while deleting category", err)
	}

	return ok(c, http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
