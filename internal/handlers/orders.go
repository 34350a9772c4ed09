package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/shoporbit/storefront/internal/middleware/auth"
	"github.com/shoporbit/storefront/internal/models"
)

func orderScope(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Order{}).
		Preload("Items").
		Preload("Buyer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}

// GetOrders lists the signed-in user's own orders.
func (h *AuthHandler) GetOrders(c echo.Context) error {
	userID, _ := authmw.UserID(c)

	var orders []models.Order
	if err := orderScope(h.DB).
		Where("buyer_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while getting orders", err)
	}

	return ok(c, http.StatusOK, echo.Map{"orders": orders})
}

// GetAllOrders lists every order, newest first. Admin only.
func (h *AuthHandler) GetAllOrders(c echo.Context) error {
	var orders []models.Order
	if err := orderScope(h.DB).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while getting orders", err)
	}

	return ok(c, http.StatusOK, echo.Map{"orders": orders})
}

// UpdateOrderStatus sets an order's status to any member of the
// enumerated set. No transition table is enforced.
func (h *AuthHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := strconv.Atoi(c.Param("orderId"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if !models.ValidOrderStatus(req.Status) {
		return fail(c, http.StatusBadRequest, "Invalid order status")
	}

	var order models.Order
	if err := h.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Order not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while updating order", err)
	}

	if err := h.DB.Model(&order).Update("status", req.Status).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while updating order", err)
	}

	return ok(c, http.StatusOK, echo.Map{"order": order})
}
