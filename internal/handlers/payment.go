package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/gateway"
	"github.com/shoporbit/storefront/internal/logging"
	authmw "github.com/shoporbit/storefront/internal/middleware/auth"
	"github.com/shoporbit/storefront/internal/models"
	"github.com/shoporbit/storefront/internal/mykafka"
)

type PaymentHandler struct {
	DB       *gorm.DB
	Gateway  gateway.Gateway
	Producer *mykafka.Producer
}

// Token hands the client a gateway token for its payment widget. Read
// only, no side effects.
func (h *PaymentHandler) Token(c echo.Context) error {
	token, err := h.Gateway.ClientToken(c.Request().Context())
	if err != nil {
		return failErr(c, http.StatusBadGateway, "Error while generating payment token", err)
	}

	return ok(c, http.StatusOK, echo.Map{"client_token": token})
}

type cartItem struct {
	ID    uint    `json:"id"`
	Price float64 `json:"price"`
}

// totalOf sums the prices the client submitted; the catalog is not
// consulted at checkout.
func totalOf(cart []cartItem) float64 {
	var total float64
	for _, item := range cart {
		total += item.Price
	}
	return total
}

// Payment runs the checkout workflow: compute the total, submit the
// sale for immediate settlement, and persist the order only once the
// gateway's asynchronous result confirms the transaction. A declined or
// failed sale leaves no order behind and is not retried.
func (h *PaymentHandler) Payment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment")

	userID, found := authmw.UserID(c)
	if !found {
		return fail(c, http.StatusUnauthorized, "Authentication required")
	}

	var req struct {
		Nonce string     `json:"nonce"`
		Cart  []cartItem `json:"cart"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Nonce == "" {
		return fail(c, http.StatusBadRequest, "Payment nonce is required")
	}
	if len(req.Cart) == 0 {
		return fail(c, http.StatusBadRequest, "Cart is empty")
	}

	total := totalOf(req.Cart)

	// The gateway call is the sole commit point. No timeout is applied:
	// a hanging gateway hangs this request.
	res := <-h.Gateway.Sale(ctx, total, req.Nonce)
	if res.Err != nil {
		l.Error("sale rejected", "total", total, "error", res.Err)
		return fail(c, http.StatusBadGateway, "Payment failed")
	}

	order := models.Order{
		BuyerID: userID,
		Status:  models.StatusNotProcessed,
		Payment: res.Receipt,
	}
	for _, item := range req.Cart {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ID,
			Price:     item.Price,
		})
	}
	if err := h.DB.Create(&order).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while saving order", err)
	}

	l.Info("order created", "orderID", order.ID, "total", total)
	publish(c, h.Producer, mykafka.TopicOrderEvents, fmt.Sprint(order.ID), map[string]interface{}{
		"type":    "order_created",
		"orderID": order.ID,
		"buyerID": userID,
		"total":   total,
	})

	return ok(c, http.StatusOK, echo.Map{
		"ok":    true,
		"order": order,
	})
}
