package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shoporbit/storefront/internal/logging"
	"github.com/shoporbit/storefront/internal/mykafka"
)

// fail sends the error envelope every failure path uses. Internal error
// detail goes to the log, never into the response body.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{
		"success": false,
		"message": msg,
	})
}

func failErr(c echo.Context, code int, msg string, err error) error {
	logging.FromContext(c.Request().Context()).Error(msg, "status", code, "error", err)
	return fail(c, code, msg)
}

func ok(c echo.Context, code int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(code, body)
}

// publish ships a domain event, logging and swallowing failures: event
// delivery never changes the request outcome.
func publish(c echo.Context, p *mykafka.Producer, topic, key string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("event publish failed", "topic", topic, "error", err)
	}
}
