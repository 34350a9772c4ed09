package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shoporbit/storefront/internal/config"
	"github.com/shoporbit/storefront/internal/gateway"
	"github.com/shoporbit/storefront/internal/handlers"
	"github.com/shoporbit/storefront/internal/logging"
	authmw "github.com/shoporbit/storefront/internal/middleware/auth"
	loggingmw "github.com/shoporbit/storefront/internal/middleware/logging"
	"github.com/shoporbit/storefront/internal/mykafka"
	"github.com/shoporbit/storefront/internal/token"
	httpserver "github.com/shoporbit/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer = mykafka.NewProducer(strings.Split(configuration.KAFKA_ADDRESS, ","))
	}

	tokens := token.New([]byte(configuration.JWT_SECRET))
	braintree := gateway.NewBraintree(configuration)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		Auth:            &authmw.Middleware{DB: db, Tokens: tokens},
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: producer},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: producer},
		PaymentHandler:  &handlers.PaymentHandler{DB: db, Gateway: braintree, Producer: producer},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
