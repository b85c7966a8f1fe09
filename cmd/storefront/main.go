package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rollshouse/storefront/internal/address"
	"github.com/rollshouse/storefront/internal/cart"
	"github.com/rollshouse/storefront/internal/checkout"
	"github.com/rollshouse/storefront/internal/config"
	"github.com/rollshouse/storefront/internal/events"
	"github.com/rollshouse/storefront/internal/handlers"
	"github.com/rollshouse/storefront/internal/logging"
	"github.com/rollshouse/storefront/internal/session"
	"github.com/rollshouse/storefront/internal/storage"
	httpserver "github.com/rollshouse/storefront/internal/transport/http"
	"github.com/rollshouse/storefront/pkg/authclient"
	"github.com/rollshouse/storefront/pkg/menuclient"
	loggingmw "github.com/rollshouse/storefront/pkg/middleware/logging"
	"github.com/rollshouse/storefront/pkg/orderclient"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := logging.IntoContext(context.Background(), logger)

	store, err := storage.Open(ctx, configuration.DATABASE_URL, configuration.STORAGE_PATH)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}

	sessionStore := session.NewStore(store)
	addressBook := address.NewBook(store)
	cartStore := cart.NewStore(store)

	// persisted state restores once, before the first request is served
	sessionStore.Restore(ctx)
	addressBook.Restore(ctx)
	cartStore.Restore(ctx)

	var producer events.Publisher = events.Nop{}
	if configuration.KAFKA_ADDRESS != "" {
		producer = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	}

	orders := orderclient.NewClient(configuration.BACKEND_URL)
	auth := authclient.NewClient(configuration.BACKEND_URL)
	menu := menuclient.NewClient(configuration.BACKEND_URL)

	flow := checkout.NewFlow(addressBook, cartStore, orders, producer)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		Session: sessionStore,
		Book:    addressBook,
		Cart:    cartStore,

		SessionHandler:  &handlers.SessionHandler{Session: sessionStore, Cart: cartStore, Auth: auth, Producer: producer},
		AddressHandler:  &handlers.AddressHandler{Book: addressBook},
		CartHandler:     &handlers.CartHandler{Cart: cartStore, Producer: producer},
		CheckoutHandler: &handlers.CheckoutHandler{Flow: flow},
		MenuHandler:     &handlers.MenuHandler{Menu: menu},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.RUN_ADDRESS,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("storage close error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
