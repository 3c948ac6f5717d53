package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/subosito/gotenv"

	"github.com/adewidar/storebot/adapters/catalog"
	"github.com/adewidar/storebot/adapters/history"
	httphandler "github.com/adewidar/storebot/adapters/http"
	"github.com/adewidar/storebot/adapters/llm"
	"github.com/adewidar/storebot/config"
	"github.com/adewidar/storebot/usecase"
)

func main() {
	gotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	catalogStore := catalog.NewStore()
	if _, err := catalogStore.Reload(context.Background(), cfg.CatalogSource); err != nil {
		// Same stance as a failed /update_data: keep serving with whatever
		// catalog we have (empty at boot), the operator can retry the reload.
		log.Printf("Warning: initial catalog load failed: %v", err)
	}

	historyStore := history.New(cfg.HistoryWindow)
	geminiClient := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiAPIURL, cfg.GeminiTimeout, cfg.GeminiMaxAttempts)
	chatService := usecase.NewChatService(geminiClient, catalogStore, historyStore, cfg.HistoryWindow)

	handler := httphandler.NewWebhookHandler(chatService, catalogStore, cfg.CatalogSource)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1MB"))

	e.POST("/webhook", handler.Webhook)
	e.POST("/webhook/twilio", handler.TwilioWebhook)
	e.GET("/update_data", handler.UpdateData)
	e.GET("/health", handler.HealthCheck)

	log.Printf("Starting server on %s", cfg.HTTPAddr)
	log.Fatal(e.Start(cfg.HTTPAddr))
}
