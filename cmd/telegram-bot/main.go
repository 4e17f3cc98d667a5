package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"optimeal/internal/clipper"
	"optimeal/internal/config"
	"optimeal/internal/database"
	"optimeal/internal/llm"
	"optimeal/internal/planner"
	"optimeal/internal/pricing"
	"optimeal/internal/recipe"
	"optimeal/internal/telegram"
	"optimeal/internal/units"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	recipes, err := recipe.LoadCatalog(cfg.RecipesPath)
	if err != nil {
		log.Fatalf("Failed to load recipe catalog: %v", err)
	}
	catalog, err := pricing.Load(cfg.PricesPath)
	if err != nil {
		log.Fatalf("Failed to load price catalog: %v", err)
	}

	svc := units.NewService()
	mealPlanner := planner.NewPlanner(recipes, catalog, svc)

	var recipeClipper *clipper.Clipper
	if cfg.GeminiAPIKey != "" {
		textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := textGen.(llm.Closer); ok {
			defer closer.Close()
		}
		recipeClipper = clipper.NewClipper(textGen, svc)
	} else {
		log.Println("GEMINI_API_KEY not set; recipe clipping disabled")
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	planRepo := planner.NewPlanRepository(db.SQL)

	bot, err := telegram.NewBot(cfg, mealPlanner, recipeClipper, planRepo)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
