package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"optimeal/internal/api"
	"optimeal/internal/clipper"
	"optimeal/internal/config"
	"optimeal/internal/database"
	"optimeal/internal/generator"
	"optimeal/internal/llm"
	"optimeal/internal/planner"
	"optimeal/internal/pricing"
	"optimeal/internal/recipe"
	"optimeal/internal/units"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

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

	ctx := context.Background()

	switch os.Args[1] {
	case "serve":
		runServe(ctx, cfg, mealPlanner, svc)
	case "plan":
		runPlan(mealPlanner)
	case "generate-recipe":
		runGenerateRecipe(ctx, cfg, svc)
	case "clip":
		runClip(ctx, cfg, svc)
	case "history":
		runHistory(ctx, cfg)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe(ctx context.Context, cfg *config.Config, mealPlanner *planner.Planner, svc *units.Service) {
	if err := cfg.RequireJWT(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var gen *generator.Generator
	var clip *clipper.Clipper
	if cfg.GeminiAPIKey != "" {
		textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		if closer, ok := textGen.(llm.Closer); ok {
			defer closer.Close()
		}
		gen = generator.New(textGen, svc)
		clip = clipper.NewClipper(textGen, svc)
	} else {
		log.Println("GEMINI_API_KEY not set; recipe generation and clipping endpoints disabled")
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	planRepo := planner.NewPlanRepository(db.SQL)

	server := api.NewServer(mealPlanner, gen, clip, planRepo, api.JWTConfig{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: 24 * time.Hour,
	})

	log.Printf("API listening on %s", cfg.ListenAddr)
	if err := server.Router().Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func runPlan(mealPlanner *planner.Planner) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	budget := planCmd.Float64("budget", 100, "Weekly grocery budget")
	maxRepeats := planCmd.Int("max-repeats", 10, "Maximum servings per recipe per week")
	maxTime := planCmd.Int("max-time", 60, "Maximum cooking time per meal in minutes")
	singleStore := planCmd.Bool("single-store", true, "Shop at one store for the whole list")
	planCmd.Parse(os.Args[2:])

	plan, err := mealPlanner.GeneratePlan(planner.Preferences{
		WeeklyBudget:      *budget,
		MaxRepeatsPerWeek: *maxRepeats,
		MaxCookingTimeMin: *maxTime,
	}, *singleStore)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	printJSON(plan)
}

func runGenerateRecipe(ctx context.Context, cfg *config.Config, svc *units.Service) {
	genCmd := flag.NewFlagSet("generate-recipe", flag.ExitOnError)
	description := genCmd.String("description", "", "What kind of recipe to generate")
	cuisine := genCmd.String("cuisine", "", "Cuisine type")
	maxTime := genCmd.Int("max-time", 0, "Maximum cooking time in minutes")
	genCmd.Parse(os.Args[2:])

	if *description == "" {
		log.Fatal("generate-recipe requires -description")
	}
	if err := cfg.RequireGemini(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	r, err := generator.New(textGen, svc).Generate(ctx, generator.Request{
		Description:       *description,
		CuisineType:       *cuisine,
		MaxCookingTimeMin: *maxTime,
	})
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	printJSON(r)
}

func runClip(ctx context.Context, cfg *config.Config, svc *units.Service) {
	clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
	url := clipCmd.String("url", "", "Recipe page URL to import")
	clipCmd.Parse(os.Args[2:])

	if *url == "" {
		log.Fatal("clip requires -url")
	}
	if err := cfg.RequireGemini(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	textGen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	r, err := clipper.NewClipper(textGen, svc).ClipURL(ctx, *url)
	if err != nil {
		log.Fatalf("Clipping failed: %v", err)
	}

	printJSON(r)
}

func runHistory(ctx context.Context, cfg *config.Config) {
	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	userID := historyCmd.String("user", "cli", "User whose plans to list")
	limit := historyCmd.Int("limit", 5, "Number of plans to show")
	historyCmd.Parse(os.Args[2:])

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	plans, err := planner.NewPlanRepository(db.SQL).ListRecentByUserID(ctx, *userID, *limit)
	if err != nil {
		log.Fatalf("Failed to list plans: %v", err)
	}

	for _, p := range plans {
		fmt.Printf("--- Plan %d (%s) ---\n%s\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.PlanData)
	}
	if len(plans) == 0 {
		fmt.Println("No stored plans.")
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Println("Usage: optimeal <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve              Run the HTTP API")
	fmt.Println("  plan               Generate a weekly meal plan on the command line")
	fmt.Println("  generate-recipe    Generate a new recipe with the configured model")
	fmt.Println("  clip               Import a recipe from a URL")
	fmt.Println("  history            List recently stored meal plans")
}
