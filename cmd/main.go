package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"qatar-standard/internal/articles"
	"qatar-standard/internal/auth"
	"qatar-standard/internal/config"
	"qatar-standard/internal/database"
	"qatar-standard/internal/fingerprint"
	"qatar-standard/internal/handlers"
	"qatar-standard/internal/images"
	"qatar-standard/internal/llm"
	"qatar-standard/internal/metadata"
	"qatar-standard/internal/pipeline"
	"qatar-standard/internal/quota"
	"qatar-standard/internal/research"
	"qatar-standard/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	categories, err := config.LoadCategories(cfg.CategoriesPath)
	if err != nil {
		log.Fatal("Failed to load categories: ", err)
	}

	// Connect to database and run migrations
	if err := database.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	// Shared pipeline components
	tracker := quota.NewTracker()
	searchClient := search.NewClient(cfg.SerpAPIEndpoint, cfg.SerpAPIKey)
	aggregator := research.NewAggregator(searchClient, tracker, cfg.ResearchPerDay, cfg.SourceFetchTimeout, cfg.ResearchMaxChars)

	// Provider chain: OpenAI-compatible primary, Gemini fallback
	openai := llm.NewOpenAIClient(cfg.OpenAIEndpoint, cfg.OpenAIModel, cfg.OpenAIKey, cfg.LLMTimeout)
	gemini, err := llm.NewGeminiClient(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("Failed to create Gemini client: ", err)
	}
	var providers []llm.Provider
	if openai != nil {
		providers = append(providers, openai)
	}
	if gemini != nil {
		defer gemini.Close()
		providers = append(providers, gemini)
	}
	if len(providers) == 0 {
		log.Println("⚠️ No language model provider configured; articles will degrade to origin text")
	}
	orchestrator := llm.NewOrchestrator(llm.NewChain(providers...))

	// Image waterfall. Browser and stock strategies only run when configured.
	checker := images.NewChecker(cfg.LivenessTimeout)
	var browser images.ImageSearcher
	if b := images.NewBrowserSearchClient(cfg.ImageSearchURL, cfg.SourceFetchTimeout); b != nil {
		browser = b
	}
	var stock images.ImageSearcher
	if s := images.NewPexelsClient("", cfg.PexelsKey); s != nil {
		stock = s
	}
	waterfall := images.NewWaterfall(
		checker,
		metadata.NewExtractor(cfg.SourceFetchTimeout),
		searchClient,
		tracker,
		cfg.ImageSearchPerDay,
		browser,
		images.NewWikimediaClient(""),
		stock,
	)

	articlesService := articles.NewService(database.DB, cfg.ExcerptTerminatorsAr, cfg.ExcerptTerminatorsEn)
	external := llm.NewExternalGenerator(cfg.GeneratorServiceURL, cfg.GeneratorServiceTimeout)

	var delegator pipeline.Delegator
	if external != nil {
		delegator = external
	}
	pipe := pipeline.New(
		fingerprint.NewStore(database.DB),
		aggregator,
		delegator,
		orchestrator,
		waterfall,
		articlesService,
	)

	setupServer(cfg, categories, pipe, articlesService, checker, tracker)
}

func setupServer(cfg *config.Config, categories []config.Category, pipe *pipeline.Pipeline, articlesService *articles.Service, checker *images.Checker, tracker *quota.Tracker) {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-API-Key"}
	r.Use(cors.New(corsConfig))

	generateHandler := handlers.NewGenerateHandler(pipe, cfg.APIKey, categories)
	articlesHandler := handlers.NewArticlesHandler(articlesService)
	adminHandler := handlers.NewAdminHandler(articlesService, auth.NewTokenManager(cfg.JWTSecret), checker, cfg.AdminPassword)
	healthHandler := handlers.NewHealthHandler(tracker)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/generate", generateHandler.Generate)
		api.GET("/articles", articlesHandler.List)
		api.GET("/articles/:slug", articlesHandler.GetBySlug)

		api.POST("/admin/auth", adminHandler.Login)
		admin := api.Group("/admin", adminHandler.RequireAuth())
		{
			admin.GET("/articles", adminHandler.ListArticles)
			admin.DELETE("/articles", adminHandler.DeleteArticle)
			admin.PATCH("/articles/:slug/image", adminHandler.UpdateImage)
			admin.GET("/articles/:slug/preview", adminHandler.Preview)
		}
	}

	setupGracefulShutdown()

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")
		database.Close()
		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}
