// Package config loads pipeline configuration from the environment and the
// categories file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the content generation pipeline.
type Config struct {
	// HTTP
	Port   string
	APIKey string // shared secret for POST /api/generate

	// Admin
	AdminPassword string
	JWTSecret     string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// LLM providers
	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string
	GeminiKey      string
	GeminiModel    string
	LLMTimeout     time.Duration

	// Optional whole-pipeline delegation service
	GeneratorServiceURL     string
	GeneratorServiceTimeout time.Duration

	// Research / image search
	SerpAPIKey       string
	SerpAPIEndpoint  string
	ImageSearchURL   string // browser-automation image search sidecar
	PexelsKey        string
	ResearchPerDay   int
	ImageSearchPerDay int

	// Fetch budgets
	SourceFetchTimeout time.Duration
	ResearchMaxChars   int
	LivenessTimeout    time.Duration

	// Excerpt derivation. Sentence terminators are configurable rather than
	// guessing locale-specific sets.
	ExcerptTerminatorsAr string
	ExcerptTerminatorsEn string

	CategoriesPath string
}

// Load reads configuration from environment variables with defaults that
// match production.
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8080"),
		APIKey: getEnv("WEBSITE_API_KEY", ""),

		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "qatar_standard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint: getEnv("OPENAI_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),

		GeneratorServiceURL:     os.Getenv("GENERATOR_SERVICE_URL"),
		GeneratorServiceTimeout: getEnvDuration("GENERATOR_SERVICE_TIMEOUT", 120*time.Second),

		SerpAPIKey:        os.Getenv("SERP_API_KEY"),
		SerpAPIEndpoint:   getEnv("SERP_API_ENDPOINT", "https://serpapi.com/search.json"),
		ImageSearchURL:    os.Getenv("IMAGE_SEARCH_URL"),
		PexelsKey:         os.Getenv("PEXELS_API_KEY"),
		ResearchPerDay:    getEnvInt("RESEARCH_SEARCHES_PER_DAY", 4),
		ImageSearchPerDay: getEnvInt("IMAGE_SEARCHES_PER_DAY", 18),

		SourceFetchTimeout: getEnvDuration("SOURCE_FETCH_TIMEOUT", 8*time.Second),
		ResearchMaxChars:   getEnvInt("RESEARCH_MAX_CHARS", 3500),
		LivenessTimeout:    getEnvDuration("LIVENESS_TIMEOUT", 6*time.Second),

		ExcerptTerminatorsAr: getEnv("EXCERPT_TERMINATORS_AR", ".!؟"),
		ExcerptTerminatorsEn: getEnv("EXCERPT_TERMINATORS_EN", ".!"),

		CategoriesPath: getEnv("CATEGORIES_PATH", "configs/categories.yaml"),
	}
}

// Validate checks the settings the server cannot run without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("WEBSITE_API_KEY is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// Category is one entry of the fixed category set, with its Arabic label.
type Category struct {
	Slug  string `yaml:"slug"`
	Label string `yaml:"label"`
}

// LoadCategories reads the category table from the YAML file. A missing file
// falls back to the built-in set so tests and fresh checkouts work.
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultCategories(), nil
	}

	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(doc.Categories) == 0 {
		return defaultCategories(), nil
	}
	return doc.Categories, nil
}

// IsValidCategory reports whether slug names a known category.
func IsValidCategory(categories []Category, slug string) bool {
	for _, c := range categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}

func defaultCategories() []Category {
	return []Category{
		{Slug: "general", Label: "عام"},
		{Slug: "diplomacy", Label: "دبلوماسية"},
		{Slug: "palestine", Label: "فلسطين"},
		{Slug: "economy", Label: "اقتصاد"},
		{Slug: "politics", Label: "سياسة"},
		{Slug: "gulf", Label: "خليج"},
		{Slug: "media", Label: "إعلام"},
		{Slug: "turkey", Label: "تركيا"},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
