package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort          string
	LogLevel            string
	PDFPath             string
	PDFStorageObject    string
	DocumentID          string
	TotalPages          int
	VisibilityThreshold float64
	SearchDebounceMS    int
	SectionsFile        string
	SessionTTL          time.Duration
	PageExtractTimeout  time.Duration
	SupabaseURL         string
	SupabaseKey         string
	AdminToken          string
	AllowedOrigins      []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:          getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		PDFPath:             getEnvOrDefault("PDF_PATH", "./assets/manifesto.pdf"),
		PDFStorageObject:    getEnvOrDefault("PDF_STORAGE_OBJECT", ""),
		DocumentID:          getEnvOrDefault("DOCUMENT_ID", "manifesto"),
		TotalPages:          getEnvIntOrDefault("TOTAL_PAGES", 78),
		VisibilityThreshold: getEnvFloatOrDefault("VISIBILITY_THRESHOLD", 0.5),
		SearchDebounceMS:    getEnvIntOrDefault("SEARCH_DEBOUNCE_MS", 300),
		SectionsFile:        getEnvOrDefault("SECTIONS_FILE", ""),
		SessionTTL:          getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		PageExtractTimeout:  getEnvDurationOrDefault("PAGE_EXTRACT_TIMEOUT", 90*time.Second),
		SupabaseURL:         getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:         getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		AdminToken:          getEnvOrDefault("ADMIN_TOKEN", ""),
		AllowedOrigins: getEnvListOrDefault("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string { return c.ServerPort }

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string { return c.LogLevel }

// GetPDFPath returns the path of the served PDF
func (c *AppConfig) GetPDFPath() string { return c.PDFPath }

// GetPDFStorageObject returns the optional "bucket/path" of the PDF in Supabase Storage
func (c *AppConfig) GetPDFStorageObject() string { return c.PDFStorageObject }

// GetDocumentID returns the id reading positions are stored under
func (c *AppConfig) GetDocumentID() string { return c.DocumentID }

// GetTotalPages returns the expected page count
func (c *AppConfig) GetTotalPages() int { return c.TotalPages }

// GetVisibilityThreshold returns the ratio a page needs to become active
func (c *AppConfig) GetVisibilityThreshold() float64 { return c.VisibilityThreshold }

// GetSearchDebounceMS returns the debounce interval advertised to clients
func (c *AppConfig) GetSearchDebounceMS() int { return c.SearchDebounceMS }

// GetSectionsFile returns the optional JSON sections file
func (c *AppConfig) GetSectionsFile() string { return c.SectionsFile }

// GetSessionTTL returns how long an idle viewer session is kept
func (c *AppConfig) GetSessionTTL() time.Duration { return c.SessionTTL }

// GetPageExtractTimeout returns the per-page text extraction timeout
func (c *AppConfig) GetPageExtractTimeout() time.Duration { return c.PageExtractTimeout }

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string { return c.SupabaseURL }

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string { return c.SupabaseKey }

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string { return c.AllowedOrigins }

// GetAdminToken returns the bearer token for admin routes; empty disables them
func (c *AppConfig) GetAdminToken() string { return c.AdminToken }

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
