package config

import (
	"fmt"

	"manifesto-reader/internal/domain"
	"manifesto-reader/internal/infra/supabase"
	"manifesto-reader/internal/repository"
	"manifesto-reader/internal/sections"
	"manifesto-reader/internal/service"
	"manifesto-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config             domain.Config
	Logger             domain.Logger
	SupabaseClient     *supabase.Client
	PositionRepository domain.ReadingPositionRepository
	Catalog            *sections.Catalog
	DocumentService    *service.DocumentService
	SessionService     *service.SessionService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config := NewConfig()
	return NewContainerWithConfig(config, logger.NewLogger(config.GetLogLevel()))
}

// NewContainerWithConfig wires the application around an existing config and logger.
func NewContainerWithConfig(config domain.Config, appLogger *logger.AppLogger) (*Container, error) {
	catalog, err := loadCatalog(config)
	if err != nil {
		return nil, err
	}

	supabaseClient := supabase.NewClient(config, appLogger.Named("supabase"))
	positions := newPositionRepository(supabaseClient, appLogger)

	extractor := service.NewPDFProcessor(appLogger.Named("pdf"), config.GetPageExtractTimeout())
	documents := service.NewDocumentService(config, newPDFSource(config, supabaseClient), extractor, catalog, appLogger.Named("document"))
	sessions := service.NewSessionService(documents, positions, config, appLogger.Named("session"))
	documents.OnReload(sessions.ResetAll)

	return &Container{
		Config:             config,
		Logger:             appLogger,
		SupabaseClient:     supabaseClient,
		PositionRepository: positions,
		Catalog:            catalog,
		DocumentService:    documents,
		SessionService:     sessions,
	}, nil
}

func loadCatalog(config domain.Config) (*sections.Catalog, error) {
	path := config.GetSectionsFile()
	if path == "" {
		return sections.Default(), nil
	}
	catalog, err := sections.LoadFile(path, config.GetTotalPages())
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	return catalog, nil
}

// newPDFSource reads from Supabase Storage when an object is configured
// together with Supabase credentials, and from PDF_PATH otherwise.
func newPDFSource(config domain.Config, client *supabase.Client) domain.PDFSource {
	if object := config.GetPDFStorageObject(); object != "" && client.Configured() {
		return service.NewStorageService(config.GetSupabaseURL(), config.GetSupabaseKey(), object)
	}
	return service.NewFileSource(config.GetPDFPath())
}

// newPositionRepository uses Supabase when configured and reachable and
// falls back to process memory otherwise.
func newPositionRepository(client *supabase.Client, appLogger *logger.AppLogger) domain.ReadingPositionRepository {
	if !client.Configured() {
		appLogger.Info("Supabase not configured; reading positions kept in memory")
		return repository.NewMemoryPositionRepository()
	}
	if err := client.Initialize(); err != nil {
		appLogger.Warn("Supabase unavailable; reading positions kept in memory", "error", err)
		return repository.NewMemoryPositionRepository()
	}
	return repository.NewReadingPositionRepository(client, appLogger.Named("repository"))
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
