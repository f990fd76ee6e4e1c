// Package app assembles the menu pipeline from configuration. The HTTP
// server and the operator CLI share it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"serveur/internal/config"
	"serveur/internal/llm"
	"serveur/internal/menu"
	"serveur/internal/ocr"
	"serveur/internal/pairing"
	"serveur/internal/qr"
	"serveur/internal/storage"
)

type App struct {
	LLM   llm.Client
	Store storage.Storage
	// StaticDir is non-empty when files are kept on local disk.
	StaticDir string
	Menus     *menu.Service
}

// NewStorage picks the object store named by STORAGE_DRIVER.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.Storage, string, error) {
	switch cfg.StorageDriver {
	case "r2":
		store, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2.Endpoint,
			AccessKey:     cfg.R2.AccessKey,
			SecretKey:     cfg.R2.SecretKey,
			Bucket:        cfg.R2.Bucket,
			PublicBaseURL: cfg.R2.PublicBaseURL,
		})
		return store, "", err
	case "local", "":
		store, err := storage.NewLocalStorage(cfg.StorageDir, cfg.BaseURL+"/storage")
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("app: unknown storage driver %q", cfg.StorageDriver)
	}
}

// Build wires the extraction, translation, pairing and QR stages around repo.
func Build(ctx context.Context, cfg *config.Config, repo menu.Repository, log *zap.SugaredLogger) (*App, error) {
	store, staticDir, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	}, log.Named("gemini"))
	if err != nil {
		return nil, err
	}

	raster := ocr.NewPDFToPPM(cfg.PDFToPPMPath, cfg.RasterDPI, cfg.RasterMaxPages)

	menus := menu.NewService(menu.Deps{
		Repo:       repo,
		Store:      store,
		Extractor:  ocr.NewExtractor(client, raster, cfg.DefaultLanguage, log.Named("extract")),
		Translator: menu.NewTranslator(client, cfg.TranslationWorkers, log.Named("translate")),
		Engine:     pairing.NewEngine(cfg.MinPairingConfidence),
		Reasons:    pairing.NewReasonEnricher(client, cfg.MaxReasonPairings, log.Named("reasons")),
		QR:         qr.NewGenerator(store, 0),
		Log:        log.Named("menu"),
	}, menu.Config{
		BaseURL:          cfg.BaseURL,
		DefaultLanguages: cfg.DefaultTargetLanguages,
		Limits: menu.UploadLimits{
			MinBytes: cfg.MinUploadBytes,
			MaxBytes: cfg.MaxUploadBytes,
		},
	})

	return &App{
		LLM:       client,
		Store:     store,
		StaticDir: staticDir,
		Menus:     menus,
	}, nil
}
