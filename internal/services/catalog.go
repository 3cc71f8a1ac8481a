package services

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"labelpulse-api/internal/config"
	"labelpulse-api/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// CatalogService reads the JSON database document. The file is re-read on
// every call since an external process may replace it at any time.
type CatalogService struct {
	path     string
	validate *validator.Validate
}

func NewCatalogService(cfg *config.Config) *CatalogService {
	return &CatalogService{
		path:     cfg.DatabasePath,
		validate: validator.New(),
	}
}

// Load decodes and validates the document. Unknown keys are rejected so a
// document in a different schema fails here rather than deep in a handler.
func (s *CatalogService) Load(ctx context.Context) (*models.Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database: %w", err)
	}
	return DecodeDatabase(data, s.validate)
}

// Release looks a release up by id.
func (s *CatalogService) Release(ctx context.Context, id string) (*models.Release, *models.Database, error) {
	db, err := s.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range db.Releases {
		if db.Releases[i].ID == id {
			return &db.Releases[i], db, nil
		}
	}
	return nil, db, fmt.Errorf("release %q: %w", id, models.ErrNotFound)
}

// DecodeDatabase parses a database document strictly and validates it.
func DecodeDatabase(data []byte, validate *validator.Validate) (*models.Database, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var db models.Database
	if err := dec.Decode(&db); err != nil {
		return nil, fmt.Errorf("failed to decode database: %w", err)
	}

	if validate == nil {
		validate = validator.New()
	}
	if err := validate.Struct(&db); err != nil {
		return nil, fmt.Errorf("invalid database: %w", err)
	}
	return &db, nil
}

// WriteDatabase stores the document at path atomically.
func WriteDatabase(path string, db *models.Database) error {
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}

// SignalsFor returns the release's own market signals, or the document level
// ones when the release carries none.
func SignalsFor(release *models.Release, db *models.Database) models.MarketSignals {
	if release.MarketSignals != nil {
		return *release.MarketSignals
	}
	if db != nil {
		return db.MarketSignals
	}
	return models.MarketSignals{}
}
