package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// LibraryAssetRepository reads the content library catalog.
type LibraryAssetRepository struct {
	DB *sql.DB
}

func NewLibraryAssetRepository(db *sql.DB) *LibraryAssetRepository {
	return &LibraryAssetRepository{DB: db}
}

func (r *LibraryAssetRepository) FindBySlug(ctx context.Context, slug string) (*entity.LibraryAsset, error) {
	query := `SELECT slug, title, file_url FROM library_assets WHERE slug = $1`

	asset := &entity.LibraryAsset{}
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(&asset.Slug, &asset.Title, &asset.FileURL)
	if err != nil {
		return nil, err
	}
	return asset, nil
}
