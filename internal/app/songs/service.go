package songs

import (
	"context"

	"songfinder/internal/catalog"
)

// Catalog exposes the read queries required by the service.
type Catalog interface {
	ListActive(ctx context.Context) ([]catalog.Song, error)
	Search(ctx context.Context, filter catalog.Filter) ([]catalog.Song, error)
}

// Service exposes song-centric read operations.
type Service interface {
	List(ctx context.Context) ([]catalog.Song, error)
	Search(ctx context.Context, term string, genres []string) ([]catalog.Song, error)
}

type service struct {
	catalog Catalog
}

// New constructs a song Service backed by the provided catalog.
func New(c Catalog) Service {
	return &service{catalog: c}
}

func (s *service) List(ctx context.Context) ([]catalog.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.ListActive(ctx)
}

// Search normalizes the raw request values into a filter. A filter without
// term and genres behaves like List.
func (s *service) Search(ctx context.Context, term string, genres []string) ([]catalog.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Search(ctx, catalog.NewFilter(term, genres))
}
