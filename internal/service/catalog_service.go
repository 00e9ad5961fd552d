package service

import (
	"context"

	"github.com/lecternhq/lectern/internal/domain"
	"github.com/lecternhq/lectern/internal/repository"
)

// CatalogService reports analytics over the course catalog
type CatalogService struct {
	catalog *repository.CourseRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalog *repository.CourseRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Stats returns the catalog size and every course title
func (s *CatalogService) Stats(ctx context.Context) (*domain.CourseStats, error) {
	count, err := s.catalog.Count(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := s.catalog.Titles(ctx)
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}

	return &domain.CourseStats{
		TotalCourses: count,
		CourseTitles: titles,
	}, nil
}
