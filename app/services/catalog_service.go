package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
)

// PaintingInput is the admin create/update payload.
type PaintingInput struct {
	Title             string            `json:"title" validate:"required,max=255"`
	Description       string            `json:"description" validate:"nullable,max=5000"`
	ImageURL          string            `json:"imageUrl" validate:"nullable,url"`
	Images            []string          `json:"images" validate:"max=20"`
	Price             int64             `json:"price" validate:"gt=0"`
	Dimensions        models.Dimensions `json:"dimensions" validate:"dive"`
	Category          string            `json:"category" validate:"nullable,max=100"`
	Technique         string            `json:"technique" validate:"nullable,max=100"`
	Year              int               `json:"year" validate:"nullable,between=1900,2100"`
	Available         *bool             `json:"available"`
	Stock             *int              `json:"stock" validate:"nullable,gte=0"`
	LowStockThreshold *int              `json:"lowStockThreshold" validate:"nullable,gte=0"`
	Featured          bool              `json:"featured"`
}

func (in PaintingInput) apply(p *models.Painting) {
	p.Title = in.Title
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Images = in.Images
	p.Price = in.Price
	p.Dimensions = in.Dimensions
	p.Category = in.Category
	p.Technique = in.Technique
	p.Year = in.Year
	p.Stock = in.Stock
	p.LowStockThreshold = in.LowStockThreshold
	p.Featured = in.Featured
	if in.Available != nil {
		p.Available = *in.Available
	}
	if p.ImageURL == "" && len(p.Images) > 0 {
		p.ImageURL = p.Images[0]
	}
}

type CatalogService struct {
	paintings repositories.PaintingRepository
}

func NewCatalogService(paintings repositories.PaintingRepository) *CatalogService {
	return &CatalogService{paintings: paintings}
}

func (s *CatalogService) List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, models.PageMeta, error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.paintings.List(ctx, f)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list paintings: %w", err)
	}
	return items, models.NewPageMeta(f.Page, total), nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Painting, error) {
	return s.paintings.Get(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in PaintingInput) (*models.Painting, error) {
	p := &models.Painting{Available: true}
	in.apply(p)
	if err := s.paintings.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create painting: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, in PaintingInput) (*models.Painting, error) {
	p, err := s.paintings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.paintings.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update painting: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.paintings.Delete(ctx, id)
}
