package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
)

// ─── Blog ─────────────────────────────────────────────────────────────────────

type BlogInput struct {
	Title         string   `json:"title" validate:"required,max=255"`
	Slug          string   `json:"slug" validate:"nullable,slug,max=255"`
	Excerpt       string   `json:"excerpt" validate:"nullable,max=500"`
	Content       string   `json:"content" validate:"required"`
	CoverImageURL string   `json:"coverImageUrl" validate:"nullable,url"`
	Tags          []string `json:"tags" validate:"max=20"`
	Published     bool     `json:"published"`
}

type BlogService struct {
	posts repositories.BlogRepository
	now   Clock
}

func NewBlogService(posts repositories.BlogRepository, now Clock) *BlogService {
	return &BlogService{posts: posts, now: orClock(now)}
}

// Slugify lowercases title, strips accents and joins words with dashes:
// "Óleos de Otoño" → "oleos-de-otono".
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// uniqueSlug appends -2, -3 … until no other post uses the slug.
func (s *BlogService) uniqueSlug(ctx context.Context, base, exceptID string) (string, error) {
	if base == "" {
		base = "entrada"
	}
	slug := base
	for n := 2; ; n++ {
		taken, err := s.posts.SlugTaken(ctx, slug, exceptID)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}

func (s *BlogService) apply(ctx context.Context, p *models.BlogPost, in BlogInput) error {
	base := in.Slug
	if base == "" {
		base = Slugify(in.Title)
	}
	slug, err := s.uniqueSlug(ctx, base, p.ID)
	if err != nil {
		return err
	}
	p.Title = in.Title
	p.Slug = slug
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.CoverImageURL = in.CoverImageURL
	p.Tags = in.Tags
	p.Published = in.Published
	if p.Published && p.PublishedAt == nil {
		now := s.now()
		p.PublishedAt = &now
	}
	return nil
}

// List shows drafts only when publishedOnly is false (admin).
func (s *BlogService) List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, models.PageMeta, error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.posts.List(ctx, f)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list posts: %w", err)
	}
	return items, models.NewPageMeta(f.Page, total), nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	return s.posts.Get(ctx, id)
}

// Published returns a published post by slug. Drafts read as not found.
func (s *BlogService) Published(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *BlogService) Create(ctx context.Context, in BlogInput) (*models.BlogPost, error) {
	p := &models.BlogPost{}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, duplicateSlug(err)
	}
	return p, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (*models.BlogPost, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, duplicateSlug(err)
	}
	return p, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	return s.posts.Delete(ctx, id)
}

func duplicateSlug(err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return ValidationError{"slug": "Ya existe una entrada con ese slug."}
	}
	return err
}

// ─── Reviews ──────────────────────────────────────────────────────────────────

type ReviewInput struct {
	PaintingID  string `json:"paintingId" validate:"nullable,max=64"`
	AuthorName  string `json:"authorName" validate:"required,max=120"`
	AuthorEmail string `json:"authorEmail" validate:"nullable,email"`
	Rating      int    `json:"rating" validate:"between=1,5"`
	Comment     string `json:"comment" validate:"required,max=2000"`
}

type ReviewService struct {
	reviews   repositories.ReviewRepository
	paintings repositories.PaintingRepository
	events    events.Firer
}

func NewReviewService(reviews repositories.ReviewRepository, paintings repositories.PaintingRepository, ev events.Firer) *ReviewService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &ReviewService{reviews: reviews, paintings: paintings, events: ev}
}

// Submit stores a review for moderation. It is hidden until approved.
func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (*models.Review, error) {
	var title string
	if in.PaintingID != "" {
		p, err := s.paintings.Get(ctx, in.PaintingID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ValidationError{"paintingId": "La obra indicada no existe."}
		}
		if err != nil {
			return nil, err
		}
		title = p.Title
	}

	r := &models.Review{
		PaintingID:  in.PaintingID,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Rating:      in.Rating,
		Comment:     in.Comment,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.events.FireAsync(ctx, events.ReviewCreated, events.ReviewSubmitted{Review: *r, PaintingTitle: title})
	return r, nil
}

func (s *ReviewService) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, models.PageMeta, error) {
	f.Page = f.Page.Normalize()
	items, total, err := s.reviews.List(ctx, f)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list reviews: %w", err)
	}
	return items, models.NewPageMeta(f.Page, total), nil
}

func (s *ReviewService) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	return s.reviews.SetApproved(ctx, id, approved)
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	return s.reviews.Delete(ctx, id)
}
