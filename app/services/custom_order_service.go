package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
)

type CustomOrderInput struct {
	Customer        models.Customer   `json:"customer" validate:"dive"`
	Description     string            `json:"description" validate:"required,max=5000"`
	Size            models.Dimensions `json:"size" validate:"dive"`
	Style           string            `json:"style" validate:"nullable,max=100"`
	Budget          int64             `json:"budget" validate:"gte=0"`
	ReferenceImages []string          `json:"referenceImages" validate:"max=10"`
	Deadline        *time.Time        `json:"deadline"`
}

// CustomOrderUpdate is the admin patch. Nil fields are left alone.
type CustomOrderUpdate struct {
	Status      *models.CustomOrderStatus `json:"status" validate:"nullable,in=pending,quoted,accepted,in_progress,completed,cancelled"`
	QuotedPrice *int64                    `json:"quotedPrice" validate:"nullable,gte=0"`
	AdminNotes  *string                   `json:"adminNotes" validate:"nullable,max=5000"`
}

type CustomOrderService struct {
	requests repositories.CustomOrderRepository
	events   events.Firer
	now      Clock
}

func NewCustomOrderService(requests repositories.CustomOrderRepository, ev events.Firer, now Clock) *CustomOrderService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &CustomOrderService{requests: requests, events: ev, now: orClock(now)}
}

// requestNumber is SOL-YYYYMMDD-XXXXXX.
func (s *CustomOrderService) requestNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "SOL-" + s.now().Format("20060102") + "-" + suffix
}

func (s *CustomOrderService) Submit(ctx context.Context, in CustomOrderInput) (*models.CustomOrder, error) {
	if in.Deadline != nil && in.Deadline.Before(s.now()) {
		return nil, ValidationError{"deadline": "La fecha límite debe ser futura."}
	}

	c := &models.CustomOrder{
		Customer:        in.Customer,
		Description:     in.Description,
		Size:            in.Size,
		Style:           in.Style,
		Budget:          in.Budget,
		ReferenceImages: in.ReferenceImages,
		Deadline:        in.Deadline,
		Status:          models.CustomPending,
	}

	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		c.ID = ""
		c.RequestNumber = s.requestNumber()
		if err = s.requests.Create(ctx, c); !errors.Is(err, repositories.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create custom order: %w", err)
	}

	s.events.FireAsync(ctx, events.CustomOrderCreated, events.CustomOrderPlaced{CustomOrder: *c})
	return c, nil
}

func (s *CustomOrderService) List(ctx context.Context, status models.CustomOrderStatus, page models.Page) ([]models.CustomOrder, models.PageMeta, error) {
	page = page.Normalize()
	items, total, err := s.requests.List(ctx, status, page)
	if err != nil {
		return nil, models.PageMeta{}, fmt.Errorf("list custom orders: %w", err)
	}
	return items, models.NewPageMeta(page, total), nil
}

func (s *CustomOrderService) Get(ctx context.Context, id string) (*models.CustomOrder, error) {
	return s.requests.Get(ctx, id)
}

// Update applies an admin patch. Setting a price on a pending request moves
// it to quoted.
func (s *CustomOrderService) Update(ctx context.Context, id string, in CustomOrderUpdate) (*models.CustomOrder, error) {
	if in.Status != nil && !models.ValidCustomOrderStatus(*in.Status) {
		return nil, ValidationError{"status": "Estado de solicitud desconocido."}
	}

	c, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	change := events.CustomOrderChanged{PreviousStatus: c.Status, PreviousQuote: c.QuotedPrice}

	if in.QuotedPrice != nil {
		c.QuotedPrice = *in.QuotedPrice
		if c.Status == models.CustomPending && c.QuotedPrice > 0 && in.Status == nil {
			c.Status = models.CustomQuoted
		}
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.AdminNotes != nil {
		c.AdminNotes = *in.AdminNotes
	}

	if err := s.requests.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update custom order: %w", err)
	}

	change.CustomOrder = *c
	if change.Notify() {
		s.events.FireAsync(ctx, events.CustomOrderUpdated, change)
	}
	return c, nil
}

func (s *CustomOrderService) Delete(ctx context.Context, id string) error {
	return s.requests.Delete(ctx, id)
}
