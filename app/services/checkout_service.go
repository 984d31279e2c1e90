package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/galeria/app/events"
	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/metrics"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 99")
	ErrPaintingNotFound    = errors.New("painting not found")
	ErrPaintingUnavailable = errors.New("painting unavailable")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrAmountTooLarge      = errors.New("cart amount too large")
)

// MaxLineQuantity caps one painting's quantity after repeated lines are
// merged.
const MaxLineQuantity = 99

// MaxAmount caps any subtotal the API prices, in pesos.
const MaxAmount int64 = 1_000_000_000_000

// maxNumberAttempts bounds retries when a generated order number collides.
const maxNumberAttempts = 3

// ItemError ties a cart failure to the painting that caused it. PaintingID
// is empty when the store reported the failure without naming the line.
type ItemError struct {
	Reason     error
	PaintingID string
}

func (e *ItemError) Error() string {
	if e.PaintingID == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("painting %s: %v", e.PaintingID, e.Reason)
}

func (e *ItemError) Unwrap() error { return e.Reason }

type CartLine struct {
	PaintingID string `json:"paintingId" validate:"required,max=64"`
	Quantity   int    `json:"quantity" validate:"gte=1,lte=99"`
}

type QuoteRequest struct {
	Items      []CartLine `json:"items" validate:"dive"`
	CouponCode string     `json:"couponCode" validate:"nullable,max=64"`
}

type CheckoutRequest struct {
	Items         []CartLine          `json:"items" validate:"dive"`
	CouponCode    string              `json:"couponCode" validate:"nullable,max=64"`
	ShippingInfo  models.ShippingInfo `json:"shippingInfo" validate:"dive"`
	PaymentMethod string              `json:"paymentMethod" validate:"required,in=transfer,card,cash"`
	CustomerID    string              `json:"-"`
}

// Quote is a priced cart. Coupon is nil when no code was applied.
type Quote struct {
	Items  []models.OrderItem `json:"items"`
	Coupon *CouponSummary     `json:"coupon,omitempty"`
	Totals
	coupon *models.Coupon
}

type CheckoutService struct {
	paintings repositories.PaintingRepository
	orders    repositories.OrderRepository
	coupons   *CouponService
	events    events.Firer
	shipping  int64
	now       Clock
}

func NewCheckoutService(
	paintings repositories.PaintingRepository,
	orders repositories.OrderRepository,
	coupons *CouponService,
	ev events.Firer,
	shipping int64,
	now Clock,
) *CheckoutService {
	if ev == nil {
		ev = events.Nop{}
	}
	return &CheckoutService{
		paintings: paintings,
		orders:    orders,
		coupons:   coupons,
		events:    ev,
		shipping:  shipping,
		now:       orClock(now),
	}
}

// mergeLines folds repeated paintings into one line, ordered by first
// appearance.
func mergeLines(lines []CartLine) ([]CartLine, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	index := make(map[string]int, len(lines))
	out := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.PaintingID)
		if l.Quantity < 1 || l.Quantity > MaxLineQuantity {
			return nil, &ItemError{Reason: ErrInvalidQuantity, PaintingID: id}
		}
		if i, ok := index[id]; ok {
			// both sides are at most MaxLineQuantity, so the sum cannot wrap
			if out[i].Quantity+l.Quantity > MaxLineQuantity {
				return nil, &ItemError{Reason: ErrInvalidQuantity, PaintingID: id}
			}
			out[i].Quantity += l.Quantity
			continue
		}
		index[id] = len(out)
		out = append(out, CartLine{PaintingID: id, Quantity: l.Quantity})
	}
	return out, nil
}

// price loads every painting from the store and snapshots its current
// price. Client-side prices are never read.
func (s *CheckoutService) price(ctx context.Context, lines []CartLine) ([]models.OrderItem, int64, error) {
	lines, err := mergeLines(lines)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.PaintingID
	}
	found, err := s.paintings.GetMany(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load cart paintings: %w", err)
	}

	items := make([]models.OrderItem, 0, len(lines))
	var subtotal int64
	for _, l := range lines {
		p, ok := found[l.PaintingID]
		switch {
		case !ok:
			return nil, 0, &ItemError{Reason: ErrPaintingNotFound, PaintingID: l.PaintingID}
		case !p.Available:
			return nil, 0, &ItemError{Reason: ErrPaintingUnavailable, PaintingID: l.PaintingID}
		case p.TracksStock() && *p.Stock < l.Quantity:
			return nil, 0, &ItemError{Reason: ErrInsufficientStock, PaintingID: l.PaintingID}
		case p.Price < 0 || p.Price > (MaxAmount-subtotal)/int64(l.Quantity):
			return nil, 0, &ItemError{Reason: ErrAmountTooLarge, PaintingID: l.PaintingID}
		}
		line := p.Price * int64(l.Quantity)
		items = append(items, models.OrderItem{
			PaintingID: p.ID,
			Title:      p.Title,
			ImageURL:   p.ImageURL,
			UnitPrice:  p.Price,
			Quantity:   l.Quantity,
			LineTotal:  line,
		})
		subtotal += line
	}
	return items, subtotal, nil
}

// Quote prices a cart without persisting anything. When the coupon is
// refused the returned quote is still priced, without a discount, alongside
// the *CouponError. Quoting the same cart and code twice yields the same
// numbers.
func (s *CheckoutService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	items, subtotal, err := s.price(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	q := &Quote{Items: items, Totals: ComputeTotals(subtotal, s.shipping, nil)}
	if strings.TrimSpace(req.CouponCode) == "" {
		return q, nil
	}

	c, err := s.coupons.Validate(ctx, req.CouponCode, subtotal)
	if err != nil {
		return q, err
	}
	q.coupon = c
	q.Coupon = summarize(c)
	q.Totals = ComputeTotals(subtotal, s.shipping, c)
	return q, nil
}

// PlaceOrder reprices the cart, then inserts the order, decrements stock
// and redeems the coupon in one store transaction. Events fire only after
// the commit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	q, err := s.Quote(ctx, QuoteRequest{Items: req.Items, CouponCode: req.CouponCode})
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	order := &models.Order{
		CustomerID:   req.CustomerID,
		Items:        q.Items,
		Subtotal:     q.Subtotal,
		ShippingCost: q.ShippingCost,
		Discount:     q.Discount,
		Total:        q.Total,
		ShippingInfo: req.ShippingInfo,
		PaymentInfo: models.PaymentInfo{
			Method: req.PaymentMethod,
			Status: models.PaymentPending,
		},
		Status:         models.OrderPending,
		ShippingStatus: models.ShippingPending,
	}
	if q.coupon != nil {
		order.CouponID = q.coupon.ID
		order.CouponCode = q.coupon.Code
	}

	for attempt := 1; ; attempt++ {
		order.ID = ""
		order.OrderNumber = s.orderNumber()
		err = s.orders.PlaceOrder(ctx, order)
		if !errors.Is(err, repositories.ErrDuplicate) || attempt == maxNumberAttempts {
			break
		}
		logger.WithCtx(ctx).Warn("order number collision, retrying", "order_number", order.OrderNumber)
	}

	switch {
	case errors.Is(err, repositories.ErrCouponLimitReached):
		err = rejectCoupon(ErrCouponLimitReached, order.CouponCode, 0)
	case errors.Is(err, repositories.ErrInsufficientStock):
		err = &ItemError{Reason: ErrInsufficientStock}
	case errors.Is(err, repositories.ErrInvalidQuantity):
		err = &ItemError{Reason: ErrInvalidQuantity}
	case err != nil:
		err = fmt.Errorf("place order: %w", err)
	}
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	metrics.RecordOrderPlaced(order.Total, order.Discount, order.CouponID != "")
	logger.WithCtx(ctx).Info("order placed",
		"order_number", order.OrderNumber, "total", order.Total, "coupon", order.CouponCode)

	s.events.FireAsync(ctx, events.OrderCreated, events.OrderPlaced{Order: *order})
	s.fireLowStock(ctx, order.Items)
	return order, nil
}

// fireLowStock rereads the ordered paintings after the commit and alerts
// for tracked ones at or below their threshold.
func (s *CheckoutService) fireLowStock(ctx context.Context, items []models.OrderItem) {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.PaintingID
	}
	found, err := s.paintings.GetMany(ctx, ids)
	if err != nil {
		logger.WithCtx(ctx).Warn("low stock check failed", "error", err)
		return
	}
	sort.Strings(ids)
	for _, id := range ids {
		if p, ok := found[id]; ok && p.IsLowStock() {
			s.events.FireAsync(ctx, events.PaintingLowStock, events.LowStock{Painting: *p})
		}
	}
}

// orderNumber is ORD-YYYYMMDD-XXXXXXXX with eight random hex digits.
func (s *CheckoutService) orderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + s.now().Format("20060102") + "-" + suffix
}

func outcome(err error) string {
	var ce *CouponError
	var ie *ItemError
	if errors.As(err, &ce) || errors.As(err, &ie) || errors.Is(err, ErrEmptyCart) {
		return "rejected"
	}
	return "error"
}
