package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/models"
)

type captureMailer struct{ sent []Message }

func (c *captureMailer) Send(_ context.Context, m Message) error {
	c.sent = append(c.sent, m)
	return nil
}

func TestFormatCLP(t *testing.T) {
	cases := map[int64]string{
		0:       "$0",
		999:     "$999",
		5000:    "$5.000",
		97000:   "$97.000",
		1250000: "$1.250.000",
		-8000:   "-$8.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCLP(in), "amount %d", in)
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	o := models.Order{
		OrderNumber: "ORD-20260101-1A2B3C4D",
		Items: []models.OrderItem{
			{Title: "Atardecer en Valparaíso", UnitPrice: 100000, Quantity: 1, LineTotal: 100000},
		},
		Subtotal:     100000,
		ShippingCost: 5000,
		Discount:     8000,
		Total:        97000,
		CouponCode:   "VERANO10",
		ShippingInfo: models.ShippingInfo{FullName: "Ana Pérez", Address: "Av. Brasil 123", City: "Valparaíso", Region: "Valparaíso"},
	}
	o.CreatedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	html, err := Render("order_confirmation.html", o)
	require.NoError(t, err)
	assert.Contains(t, html, "ORD-20260101-1A2B3C4D")
	assert.Contains(t, html, "$97.000")
	assert.Contains(t, html, "VERANO10")
	assert.Contains(t, html, "Ana Pérez")
}

func TestRenderStatusLabels(t *testing.T) {
	o := models.Order{OrderNumber: "ORD-1", Status: models.OrderShipped, ShippingStatus: models.ShippingShipped, TrackingNumber: "CX123"}
	html, err := Render("order_status.html", o)
	require.NoError(t, err)
	assert.Contains(t, html, "Enviado")
	assert.Contains(t, html, "CX123")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing.html", nil)
	assert.Error(t, err)
}

func TestBuilderSendWith(t *testing.T) {
	m := &captureMailer{}
	err := To(" ana@example.com ", "").
		Subject("Hola").
		Template("review_pending.html", models.Review{AuthorName: "Luis", Rating: 5, Comment: "Precioso"}).
		SendWith(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, m.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, m.sent[0].To)
	assert.True(t, strings.Contains(m.sent[0].HTML, "Precioso"))
}

func TestBuilderWithoutRecipients(t *testing.T) {
	err := To().Subject("x").Body("<p>x</p>").SendWith(context.Background(), &captureMailer{})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestBuildRawEncodesSubject(t *testing.T) {
	raw := string(buildRaw(SMTP{From: "a@b.cl", FromName: "Galería"}, Message{To: []string{"x@y.cl"}, Subject: "Confirmación", HTML: "<p>ok</p>"}))
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: text/html")
}
