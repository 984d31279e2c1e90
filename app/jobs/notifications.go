package jobs

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/mail"
	"github.com/shashiranjanraj/galeria/pkg/notification"
)

// adminVia sends admin alerts by mail when an address is configured and
// always offers Slack; the notifier skips Slack without a webhook.
func adminVia(to string) []string {
	if to == "" {
		return []string{notification.Slack}
	}
	return []string{notification.Mail, notification.Slack}
}

var customerVia = []string{notification.Mail}

// ─── Orders ───────────────────────────────────────────────────────────────────

type OrderConfirmation struct {
	Order models.Order `json:"order"`
}

func (OrderConfirmation) Kind() string  { return "order_confirmation" }
func (OrderConfirmation) Via() []string { return customerVia }

func (n OrderConfirmation) ToMail() (mail.Message, error) {
	return mail.To(n.Order.ShippingInfo.Email).
		Subject("Confirmación de tu pedido " + n.Order.OrderNumber).
		Template("order_confirmation.html", n.Order).
		Message()
}

type AdminNewOrder struct {
	To    string       `json:"to"`
	Order models.Order `json:"order"`
}

func (AdminNewOrder) Kind() string    { return "admin_new_order" }
func (n AdminNewOrder) Via() []string { return adminVia(n.To) }

func (n AdminNewOrder) ToMail() (mail.Message, error) {
	return mail.To(n.To).
		Subject(fmt.Sprintf("Nuevo pedido %s por %s", n.Order.OrderNumber, mail.FormatCLP(n.Order.Total))).
		Template("admin_new_order.html", n.Order).
		Message()
}

func (n AdminNewOrder) ToSlack() notification.SlackData {
	return notification.SlackData{Attachments: []notification.SlackAttachment{{
		Color: "good",
		Title: "Nuevo pedido " + n.Order.OrderNumber,
		Text:  fmt.Sprintf("%s · %s", n.Order.ShippingInfo.FullName, mail.FormatCLP(n.Order.Total)),
	}}}
}

type OrderStatusUpdate struct {
	Order models.Order `json:"order"`
}

func (OrderStatusUpdate) Kind() string  { return "order_status" }
func (OrderStatusUpdate) Via() []string { return customerVia }

func (n OrderStatusUpdate) ToMail() (mail.Message, error) {
	return mail.To(n.Order.ShippingInfo.Email).
		Subject("Actualización de tu pedido " + n.Order.OrderNumber).
		Template("order_status.html", n.Order).
		Message()
}

// PendingDigest lists orders still pending past the cutoff.
type PendingDigest struct {
	To     string         `json:"to"`
	Orders []models.Order `json:"orders"`
	Cutoff time.Time      `json:"cutoff"`
}

func (PendingDigest) Kind() string    { return "pending_digest" }
func (n PendingDigest) Via() []string { return adminVia(n.To) }

func (n PendingDigest) ToMail() (mail.Message, error) {
	return mail.To(n.To).
		Subject(fmt.Sprintf("%d pedido(s) pendiente(s) hace más de 48 horas", len(n.Orders))).
		Template("pending_digest.html", n).
		Message()
}

func (n PendingDigest) ToSlack() notification.SlackData {
	return notification.SlackData{Text: fmt.Sprintf("%d pedido(s) siguen pendientes desde antes del %s",
		len(n.Orders), n.Cutoff.Format("02-01-2006 15:04"))}
}

// ─── Custom orders ────────────────────────────────────────────────────────────

type CustomOrderReceived struct {
	CustomOrder models.CustomOrder `json:"customOrder"`
}

func (CustomOrderReceived) Kind() string  { return "custom_order_received" }
func (CustomOrderReceived) Via() []string { return customerVia }

func (n CustomOrderReceived) ToMail() (mail.Message, error) {
	return mail.To(n.CustomOrder.Customer.Email).
		Subject("Recibimos tu solicitud " + n.CustomOrder.RequestNumber).
		Template("custom_order_received.html", n.CustomOrder).
		Message()
}

type AdminCustomOrder struct {
	To          string             `json:"to"`
	CustomOrder models.CustomOrder `json:"customOrder"`
}

func (AdminCustomOrder) Kind() string    { return "admin_custom_order" }
func (n AdminCustomOrder) Via() []string { return adminVia(n.To) }

func (n AdminCustomOrder) ToMail() (mail.Message, error) {
	return mail.To(n.To).
		Subject("Nueva solicitud de obra " + n.CustomOrder.RequestNumber).
		Template("admin_custom_order.html", n.CustomOrder).
		Message()
}

func (n AdminCustomOrder) ToSlack() notification.SlackData {
	return notification.SlackData{Attachments: []notification.SlackAttachment{{
		Title: "Nueva solicitud " + n.CustomOrder.RequestNumber,
		Text:  n.CustomOrder.Customer.Name,
	}}}
}

type CustomOrderUpdate struct {
	CustomOrder models.CustomOrder `json:"customOrder"`
}

func (CustomOrderUpdate) Kind() string  { return "custom_order_update" }
func (CustomOrderUpdate) Via() []string { return customerVia }

func (n CustomOrderUpdate) ToMail() (mail.Message, error) {
	return mail.To(n.CustomOrder.Customer.Email).
		Subject("Novedades de tu solicitud " + n.CustomOrder.RequestNumber).
		Template("custom_order_update.html", n.CustomOrder).
		Message()
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

type LowStockAlert struct {
	To       string          `json:"to"`
	Painting models.Painting `json:"painting"`
}

func (LowStockAlert) Kind() string    { return "low_stock" }
func (n LowStockAlert) Via() []string { return adminVia(n.To) }

func (n LowStockAlert) ToMail() (mail.Message, error) {
	return mail.To(n.To).
		Subject("Stock bajo: " + n.Painting.Title).
		Template("low_stock.html", n.Painting).
		Message()
}

func (n LowStockAlert) ToSlack() notification.SlackData {
	return notification.SlackData{Attachments: []notification.SlackAttachment{{
		Color: "warning",
		Title: "Stock bajo",
		Text:  n.Painting.Title,
	}}}
}

type ReviewPending struct {
	To            string        `json:"to"`
	Review        models.Review `json:"review"`
	PaintingTitle string        `json:"paintingTitle"`
}

func (ReviewPending) Kind() string    { return "review_pending" }
func (n ReviewPending) Via() []string { return adminVia(n.To) }

func (n ReviewPending) ToMail() (mail.Message, error) {
	subject := "Nueva reseña por moderar"
	if n.PaintingTitle != "" {
		subject += ": " + n.PaintingTitle
	}
	return mail.To(n.To).
		Subject(subject).
		Template("review_pending.html", n.Review).
		Message()
}

func (n ReviewPending) ToSlack() notification.SlackData {
	return notification.SlackData{Text: fmt.Sprintf("%s dejó una reseña de %d estrella(s)", n.Review.AuthorName, n.Review.Rating)}
}
