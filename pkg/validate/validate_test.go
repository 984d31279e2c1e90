package validate_test

import (
	"strings"
	"testing"

	"github.com/shashiranjanraj/galeria/pkg/validate"
)

type shippingInput struct {
	Name    string `json:"name"    validate:"required,min=2,max=120"`
	Email   string `json:"email"   validate:"required,email"`
	Phone   string `json:"phone"   validate:"required,phone"`
	Address string `json:"address" validate:"required,max=255"`
	Region  string `json:"region"  validate:"nullable,max=80"`
}

type lineInput struct {
	PaintingID string `json:"paintingId" validate:"required"`
	Quantity   int    `json:"quantity"   validate:"required,gte=1,lte=99"`
}

type checkoutInput struct {
	Shipping shippingInput `json:"shipping"      validate:"required,dive"`
	Items    []lineInput   `json:"items"         validate:"required,min=1,dive"`
	Coupon   string        `json:"couponCode"    validate:"nullable,alpha_dash,max=40"`
	Payment  string        `json:"paymentMethod" validate:"required,in=webpay,transfer,mercadopago"`
}

func validCheckout() checkoutInput {
	return checkoutInput{
		Shipping: shippingInput{
			Name:    "Valentina Rojas",
			Email:   "vale@example.cl",
			Phone:   "+56 9 1234 5678",
			Address: "Av. Providencia 1234",
		},
		Items:   []lineInput{{PaintingID: "p1", Quantity: 1}},
		Payment: "webpay",
	}
}

func TestValidInput(t *testing.T) {
	if errs := validate.Struct(validCheckout()); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(checkoutInput{})
	for _, field := range []string{"items", "paymentMethod"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required, got %v", field, errs)
		}
	}
	if !strings.Contains(errs["items"], "obligatorio") {
		t.Errorf("expected Spanish message, got %q", errs["items"])
	}
}

func TestDiveUsesDottedPaths(t *testing.T) {
	in := validCheckout()
	in.Shipping.Email = "no-es-correo"
	in.Items = append(in.Items, lineInput{PaintingID: "p2", Quantity: 0})

	errs := validate.Struct(in)
	if _, ok := errs["shipping.email"]; !ok {
		t.Errorf("expected shipping.email error, got %v", errs)
	}
	if _, ok := errs["items.1.quantity"]; !ok {
		t.Errorf("expected items.1.quantity error, got %v", errs)
	}
	if _, ok := errs["items.0.quantity"]; ok {
		t.Errorf("first line is valid, got %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Value int64 `json:"value" validate:"required,gt=0"`
		Pct   int   `json:"pct"   validate:"nullable,between=1,100"`
	}
	if errs := validate.Struct(in{Value: -5}); !validate.HasErrors(errs) {
		t.Error("expected negative value to fail")
	}
	if errs := validate.Struct(in{Value: 10, Pct: 101}); !validate.HasErrors(errs) {
		t.Error("expected pct > 100 to fail")
	}
	if errs := validate.Struct(in{Value: 10, Pct: 15}); validate.HasErrors(errs) {
		t.Errorf("expected 15 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Type string `json:"type" validate:"required,in=percentage,fixed,max=20"`
	}
	if errs := validate.Struct(in{Type: "bogo"}); !validate.HasErrors(errs) {
		t.Error("expected unknown type to fail")
	}
	if errs := validate.Struct(in{Type: "fixed"}); validate.HasErrors(errs) {
		t.Errorf("expected fixed to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Website string `json:"website" validate:"nullable,url"`
	}
	if errs := validate.Struct(in{Website: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Website: "ftp://galeria.cl"}); !validate.HasErrors(errs) {
		t.Error("expected non-http URL to fail")
	}
}

func TestSlugAndUUID(t *testing.T) {
	type in struct {
		Slug string `json:"slug" validate:"required,slug"`
		ID   string `json:"id"   validate:"nullable,uuid"`
	}
	if errs := validate.Struct(in{Slug: "paisajes-del-sur"}); validate.HasErrors(errs) {
		t.Errorf("expected slug to pass: %v", errs)
	}
	if errs := validate.Struct(in{Slug: "Paisajes del Sur"}); !validate.HasErrors(errs) {
		t.Error("expected slug with spaces to fail")
	}
	if errs := validate.Struct(in{Slug: "ok", ID: "123"}); !validate.HasErrors(errs) {
		t.Error("expected malformed uuid to fail")
	}
}

func TestStringLengthCountsRunes(t *testing.T) {
	type in struct {
		Title string `json:"title" validate:"required,max=5"`
	}
	if errs := validate.Struct(in{Title: "Otoño"}); validate.HasErrors(errs) {
		t.Errorf("expected 5 runes to pass: %v", errs)
	}
}
