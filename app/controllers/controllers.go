// Package controllers holds the HTTP handlers. Each handler binds input,
// calls one service and answers with the JSON envelope; domain errors are
// translated to status codes and Spanish messages in fail.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
	"github.com/shashiranjanraj/galeria/pkg/logger"
	"github.com/shashiranjanraj/galeria/pkg/storage"
)

var couponMessages = map[error]string{
	services.ErrCouponNotFound:     "El cupón no existe",
	services.ErrCouponInactive:     "El cupón no está activo",
	services.ErrCouponNotYetValid:  "El cupón aún no es válido",
	services.ErrCouponExpired:      "El cupón ha expirado",
	services.ErrCouponLimitReached: "El cupón alcanzó su límite de usos",
	services.ErrCouponBelowMinimum: "El monto mínimo de compra para este cupón no se alcanza",
}

var itemMessages = map[error]string{
	services.ErrInvalidQuantity:     "La cantidad de cada obra debe estar entre 1 y 99",
	services.ErrPaintingNotFound:    "Una de las obras no existe",
	services.ErrPaintingUnavailable: "Una de las obras ya no está disponible",
	services.ErrInsufficientStock:   "No hay stock suficiente para una de las obras",
	services.ErrAmountTooLarge:      "El monto del carrito excede el máximo permitido",
}

// couponRejection is the data payload sent next to a refused coupon. Quote
// or Totals carry the undiscounted prices when the caller has them.
type couponRejection struct {
	Reason      string           `json:"reason"`
	MinPurchase int64            `json:"minPurchase,omitempty"`
	Quote       *services.Quote  `json:"quote,omitempty"`
	Totals      *services.Totals `json:"totals,omitempty"`
}

// fail writes the response for err. Unknown errors are logged and become a
// 500 without leaking details.
func fail(x *ctx.Context, err error) {
	var (
		verr services.ValidationError
		cerr *services.CouponError
		ierr *services.ItemError
	)
	switch {
	case errors.As(err, &verr):
		x.ValidationError(verr)
	case errors.As(err, &cerr):
		rejectCoupon(x, cerr, couponRejection{})
	case errors.As(err, &ierr):
		x.ErrorWith(http.StatusUnprocessableEntity, itemMessages[ierr.Reason], map[string]string{
			"paintingId": ierr.PaintingID,
		})
	case errors.Is(err, services.ErrNotFound):
		x.NotFound()
	case errors.Is(err, services.ErrEmptyCart):
		x.Error(http.StatusUnprocessableEntity, "El carrito está vacío")
	case errors.Is(err, services.ErrInvalidCredentials):
		x.Error(http.StatusUnauthorized, "Credenciales inválidas")
	case errors.Is(err, services.ErrEmailTaken):
		x.ValidationError(map[string]string{"email": "El correo ya está registrado"})
	case errors.Is(err, services.ErrUnknownSettings):
		x.NotFound("Configuración desconocida")
	case errors.Is(err, services.ErrMalformedSettings):
		x.Error(http.StatusBadRequest, "Documento de configuración inválido")
	case errors.Is(err, storage.ErrFolderNotAllowed):
		x.ValidationError(map[string]string{"folder": "Carpeta no permitida"})
	case errors.Is(err, storage.ErrInvalidPath):
		x.ValidationError(map[string]string{"path": "Ruta inválida"})
	default:
		logger.WithCtx(x.Context()).Error("request failed", "path", x.R.URL.Path, "error", err)
		x.Error(http.StatusInternalServerError, "Error interno del servidor")
	}
}

// rejectCoupon answers a refused coupon. An unknown code is a 404; every
// other reason is a 422 carrying the machine-readable reason.
func rejectCoupon(x *ctx.Context, err *services.CouponError, data couponRejection) {
	status := http.StatusUnprocessableEntity
	if errors.Is(err, services.ErrCouponNotFound) {
		status = http.StatusNotFound
	}
	data.Reason = err.ReasonCode()
	data.MinPurchase = err.MinPurchase
	x.ErrorWith(status, couponMessages[err.Reason], data)
}

func page(x *ctx.Context) models.Page {
	return models.Page{Number: x.IntQuery("page", 1), PerPage: x.IntQuery("perPage", models.DefaultPerPage)}.Normalize()
}

func optionalBool(x *ctx.Context, key string) *bool {
	if v, ok := x.BoolQuery(key); ok {
		return &v
	}
	return nil
}
