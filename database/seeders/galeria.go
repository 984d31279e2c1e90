package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/config"
	"github.com/shashiranjanraj/galeria/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("paintings", SeedPaintings)
	Register("coupons", SeedCoupons)
}

// SeedAdmin creates the back-office account from ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, store *repositories.Store) error {
	email := config.AdminEmail()
	if email == "" {
		email = "admin@galeria.local"
	}
	if _, err := store.Users.FindByEmail(ctx, email); !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "galeria-admin"))
	if err != nil {
		return err
	}
	return store.Users.Create(ctx, &models.User{
		Name: "Administración", Email: email, PasswordHash: hash, Role: auth.RoleAdmin,
	})
}

func intPtr(n int) *int { return &n }

// SeedPaintings adds a small demo catalog when the store has none.
func SeedPaintings(ctx context.Context, store *repositories.Store) error {
	_, total, err := store.Paintings.List(ctx, models.PaintingFilter{Page: models.Page{Number: 1, PerPage: 1}})
	if err != nil || total > 0 {
		return err
	}

	demo := []models.Painting{
		{
			Title: "Cerro Alegre al atardecer", Price: 180000, Category: "paisaje", Technique: "óleo",
			Year: 2024, Dimensions: models.Dimensions{Width: 60, Height: 80},
			Available: true, Featured: true, Stock: intPtr(1),
		},
		{
			Title: "Niebla en el puerto", Price: 120000, Category: "marina", Technique: "acuarela",
			Year: 2025, Dimensions: models.Dimensions{Width: 40, Height: 50}, Available: true,
		},
		{
			Title: "Lámina: Ascensor Artillería", Price: 25000, Category: "lamina", Technique: "impresión giclée",
			Year: 2025, Dimensions: models.Dimensions{Width: 30, Height: 40},
			Available: true, Stock: intPtr(20), LowStockThreshold: intPtr(3),
		},
	}
	for i := range demo {
		if err := store.Paintings.Create(ctx, &demo[i]); err != nil {
			return err
		}
	}
	return nil
}

// SeedCoupons adds the demo codes that are missing.
func SeedCoupons(ctx context.Context, store *repositories.Store) error {
	demo := []models.Coupon{
		{
			Code: "BIENVENIDA10", Description: "10% en tu primera compra",
			DiscountType: models.DiscountPercentage, DiscountValue: 10, MaxDiscount: 20000, IsActive: true,
		},
		{
			Code: "ENVIOGRATIS", Description: "Descuento equivalente al envío",
			DiscountType: models.DiscountFixed, DiscountValue: config.ShippingCost(), MinPurchase: 50000,
			UsageLimit: 100, IsActive: true,
		},
	}
	for i := range demo {
		_, err := store.Coupons.FindByCode(ctx, demo[i].Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if err := store.Coupons.Create(ctx, &demo[i]); err != nil {
			return err
		}
	}
	return nil
}
