package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/orm"
	"gorm.io/gorm"
)

type sqlOrders struct{ db *gorm.DB }

func (r *sqlOrders) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	page := f.Page.Normalize()
	var out []models.Order
	total, err := orm.New(ctx, r.db).Model(&models.Order{}).
		WhereIf(f.Status != "", "status = ?", f.Status).
		WhereIf(f.CustomerID != "", "customer_id = ?", f.CustomerID).
		WhereIf(!f.CreatedBefore.IsZero(), "created_at < ?", f.CreatedBefore).
		Order("created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("orders.list", err)
}

func (r *sqlOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&o); err != nil {
		return nil, sqlErr("orders.get", err)
	}
	return &o, nil
}

func (r *sqlOrders) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	if err := orm.New(ctx, r.db).Where("order_number = ?", number).First(&o); err != nil {
		return nil, sqlErr("orders.find_by_number", err)
	}
	return &o, nil
}

func (r *sqlOrders) Update(ctx context.Context, o *models.Order) error {
	return mustAffect("orders.update", saveAll(r.db.WithContext(ctx), o))
}

func (r *sqlOrders) Delete(ctx context.Context, id string) error {
	return mustAffect("orders.delete", r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id))
}

func (r *sqlOrders) Stats(ctx context.Context) (models.OrderStats, error) {
	stats := models.OrderStats{ByStatus: make(map[models.OrderStatus]int64)}

	var rows []struct {
		Status models.OrderStatus
		N      int64
	}
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return stats, sqlErr("orders.stats", err)
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.N
	}

	if err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("status <> ?", models.OrderCancelled).
		Scan(&stats.Revenue).Error; err != nil {
		return stats, sqlErr("orders.stats", err)
	}
	return stats, nil
}

func (r *sqlOrders) PlaceOrder(ctx context.Context, o *models.Order) error {
	if err := checkQuantities(o.Items); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			res := tx.Model(&models.Painting{}).
				Where("id = ? AND (stock IS NULL OR stock >= ?)", it.PaintingID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return sqlErr("orders.place.stock", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
			if err := tx.Model(&models.Painting{}).
				Where("id = ? AND stock IS NOT NULL AND stock <= 0", it.PaintingID).
				Update("available", false).Error; err != nil {
				return sqlErr("orders.place.sold_out", err)
			}
		}

		if o.CouponID != "" {
			res := tx.Model(&models.Coupon{}).
				Where("id = ? AND (usage_limit = 0 OR usage_count < usage_limit)", o.CouponID).
				Updates(map[string]interface{}{
					"usage_count": gorm.Expr("usage_count + 1"),
					"updated_at":  time.Now().UTC(),
				})
			if res.Error != nil {
				return sqlErr("orders.place.coupon", res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrCouponLimitReached
			}
		}

		return sqlErr("orders.place.insert", tx.Create(o).Error)
	})
}
