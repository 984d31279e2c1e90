package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/orm"
	"gorm.io/gorm"
)

type sqlCoupons struct{ db *gorm.DB }

func (r *sqlCoupons) List(ctx context.Context, page models.Page) ([]models.Coupon, int64, error) {
	page = page.Normalize()
	var out []models.Coupon
	total, err := orm.New(ctx, r.db).Model(&models.Coupon{}).
		Order("created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("coupons.list", err)
}

func (r *sqlCoupons) Get(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&c); err != nil {
		return nil, sqlErr("coupons.get", err)
	}
	return &c, nil
}

func (r *sqlCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	if err := orm.New(ctx, r.db).Where("code = ?", models.NormalizeCode(code)).First(&c); err != nil {
		return nil, sqlErr("coupons.find_by_code", err)
	}
	return &c, nil
}

func (r *sqlCoupons) Create(ctx context.Context, c *models.Coupon) error {
	c.Code = models.NormalizeCode(c.Code)
	return sqlErr("coupons.create", r.db.WithContext(ctx).Create(c).Error)
}

func (r *sqlCoupons) Update(ctx context.Context, c *models.Coupon) error {
	c.Code = models.NormalizeCode(c.Code)
	// usage_count only moves through PlaceOrder.
	res := r.db.WithContext(ctx).Model(c).Select("*").Omit("id", "created_at", "usage_count").Updates(c)
	return mustAffect("coupons.update", res)
}

func (r *sqlCoupons) Delete(ctx context.Context, id string) error {
	return mustAffect("coupons.delete", r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id))
}

func (r *sqlCoupons) SetActive(ctx context.Context, id string, active bool) (*models.Coupon, error) {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": active, "updated_at": time.Now().UTC()})
	if err := mustAffect("coupons.set_active", res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *sqlCoupons) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("is_active = ? AND valid_until IS NOT NULL AND valid_until < ?", true, now).
		Count(&n).Error
	return n, sqlErr("coupons.count_expired", err)
}
