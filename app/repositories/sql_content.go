package repositories

import (
	"context"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/orm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ─── Custom orders ───────────────────────────────────────────────────────────

type sqlCustomOrders struct{ db *gorm.DB }

func (r *sqlCustomOrders) List(ctx context.Context, status models.CustomOrderStatus, page models.Page) ([]models.CustomOrder, int64, error) {
	page = page.Normalize()
	var out []models.CustomOrder
	total, err := orm.New(ctx, r.db).Model(&models.CustomOrder{}).
		WhereIf(status != "", "status = ?", status).
		Order("created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("custom_orders.list", err)
}

func (r *sqlCustomOrders) Get(ctx context.Context, id string) (*models.CustomOrder, error) {
	var c models.CustomOrder
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&c); err != nil {
		return nil, sqlErr("custom_orders.get", err)
	}
	return &c, nil
}

func (r *sqlCustomOrders) Create(ctx context.Context, c *models.CustomOrder) error {
	return sqlErr("custom_orders.create", r.db.WithContext(ctx).Create(c).Error)
}

func (r *sqlCustomOrders) Update(ctx context.Context, c *models.CustomOrder) error {
	return mustAffect("custom_orders.update", saveAll(r.db.WithContext(ctx), c))
}

func (r *sqlCustomOrders) Delete(ctx context.Context, id string) error {
	return mustAffect("custom_orders.delete", r.db.WithContext(ctx).Delete(&models.CustomOrder{}, "id = ?", id))
}

func (r *sqlCustomOrders) CountByStatus(ctx context.Context, status models.CustomOrderStatus) (int64, error) {
	n, err := orm.New(ctx, r.db).Model(&models.CustomOrder{}).Where("status = ?", status).Count()
	return n, sqlErr("custom_orders.count", err)
}

// ─── Reviews ─────────────────────────────────────────────────────────────────

type sqlReviews struct{ db *gorm.DB }

func (r *sqlReviews) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, int64, error) {
	page := f.Page.Normalize()
	var out []models.Review
	total, err := orm.New(ctx, r.db).Model(&models.Review{}).
		WhereIf(f.PaintingID != "", "painting_id = ?", f.PaintingID).
		WhereIf(f.Approved != nil, "approved = ?", boolValue(f.Approved)).
		Order("created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("reviews.list", err)
}

func (r *sqlReviews) Get(ctx context.Context, id string) (*models.Review, error) {
	var rv models.Review
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&rv); err != nil {
		return nil, sqlErr("reviews.get", err)
	}
	return &rv, nil
}

func (r *sqlReviews) Create(ctx context.Context, rv *models.Review) error {
	return sqlErr("reviews.create", r.db.WithContext(ctx).Create(rv).Error)
}

func (r *sqlReviews) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).
		Updates(map[string]interface{}{"approved": approved, "updated_at": time.Now().UTC()})
	if err := mustAffect("reviews.set_approved", res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *sqlReviews) Delete(ctx context.Context, id string) error {
	return mustAffect("reviews.delete", r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id))
}

// ─── Blog ────────────────────────────────────────────────────────────────────

type sqlBlog struct{ db *gorm.DB }

func (r *sqlBlog) List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error) {
	page := f.Page.Normalize()
	var out []models.BlogPost
	q := orm.New(ctx, r.db).Model(&models.BlogPost{}).
		WhereIf(f.PublishedOnly, "published = ?", true).
		WhereIf(f.Tag != "", "tags LIKE ?", `%"`+f.Tag+`"%`)
	if f.PublishedOnly {
		q = q.Order("published_at DESC")
	} else {
		q = q.Order("created_at DESC")
	}
	total, err := q.Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("blog.list", err)
}

func (r *sqlBlog) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&p); err != nil {
		return nil, sqlErr("blog.get", err)
	}
	return &p, nil
}

func (r *sqlBlog) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var p models.BlogPost
	if err := orm.New(ctx, r.db).Where("slug = ?", slug).First(&p); err != nil {
		return nil, sqlErr("blog.find_by_slug", err)
	}
	return &p, nil
}

func (r *sqlBlog) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	n, err := orm.New(ctx, r.db).Model(&models.BlogPost{}).
		Where("slug = ?", slug).
		WhereIf(exceptID != "", "id <> ?", exceptID).
		Count()
	return n > 0, sqlErr("blog.slug_taken", err)
}

func (r *sqlBlog) Create(ctx context.Context, p *models.BlogPost) error {
	return sqlErr("blog.create", r.db.WithContext(ctx).Create(p).Error)
}

func (r *sqlBlog) Update(ctx context.Context, p *models.BlogPost) error {
	return mustAffect("blog.update", saveAll(r.db.WithContext(ctx), p))
}

func (r *sqlBlog) Delete(ctx context.Context, id string) error {
	return mustAffect("blog.delete", r.db.WithContext(ctx).Delete(&models.BlogPost{}, "id = ?", id))
}

// ─── Users ───────────────────────────────────────────────────────────────────

type sqlUsers struct{ db *gorm.DB }

func (r *sqlUsers) List(ctx context.Context, page models.Page) ([]models.User, int64, error) {
	page = page.Normalize()
	var out []models.User
	total, err := orm.New(ctx, r.db).Model(&models.User{}).
		Order("created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("users.list", err)
}

func (r *sqlUsers) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&u); err != nil {
		return nil, sqlErr("users.get", err)
	}
	return &u, nil
}

func (r *sqlUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := orm.New(ctx, r.db).Where("email = ?", email).First(&u); err != nil {
		return nil, sqlErr("users.find_by_email", err)
	}
	return &u, nil
}

func (r *sqlUsers) Create(ctx context.Context, u *models.User) error {
	return sqlErr("users.create", r.db.WithContext(ctx).Create(u).Error)
}

func (r *sqlUsers) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now().UTC()})
	if err := mustAffect("users.set_role", res); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// ─── Settings ────────────────────────────────────────────────────────────────

type sqlSettings struct{ db *gorm.DB }

func (r *sqlSettings) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := orm.New(ctx, r.db).Where("setting_key = ?", key).First(&s); err != nil {
		return nil, sqlErr("settings.get", err)
	}
	return &s, nil
}

func (r *sqlSettings) Put(ctx context.Context, s *models.Setting) error {
	s.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(s).Error
	return sqlErr("settings.put", err)
}
