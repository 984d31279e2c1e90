package repositories

import (
	"context"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/orm"
	"gorm.io/gorm"
)

type sqlPaintings struct{ db *gorm.DB }

func (r *sqlPaintings) List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, int64, error) {
	page := f.Page.Normalize()
	var out []models.Painting
	total, err := orm.New(ctx, r.db).Model(&models.Painting{}).
		WhereIf(f.Category != "", "category = ?", f.Category).
		WhereIf(f.Available != nil, "available = ?", boolValue(f.Available)).
		WhereIf(f.Featured != nil, "featured = ?", boolValue(f.Featured)).
		Search(f.Search, "title", "technique").
		Order("featured DESC, created_at DESC").
		Paginate(&out, page.Offset(), page.PerPage)
	return out, total, sqlErr("paintings.list", err)
}

func (r *sqlPaintings) Get(ctx context.Context, id string) (*models.Painting, error) {
	var p models.Painting
	if err := orm.New(ctx, r.db).Where("id = ?", id).First(&p); err != nil {
		return nil, sqlErr("paintings.get", err)
	}
	return &p, nil
}

func (r *sqlPaintings) GetMany(ctx context.Context, ids []string) (map[string]*models.Painting, error) {
	out := make(map[string]*models.Painting, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Painting
	if err := orm.New(ctx, r.db).Where("id IN ?", ids).Get(&rows); err != nil {
		return nil, sqlErr("paintings.get_many", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *sqlPaintings) Create(ctx context.Context, p *models.Painting) error {
	return sqlErr("paintings.create", r.db.WithContext(ctx).Create(p).Error)
}

func (r *sqlPaintings) Update(ctx context.Context, p *models.Painting) error {
	return mustAffect("paintings.update", saveAll(r.db.WithContext(ctx), p))
}

func (r *sqlPaintings) Delete(ctx context.Context, id string) error {
	return mustAffect("paintings.delete", r.db.WithContext(ctx).Delete(&models.Painting{}, "id = ?", id))
}

func (r *sqlPaintings) CountLowStock(ctx context.Context) (int64, error) {
	n, err := orm.New(ctx, r.db).Model(&models.Painting{}).
		Where("stock IS NOT NULL AND stock <= COALESCE(low_stock_threshold, 0)").
		Count()
	return n, sqlErr("paintings.count_low_stock", err)
}
