package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"go.mongodb.org/mongo-driver/bson"
)

// ─── Paintings ───────────────────────────────────────────────────────────────

type mongoPaintings struct{ c collection[models.Painting] }

func (r *mongoPaintings) List(ctx context.Context, f models.PaintingFilter) ([]models.Painting, int64, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Available != nil {
		filter["available"] = *f.Available
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		filter["$or"] = bson.A{bson.M{"title": containsFold(s)}, bson.M{"technique": containsFold(s)}}
	}
	sort := bson.D{{Key: "featured", Value: -1}, {Key: "createdAt", Value: -1}}
	return r.c.page(ctx, "paintings.list", filter, sort, f.Page)
}

func (r *mongoPaintings) Get(ctx context.Context, id string) (*models.Painting, error) {
	return r.c.findOne(ctx, "paintings.get", bson.M{"_id": id})
}

func (r *mongoPaintings) GetMany(ctx context.Context, ids []string) (map[string]*models.Painting, error) {
	out := make(map[string]*models.Painting, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, mongoErr("paintings.get_many", err)
	}
	var rows []models.Painting
	if err := cur.All(ctx, &rows); err != nil {
		return nil, mongoErr("paintings.get_many", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func (r *mongoPaintings) Create(ctx context.Context, p *models.Painting) error {
	p.Stamp(now())
	return r.c.insert(ctx, "paintings.create", p)
}

func (r *mongoPaintings) Update(ctx context.Context, p *models.Painting) error {
	p.Stamp(now())
	return r.c.replace(ctx, "paintings.update", p.ID, p)
}

func (r *mongoPaintings) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "paintings.delete", id)
}

func (r *mongoPaintings) CountLowStock(ctx context.Context) (int64, error) {
	return r.c.count(ctx, "paintings.count_low_stock", bson.M{
		"stock": bson.M{"$exists": true, "$ne": nil},
		"$expr": bson.M{"$lte": bson.A{"$stock", bson.M{"$ifNull": bson.A{"$lowStockThreshold", 0}}}},
	})
}

// ─── Coupons ─────────────────────────────────────────────────────────────────

type mongoCoupons struct{ c collection[models.Coupon] }

func (r *mongoCoupons) List(ctx context.Context, page models.Page) ([]models.Coupon, int64, error) {
	return r.c.page(ctx, "coupons.list", bson.M{}, newestFirst, page)
}

func (r *mongoCoupons) Get(ctx context.Context, id string) (*models.Coupon, error) {
	return r.c.findOne(ctx, "coupons.get", bson.M{"_id": id})
}

func (r *mongoCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return r.c.findOne(ctx, "coupons.find_by_code", bson.M{"code": models.NormalizeCode(code)})
}

func (r *mongoCoupons) Create(ctx context.Context, c *models.Coupon) error {
	c.Code = models.NormalizeCode(c.Code)
	c.Stamp(now())
	return r.c.insert(ctx, "coupons.create", c)
}

// Update rewrites every field except usageCount, which only PlaceOrder moves.
func (r *mongoCoupons) Update(ctx context.Context, c *models.Coupon) error {
	c.Code = models.NormalizeCode(c.Code)
	c.Stamp(now())

	set := bson.M{
		"code":          c.Code,
		"description":   c.Description,
		"discountType":  c.DiscountType,
		"discountValue": c.DiscountValue,
		"minPurchase":   c.MinPurchase,
		"maxDiscount":   c.MaxDiscount,
		"usageLimit":    c.UsageLimit,
		"isActive":      c.IsActive,
		"updatedAt":     c.UpdatedAt,
	}
	unset := bson.M{}
	if c.ValidFrom != nil {
		set["validFrom"] = *c.ValidFrom
	} else {
		unset["validFrom"] = ""
	}
	if c.ValidUntil != nil {
		set["validUntil"] = *c.ValidUntil
	} else {
		unset["validUntil"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.c.coll.UpdateOne(ctx, bson.M{"_id": c.ID}, update)
	if err != nil {
		return mongoErr("coupons.update", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCoupons) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "coupons.delete", id)
}

func (r *mongoCoupons) SetActive(ctx context.Context, id string, active bool) (*models.Coupon, error) {
	return r.c.set(ctx, "coupons.set_active", id, bson.M{"isActive": active})
}

func (r *mongoCoupons) CountExpired(ctx context.Context, at time.Time) (int64, error) {
	n, err := r.c.coll.CountDocuments(ctx, bson.M{"isActive": true, "validUntil": bson.M{"$lt": at}})
	if err != nil {
		return 0, mongoErr("coupons.count_expired", err)
	}
	return n, nil
}
