package repositories

import (
	"context"

	"github.com/shashiranjanraj/galeria/app/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ─── Custom orders ───────────────────────────────────────────────────────────

type mongoCustomOrders struct{ c collection[models.CustomOrder] }

func (r *mongoCustomOrders) List(ctx context.Context, status models.CustomOrderStatus, page models.Page) ([]models.CustomOrder, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.c.page(ctx, "custom_orders.list", filter, newestFirst, page)
}

func (r *mongoCustomOrders) Get(ctx context.Context, id string) (*models.CustomOrder, error) {
	return r.c.findOne(ctx, "custom_orders.get", bson.M{"_id": id})
}

func (r *mongoCustomOrders) Create(ctx context.Context, c *models.CustomOrder) error {
	c.Stamp(now())
	return r.c.insert(ctx, "custom_orders.create", c)
}

func (r *mongoCustomOrders) Update(ctx context.Context, c *models.CustomOrder) error {
	c.Stamp(now())
	return r.c.replace(ctx, "custom_orders.update", c.ID, c)
}

func (r *mongoCustomOrders) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "custom_orders.delete", id)
}

func (r *mongoCustomOrders) CountByStatus(ctx context.Context, status models.CustomOrderStatus) (int64, error) {
	return r.c.count(ctx, "custom_orders.count", bson.M{"status": status})
}

// ─── Reviews ─────────────────────────────────────────────────────────────────

type mongoReviews struct{ c collection[models.Review] }

func (r *mongoReviews) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, int64, error) {
	filter := bson.M{}
	if f.PaintingID != "" {
		filter["paintingId"] = f.PaintingID
	}
	if f.Approved != nil {
		filter["approved"] = *f.Approved
	}
	return r.c.page(ctx, "reviews.list", filter, newestFirst, f.Page)
}

func (r *mongoReviews) Get(ctx context.Context, id string) (*models.Review, error) {
	return r.c.findOne(ctx, "reviews.get", bson.M{"_id": id})
}

func (r *mongoReviews) Create(ctx context.Context, rv *models.Review) error {
	rv.Stamp(now())
	return r.c.insert(ctx, "reviews.create", rv)
}

func (r *mongoReviews) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	return r.c.set(ctx, "reviews.set_approved", id, bson.M{"approved": approved})
}

func (r *mongoReviews) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "reviews.delete", id)
}

// ─── Blog ────────────────────────────────────────────────────────────────────

type mongoBlog struct{ c collection[models.BlogPost] }

func (r *mongoBlog) List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error) {
	filter := bson.M{}
	sort := newestFirst
	if f.PublishedOnly {
		filter["published"] = true
		sort = bson.D{{Key: "publishedAt", Value: -1}}
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	return r.c.page(ctx, "blog.list", filter, sort, f.Page)
}

func (r *mongoBlog) Get(ctx context.Context, id string) (*models.BlogPost, error) {
	return r.c.findOne(ctx, "blog.get", bson.M{"_id": id})
}

func (r *mongoBlog) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.c.findOne(ctx, "blog.find_by_slug", bson.M{"slug": slug})
}

func (r *mongoBlog) SlugTaken(ctx context.Context, slug, exceptID string) (bool, error) {
	filter := bson.M{"slug": slug}
	if exceptID != "" {
		filter["_id"] = bson.M{"$ne": exceptID}
	}
	n, err := r.c.count(ctx, "blog.slug_taken", filter)
	return n > 0, err
}

func (r *mongoBlog) Create(ctx context.Context, p *models.BlogPost) error {
	p.Stamp(now())
	return r.c.insert(ctx, "blog.create", p)
}

func (r *mongoBlog) Update(ctx context.Context, p *models.BlogPost) error {
	p.Stamp(now())
	return r.c.replace(ctx, "blog.update", p.ID, p)
}

func (r *mongoBlog) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "blog.delete", id)
}

// ─── Users ───────────────────────────────────────────────────────────────────

type mongoUsers struct{ c collection[models.User] }

func (r *mongoUsers) List(ctx context.Context, page models.Page) ([]models.User, int64, error) {
	return r.c.page(ctx, "users.list", bson.M{}, newestFirst, page)
}

func (r *mongoUsers) Get(ctx context.Context, id string) (*models.User, error) {
	return r.c.findOne(ctx, "users.get", bson.M{"_id": id})
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.c.findOne(ctx, "users.find_by_email", bson.M{"email": email})
}

func (r *mongoUsers) Create(ctx context.Context, u *models.User) error {
	u.Stamp(now())
	return r.c.insert(ctx, "users.create", u)
}

func (r *mongoUsers) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	return r.c.set(ctx, "users.set_role", id, bson.M{"role": role})
}

// ─── Settings ────────────────────────────────────────────────────────────────

type mongoSettings struct{ coll *mongo.Collection }

func (r *mongoSettings) Get(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	if err := r.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&s); err != nil {
		return nil, mongoErr("settings.get", err)
	}
	return &s, nil
}

func (r *mongoSettings) Put(ctx context.Context, s *models.Setting) error {
	s.UpdatedAt = now()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.Key}, s, options.Replace().SetUpsert(true))
	return mongoErr("settings.put", err)
}
