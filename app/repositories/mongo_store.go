package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoStore returns a Store backed by MongoDB. client is needed for the
// checkout transaction.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Paintings:    &mongoPaintings{c: collection[models.Painting]{db.Collection(docstore.Paintings)}},
		Coupons:      &mongoCoupons{c: collection[models.Coupon]{db.Collection(docstore.Coupons)}},
		Orders:       &mongoOrders{c: collection[models.Order]{db.Collection(docstore.Orders)}, client: client, db: db},
		CustomOrders: &mongoCustomOrders{c: collection[models.CustomOrder]{db.Collection(docstore.CustomOrders)}},
		Reviews:      &mongoReviews{c: collection[models.Review]{db.Collection(docstore.Reviews)}},
		Blog:         &mongoBlog{c: collection[models.BlogPost]{db.Collection(docstore.BlogPosts)}},
		Users:        &mongoUsers{c: collection[models.User]{db.Collection(docstore.Users)}},
		Settings:     &mongoSettings{coll: db.Collection(docstore.Settings)},
	}
}

// collection is the typed CRUD shared by the Mongo repositories.
type collection[T any] struct {
	coll *mongo.Collection
}

func mongoErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case docstore.IsNotFound(err):
		return ErrNotFound
	case docstore.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (c collection[T]) findOne(ctx context.Context, op string, filter bson.M) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, mongoErr(op, err)
	}
	return &out, nil
}

func (c collection[T]) page(ctx context.Context, op string, filter bson.M, sort bson.D, p models.Page) ([]T, int64, error) {
	p = p.Normalize()
	total, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mongoErr(op, err)
	}
	out := make([]T, 0)
	if total == 0 {
		return out, 0, nil
	}

	opts := options.Find().SetSort(sort).SetSkip(int64(p.Offset())).SetLimit(int64(p.PerPage))
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, mongoErr(op, err)
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, mongoErr(op, err)
	}
	return out, total, nil
}

func (c collection[T]) insert(ctx context.Context, op string, doc *T) error {
	_, err := c.coll.InsertOne(ctx, doc)
	return mongoErr(op, err)
}

func (c collection[T]) replace(ctx context.Context, op, id string, doc *T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return mongoErr(op, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) set(ctx context.Context, op, id string, fields bson.M) (*T, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&out)
	if err != nil {
		return nil, mongoErr(op, err)
	}
	return &out, nil
}

func (c collection[T]) delete(ctx context.Context, op, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(op, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c collection[T]) count(ctx context.Context, op string, filter bson.M) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter)
	return n, mongoErr(op, err)
}

func now() time.Time { return time.Now().UTC() }

// containsFold matches term anywhere in a field, case-insensitively.
func containsFold(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}
