package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoOrders struct {
	c      collection[models.Order]
	client *mongo.Client
	db     *mongo.Database
}

func (r *mongoOrders) List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.CustomerID != "" {
		filter["customerId"] = f.CustomerID
	}
	if !f.CreatedBefore.IsZero() {
		filter["createdAt"] = bson.M{"$lt": f.CreatedBefore}
	}
	return r.c.page(ctx, "orders.list", filter, newestFirst, f.Page)
}

func (r *mongoOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	return r.c.findOne(ctx, "orders.get", bson.M{"_id": id})
}

func (r *mongoOrders) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.c.findOne(ctx, "orders.find_by_number", bson.M{"orderNumber": number})
}

func (r *mongoOrders) Update(ctx context.Context, o *models.Order) error {
	o.Stamp(now())
	return r.c.replace(ctx, "orders.update", o.ID, o)
}

func (r *mongoOrders) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, "orders.delete", id)
}

func (r *mongoOrders) Stats(ctx context.Context) (models.OrderStats, error) {
	stats := models.OrderStats{ByStatus: make(map[models.OrderStatus]int64)}

	cur, err := r.c.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$status",
			"n":       bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total"},
		}}},
	})
	if err != nil {
		return stats, mongoErr("orders.stats", err)
	}
	var rows []struct {
		Status  models.OrderStatus `bson:"_id"`
		N       int64              `bson:"n"`
		Revenue int64              `bson:"revenue"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return stats, mongoErr("orders.stats", err)
	}
	for _, row := range rows {
		stats.ByStatus[row.Status] = row.N
		if row.Status != models.OrderCancelled {
			stats.Revenue += row.Revenue
		}
	}
	return stats, nil
}

// PlaceOrder runs in a multi-document transaction. The callback may be
// retried by the driver on transient errors, so it only reads state it writes.
func (r *mongoOrders) PlaceOrder(ctx context.Context, o *models.Order) error {
	if err := checkQuantities(o.Items); err != nil {
		return err
	}
	o.Stamp(now())
	paintings := r.db.Collection(docstore.Paintings)
	coupons := r.db.Collection(docstore.Coupons)

	err := docstore.WithTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		for _, it := range o.Items {
			var p models.Painting
			if err := paintings.FindOne(sc, bson.M{"_id": it.PaintingID}).Decode(&p); err != nil {
				if docstore.IsNotFound(err) {
					return ErrInsufficientStock
				}
				return err
			}
			if !p.TracksStock() {
				continue
			}

			filter, update := stockDecrement(it, *p.Stock, o.UpdatedAt)
			res, err := paintings.UpdateOne(sc, filter, update)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return ErrInsufficientStock
			}
		}

		if o.CouponID != "" {
			filter, update := couponRedemption(o.CouponID, o.UpdatedAt)
			res, err := coupons.UpdateOne(sc, filter, update)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return ErrCouponLimitReached
			}
		}

		_, err := r.c.coll.InsertOne(sc, o)
		return err
	})

	if err == nil || errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrCouponLimitReached) {
		return err
	}
	return mongoErr("orders.place", err)
}

// stockDecrement takes qty off a tracked painting only while enough stock
// remains, marking it unavailable when the line sells it out.
func stockDecrement(it models.OrderItem, stock int, at time.Time) (filter, update bson.M) {
	set := bson.M{"updatedAt": at}
	if stock-it.Quantity <= 0 {
		set["available"] = false
	}
	filter = bson.M{"_id": it.PaintingID, "stock": bson.M{"$gte": it.Quantity}}
	update = bson.M{"$inc": bson.M{"stock": -it.Quantity}, "$set": set}
	return filter, update
}

// couponRedemption increments usageCount only while it is below a non-zero
// usageLimit.
func couponRedemption(couponID string, at time.Time) (filter, update bson.M) {
	filter = bson.M{
		"_id": couponID,
		"$or": bson.A{
			bson.M{"usageLimit": 0},
			bson.M{"$expr": bson.M{"$lt": bson.A{"$usageCount", "$usageLimit"}}},
		},
	}
	update = bson.M{"$inc": bson.M{"usageCount": 1}, "$set": bson.M{"updatedAt": at}}
	return filter, update
}
