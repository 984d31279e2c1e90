package repositories

import (
	"fmt"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/orm"
	"gorm.io/gorm"
)

// NewSQLStore returns a Store backed by gorm.
func NewSQLStore(db *gorm.DB) *Store {
	return &Store{
		Paintings:    &sqlPaintings{db: db},
		Coupons:      &sqlCoupons{db: db},
		Orders:       &sqlOrders{db: db},
		CustomOrders: &sqlCustomOrders{db: db},
		Reviews:      &sqlReviews{db: db},
		Blog:         &sqlBlog{db: db},
		Users:        &sqlUsers{db: db},
		Settings:     &sqlSettings{db: db},
	}
}

// SQLModels lists every table the SQL store owns, in creation order.
func SQLModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Painting{},
		&models.Coupon{},
		&models.Order{},
		&models.CustomOrder{},
		&models.Review{},
		&models.BlogPost{},
		&models.Setting{},
	}
}

func sqlErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case orm.IsNotFound(err):
		return ErrNotFound
	case orm.IsDuplicate(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// mustAffect turns a zero-row write into ErrNotFound.
func mustAffect(op string, res *gorm.DB) error {
	if res.Error != nil {
		return sqlErr(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// saveAll updates every column of v except created_at.
func saveAll(db *gorm.DB, v interface{}) *gorm.DB {
	return db.Model(v).Select("*").Omit("id", "created_at").Updates(v)
}

func boolValue(b *bool) bool { return b != nil && *b }
