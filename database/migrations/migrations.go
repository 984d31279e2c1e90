// Package migrations registers the SQL schema of galeria. Importing it for
// side effects (cmd/galeria does) makes the migrations visible to the runner.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/pkg/migration"
	"github.com/shashiranjanraj/galeria/pkg/queue"
)

func init() {
	migration.Register(migration.GroupStore, "20260101000000_create_catalog_tables", tables{
		&models.User{}, &models.Painting{}, &models.Coupon{},
	})
	migration.Register(migration.GroupStore, "20260101000001_create_order_tables", tables{
		&models.Order{}, &models.CustomOrder{},
	})
	migration.Register(migration.GroupStore, "20260101000002_create_content_tables", tables{
		&models.Review{}, &models.BlogPost{}, &models.Setting{},
	})
	migration.Register(migration.GroupQueue, "20260101000003_create_failed_jobs_table", tables{
		&queue.FailedJobRecord{},
	})
}

// tables creates its models on Up and drops them in reverse on Down.
type tables []any

func (t tables) Up(tx *gorm.DB) error {
	return tx.AutoMigrate(t...)
}

func (t tables) Down(tx *gorm.DB) error {
	for i := len(t) - 1; i >= 0; i-- {
		if err := tx.Migrator().DropTable(t[i]); err != nil {
			return err
		}
	}
	return nil
}
