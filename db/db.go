package db

import (
	"Gin_postgres_redis_custody_tracker/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Category{},
		&models.Item{},
		&models.CustodyEvent{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// 历史查询按物品倒序
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_item_id_desc
	  ON %s (item_id, id DESC);
	`, models.CustodyEventTable, models.CustodyEventTable)).Error; err != nil {
		return err
	}

	// 数据库层兜底：taken ⇔ 有持有人（仅 Postgres；测试用 SQLite 跳过）
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(fmt.Sprintf(`
		  ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s_holder_matches_status;
		`, models.ItemTable, models.ItemTable)).Error; err != nil {
			return err
		}
		if err := db.Exec(fmt.Sprintf(`
		  ALTER TABLE %s ADD CONSTRAINT %s_holder_matches_status
		  CHECK ((status = 'taken') = (current_holder_id IS NOT NULL));
		`, models.ItemTable, models.ItemTable)).Error; err != nil {
			return err
		}
	}

	return nil
}
