package database

import (
	"roomflow/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ModelsToMigrate lists every persistent entity, in dependency order.
var ModelsToMigrate = []any{
	&models.User{},
	&models.RoomType{},
	&models.Room{},
	&models.Zone{},
	&models.Booking{},
	&models.ChecklistTemplate{},
	&models.ChecklistItem{},
	&models.Task{},
	&models.PushToken{},
	&models.Notification{},
}

// MigrateModels runs GORM AutoMigrate for all models.
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range ModelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates indexes GORM tags do not cover.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_tasks_date_type ON tasks(scheduled_date, cleaning_type)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_housekeeper_date ON tasks(assigned_housekeeper_id, scheduled_date)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_room_checkin ON bookings(room_id, check_in)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
