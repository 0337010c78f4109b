package db

import (
	dbmodels "staff-tools-backend/models/db"
)

func AutoMigrateDB() error {
	err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}
	return DB.AutoMigrate(
		&dbmodels.StaffUser{},
		&dbmodels.Request{},
		&dbmodels.Attachment{},
		&dbmodels.RequestHistory{},
		&dbmodels.Notification{},
		&dbmodels.NotificationSetting{},
	)
}
