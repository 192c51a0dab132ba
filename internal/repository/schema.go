package repository

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaVersion is the current layout of the cache tables. Bumping it makes
// EnsureSchema drop and recreate them on the next start.
const SchemaVersion = 1

const schemaMetaID = 1

// EnsureSchema creates the cache tables if needed. When the stored version
// differs from version, all cache tables are dropped and recreated, so every
// cached route is lost. The cache is rebuilt from the next directions fetch.
func EnsureSchema(db *gorm.DB, version int, logger *zap.Logger) error {
	if err := db.AutoMigrate(&SchemaMetaModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema_meta: %w", err)
	}

	current, err := storedVersion(db)
	if err != nil {
		return err
	}

	if current == version {
		if err := db.AutoMigrate(cacheModels()...); err != nil {
			return fmt.Errorf("failed to migrate cache tables: %w", err)
		}
		return nil
	}

	if current == 0 {
		logger.Info("creating route cache schema", zap.Int("version", version))
	} else {
		logger.Warn("upgrading route cache schema, all cached routes will be dropped",
			zap.Int("from", current),
			zap.Int("to", version),
		)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(cacheModels()...); err != nil {
			return fmt.Errorf("failed to drop cache tables: %w", err)
		}
		if err := tx.AutoMigrate(cacheModels()...); err != nil {
			return fmt.Errorf("failed to create cache tables: %w", err)
		}
		meta := SchemaMetaModel{ID: schemaMetaID, Version: version}
		if err := tx.Save(&meta).Error; err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	})
}

// storedVersion returns the recorded schema version, 0 when none is recorded.
func storedVersion(db *gorm.DB) (int, error) {
	var meta SchemaMetaModel
	err := db.Where("id = ?", schemaMetaID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return meta.Version, nil
}
