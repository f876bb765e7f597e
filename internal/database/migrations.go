package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Secondary indexes that the model tags cannot express
var indexes = []index{
	// weekly projection scans a study's completions by time
	{"completed_habits", "idx_completed_habits_study_completed_at", "study_id, completed_at"},
	{"habits", "idx_habits_study_created_at", "study_id, created_at"},
}

// EnsureIndexes creates missing secondary indexes
func EnsureIndexes(db *gorm.DB, log *zap.Logger) error {
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}
