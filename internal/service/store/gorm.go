package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
	"github.com/Tejaswini280/creater-AI-sub008/internal/models"
)

func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto migrate the schema
	if err := db.AutoMigrate(&models.ScheduledContent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// GormStore implements ScheduleStore on top of gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(record *models.ScheduledContent) error {
	return s.db.Create(record).Error
}

func (s *GormStore) Update(id string, patch map[string]interface{}) error {
	result := s.db.Model(&models.ScheduledContent{}).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) GetByID(id string) (*models.ScheduledContent, error) {
	var record models.ScheduledContent
	if err := s.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormStore) QueryByStatus(status string, userID string) ([]models.ScheduledContent, error) {
	query := s.db.Where("status = ?", status)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var records []models.ScheduledContent
	if err := query.Order("scheduled_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) GetAll() ([]models.ScheduledContent, error) {
	var records []models.ScheduledContent
	if err := s.db.Order("scheduled_at asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormStore) Columns() ([]string, error) {
	types, err := s.db.Migrator().ColumnTypes(&models.ScheduledContent{})
	if err != nil {
		return nil, fmt.Errorf("failed to introspect content table: %w", err)
	}

	columns := make([]string, 0, len(types))
	for _, ct := range types {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}
