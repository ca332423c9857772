package invocationlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"abilityctl/internal/api"
	"abilityctl/pkg/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is the persisted row of an invocation log entry.
type Record struct {
	ID            string `gorm:"primaryKey;size:64" json:"id"`
	AbilityID     string `gorm:"size:64;index" json:"ability_id"`
	AbilityName   string `gorm:"size:255" json:"ability_name,omitempty"`
	Provider      string `gorm:"size:100;index" json:"provider"`
	CapabilityKey string `gorm:"size:255" json:"capability_key,omitempty"`
	ExecutorID    string `gorm:"size:64" json:"executor_id"`
	Family        string `gorm:"size:32" json:"family"`
	Outcome       string `gorm:"size:20;index" json:"outcome"`
	Summary       string `gorm:"type:text" json:"summary,omitempty"`
	ErrorMsg      string `gorm:"type:text" json:"error,omitempty"`
	DurationMs    int64  `json:"duration_ms"`

	ResultData string                `gorm:"type:text;column:result" json:"-"`
	Result     *api.InvocationResult `gorm:"-" json:"result,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name.
func (r *Record) TableName() string {
	return "invocation_logs"
}

// BeforeSave serializes the result document.
func (r *Record) BeforeSave(tx *gorm.DB) error {
	if r.Result == nil {
		return nil
	}
	data, err := json.Marshal(r.Result)
	if err != nil {
		return err
	}
	r.ResultData = string(data)
	return nil
}

// AfterFind restores the result document.
func (r *Record) AfterFind(tx *gorm.DB) error {
	if r.ResultData == "" {
		return nil
	}
	var result api.InvocationResult
	if err := json.Unmarshal([]byte(r.ResultData), &result); err != nil {
		return err
	}
	r.Result = &result
	return nil
}

// NewRecord converts an entry to its row.
func NewRecord(e Entry) *Record {
	return &Record{
		ID:            e.ID,
		AbilityID:     e.Context.AbilityID,
		AbilityName:   e.Context.AbilityName,
		Provider:      e.Context.Provider,
		CapabilityKey: e.Context.CapabilityKey,
		ExecutorID:    e.ExecutorID,
		Family:        e.Family,
		Outcome:       string(e.Outcome),
		Summary:       e.Summary(),
		ErrorMsg:      e.Error,
		DurationMs:    e.DurationMs,
		Result:        e.Result,
		CreatedAt:     e.CreatedAt,
	}
}

// GormSink persists entries through gorm.
type GormSink struct {
	db *gorm.DB
}

// NewGormSink wraps an open database and migrates the log table.
func NewGormSink(db *gorm.DB) (*GormSink, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate invocation log table: %w", err)
	}
	return &GormSink{db: db}, nil
}

// OpenPostgres connects to PostgreSQL and returns a migrated sink.
func OpenPostgres(dsn string) (*GormSink, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect invocation log database: %w", err)
	}
	logging.Info("InvocationLog", "Connected to invocation log database")
	return NewGormSink(db)
}

func (s *GormSink) Write(ctx context.Context, e Entry) error {
	if err := s.db.WithContext(ctx).Create(NewRecord(e)).Error; err != nil {
		return fmt.Errorf("failed to write invocation log %s: %w", e.ID, err)
	}
	return nil
}

// Recent returns the newest records of an ability, newest first.
func (s *GormSink) Recent(ctx context.Context, abilityID string, limit int) ([]Record, error) {
	var records []Record
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if abilityID != "" {
		q = q.Where("ability_id = ?", abilityID)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query invocation logs: %w", err)
	}
	return records, nil
}

// Close releases the database connection.
func (s *GormSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
