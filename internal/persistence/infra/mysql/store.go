package mysql

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ManaMerge/internal/persistence/infra/mysql/model"
)

type Store struct {
	db *gorm.DB
}

// NewStore 自动迁移 save_records 表。
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("mysql db is nil")
	}
	if err := db.AutoMigrate(&model.SaveRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) WithTx(tx *gorm.DB) *Store {
	return &Store{db: tx}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var m model.SaveRecord
	err := s.db.WithContext(ctx).Where("record_key = ?", key).First(&m).Error
	switch {
	case err == nil:
		return m.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func (s *Store) PutBatch(ctx context.Context, records map[string][]byte) error {
	if len(records) == 0 {
		return nil
	}
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	// 固定顺序写入，避免并发事务间的死锁。
	sort.Strings(keys)

	now := time.Now()
	rows := make([]model.SaveRecord, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, model.SaveRecord{Key: k, Value: records[k], UpdatedAt: now})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("record_key IN ?", keys).Delete(&model.SaveRecord{}).Error
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&model.SaveRecord{}).
		Where("record_key LIKE ?", escapeLike(prefix)+"%").
		Order("record_key").
		Pluck("record_key", &out).Error
	return out, err
}

func (s *Store) Close(ctx context.Context) error {
	_ = ctx
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
