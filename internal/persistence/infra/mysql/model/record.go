package model

import "time"

// SaveRecord 是一条存档记录；Slot 之外的区分已经编码在 Key 里。
type SaveRecord struct {
	Key       string    `gorm:"column:record_key;type:varchar(128);primaryKey;not null;comment:记录 key" json:"key"`
	Value     []byte    `gorm:"column:value;type:mediumblob;not null;comment:记录内容" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;comment:更新时间" json:"updated_at"`
}

func (r *SaveRecord) TableName() string {
	return "save_records"
}
