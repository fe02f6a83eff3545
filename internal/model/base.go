package model

import "time"

// CreatedModel 创建时间审计字段
// 本系统数据只增不改，因此不携带 UpdatedAt / DeletedAt
type CreatedModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
