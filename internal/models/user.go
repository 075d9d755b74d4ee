package models

import "time"

// UserRecord 本地用户注册表条目（password 字段存 bcrypt 哈希）
type UserRecord struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"` // 唯一键（大小写不敏感）
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}
