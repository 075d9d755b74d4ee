package models

// StoreRecord 键值存储表（所有持久化状态都序列化成 JSON 存这里）
type StoreRecord struct {
	Key       string `gorm:"primarykey" json:"key"`
	ValueJSON []byte `gorm:"type:json" json:"value"`
}

// TableName 指定表名
func (StoreRecord) TableName() string {
	return "store_records"
}
