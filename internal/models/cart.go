package models

import "github.com/shopspring/decimal"

// CartLineItem 购物车行项目（JSON 形状即持久化契约，字段名不可改）
type CartLineItem struct {
	ProductID int    `json:"id"`       // 商品 ID（去重键）
	Title     string `json:"title"`    // 商品标题
	UnitPrice Money  `json:"price"`    // 单价
	ImageRef  string `json:"image"`    // 图片引用
	Quantity  int    `json:"quantity"` // 数量（始终 >= 1）
}

// LineTotal 行小计 = 单价 × 数量
func (i CartLineItem) LineTotal() Money {
	return NewMoneyFromDecimal(i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// CartSnapshot 购物车只读快照
type CartSnapshot struct {
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"itemCount"` // 所有行数量之和
	Subtotal  Money          `json:"subtotal"`  // 所有行小计之和
}
