package models

import "time"

// CheckoutForm 结算表单（仅在提交期间存在，不持久化）
type CheckoutForm struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ZipCode       string `json:"zipCode"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"paymentMethod"`
}

// Totals 结算金额分解
type Totals struct {
	Subtotal     Money `json:"subtotal"`
	ShippingCost Money `json:"shippingCost"`
	TaxAmount    Money `json:"taxAmount"`
	GrandTotal   Money `json:"grandTotal"`
}

// OrderReceipt 下单回执（仅用于展示，不写入存储）
type OrderReceipt struct {
	OrderNumber   string    `json:"orderNumber"`
	GrandTotal    Money     `json:"grandTotal"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}
