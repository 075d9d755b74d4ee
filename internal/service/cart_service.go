package service

import (
	"sync"

	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartService 购物车服务：内存为准，写穿到存储
type CartService struct {
	store kvstore.Store

	mu    sync.Mutex
	items []models.CartLineItem
}

// AddItemInput 加入购物车的行项目描述
type AddItemInput struct {
	ProductID int
	Title     string
	UnitPrice models.Money
	ImageRef  string
}

// NewCartService 创建购物车服务并从存储恢复内容
func NewCartService(store kvstore.Store) *CartService {
	s := &CartService{store: store}
	var items []models.CartLineItem
	if _, err := store.Get(constants.StoreKeyCart, &items); err != nil {
		// 数据损坏按空车处理，不阻断启动
		logger.Warnw("cart_restore_failed", "error", err)
		items = nil
	}
	s.items = items
	return s
}

// AddItem 加入商品。已存在同一商品时不改数量，返回 false。
func (s *CartService) AddItem(input AddItemInput) (bool, error) {
	if input.ProductID <= 0 || input.Title == "" {
		return false, ErrInvalidLineItem
	}
	if input.UnitPrice.IsNegative() {
		return false, ErrInvalidLineItem
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ProductID == input.ProductID {
			return false, nil
		}
	}
	s.items = append(s.items, models.CartLineItem{
		ProductID: input.ProductID,
		Title:     input.Title,
		UnitPrice: input.UnitPrice,
		ImageRef:  input.ImageRef,
		Quantity:  1,
	})
	s.persistLocked()
	return true, nil
}

// IncrementQuantity 数量加一，商品不存在时为 no-op
func (s *CartService) IncrementQuantity(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity++
			s.persistLocked()
			return
		}
	}
}

// DecrementQuantity 数量减一，最低到 1，不会移除商品
func (s *CartService) DecrementQuantity(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			if s.items[i].Quantity > 1 {
				s.items[i].Quantity--
				s.persistLocked()
			}
			return
		}
	}
}

// RemoveItem 移除整行（不论数量），商品不存在时为 no-op
func (s *CartService) RemoveItem(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// Clear 清空购物车（登出与下单成功时调用）
func (s *CartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persistLocked()
	return nil
}

// Snapshot 返回当前购物车的只读快照
func (s *CartService) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]models.CartLineItem, len(s.items))
	copy(items, s.items)

	count := 0
	subtotal := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal().Decimal)
	}
	return models.CartSnapshot{
		Items:     items,
		ItemCount: count,
		Subtotal:  models.NewMoneyFromDecimal(subtotal),
	}
}

// persistLocked 写穿到存储。写失败只记日志，内存状态继续生效。
func (s *CartService) persistLocked() {
	items := s.items
	if items == nil {
		items = []models.CartLineItem{}
	}
	if err := s.store.Set(constants.StoreKeyCart, items); err != nil {
		logger.Warnw("cart_persist_failed", "error", err)
	}
}
