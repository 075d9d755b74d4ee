// Package catalog 提供商品目录来源：优先远端拉取，失败时回退内置清单。
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/models"

	"github.com/shopspring/decimal"
)

// Product 目录商品
type Product struct {
	ID    int          `json:"id"`
	Title string       `json:"title"`
	Price models.Money `json:"price"`
	Image string       `json:"image"`
}

// Client 目录客户端
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建目录客户端
func NewClient(cfg config.CatalogConfig) *Client {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Products 拉取商品列表，远端不可用时回退到内置清单
func (c *Client) Products(ctx context.Context) []Product {
	products, err := c.fetch(ctx)
	if err != nil {
		logger.Warnw("catalog_fetch_failed", "error", err, "fallback", "builtin")
		return FallbackProducts()
	}
	return products
}

// Product 按 id 查询单个商品。远端不可用时在内置清单中查找，
// 两边都找不到返回 (nil, false)。
func (c *Client) Product(ctx context.Context, id int) (*Product, bool) {
	product, err := c.fetchOne(ctx, id)
	if err == nil {
		return product, true
	}
	logger.Warnw("catalog_fetch_one_failed", "id", id, "error", err, "fallback", "builtin")
	for _, p := range FallbackProducts() {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

func (c *Client) fetchOne(ctx context.Context, id int) (*Product, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog base url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, fmt.Errorf("catalog returned empty product")
	}
	return &product, nil
}

func (c *Client) fetch(ctx context.Context) ([]Product, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("catalog base url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog responded with status %d", resp.StatusCode)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog returned no products")
	}
	return products, nil
}

// FallbackProducts 内置商品清单（远端目录不可用时的兜底）
func FallbackProducts() []Product {
	return []Product{
		{ID: 1, Title: "Classic Cotton T-Shirt", Price: price("19.99"), Image: "/images/tshirt.png"},
		{ID: 2, Title: "Slim Fit Jeans", Price: price("49.99"), Image: "/images/jeans.png"},
		{ID: 3, Title: "Canvas Sneakers", Price: price("39.99"), Image: "/images/sneakers.png"},
		{ID: 4, Title: "Leather Belt", Price: price("24.99"), Image: "/images/belt.png"},
		{ID: 5, Title: "Wool Beanie", Price: price("14.99"), Image: "/images/beanie.png"},
		{ID: 6, Title: "Hooded Sweatshirt", Price: price("34.99"), Image: "/images/hoodie.png"},
	}
}

func price(raw string) models.Money {
	d, _ := decimal.NewFromString(raw)
	return models.NewMoneyFromDecimal(d)
}
