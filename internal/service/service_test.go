package service

import (
	"errors"
	"testing"

	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/models"
)

// failingStore 读正常、写必失败的存储，覆盖尽力而为的降级路径
type failingStore struct {
	*kvstore.MemoryStore
}

func newFailingStore() *failingStore {
	return &failingStore{kvstore.NewMemoryStore()}
}

func (s *failingStore) Set(key string, value interface{}) error {
	return &kvstore.StorageError{Op: "write", Key: key, Err: errors.New("disk full")}
}

func (s *failingStore) Remove(key string) error {
	return &kvstore.StorageError{Op: "remove", Key: key, Err: errors.New("disk full")}
}

func money(t *testing.T, raw string) models.Money {
	t.Helper()
	m, err := models.NewMoneyFromString(raw)
	if err != nil {
		t.Fatalf("parse money %q failed: %v", raw, err)
	}
	return m
}

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			TokenSecret:      "test-secret",
			TokenExpireHours: 1,
			Demo: config.DemoLoginConfig{
				Enabled:  true,
				Email:    "demo@example.com",
				Password: "demo123",
				Name:     "Demo User",
			},
			RegisterDelayMS: 5,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     6,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		},
		Checkout: config.CheckoutConfig{
			FreeShippingThreshold: "50",
			ShippingFlatFee:       "5.99",
			TaxRate:               "0.05",
			ProcessingDelayMS:     20,
		},
	}
}

func setupSessionService(t *testing.T) (*SessionService, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewSessionService(testConfig(), store), store
}

func setupCartService(t *testing.T) (*CartService, *kvstore.MemoryStore) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	return NewCartService(store), store
}

func setupCheckoutService(t *testing.T) (*CheckoutService, *CartService) {
	t.Helper()
	cart, _ := setupCartService(t)
	return NewCheckoutService(testConfig(), cart), cart
}
