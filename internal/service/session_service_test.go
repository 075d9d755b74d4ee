package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/models"
)

func TestDemoLogin(t *testing.T) {
	svc, _ := setupSessionService(t)

	session, err := svc.Login("demo@example.com", "demo123")
	if err != nil {
		t.Fatalf("demo login failed: %v", err)
	}
	if !session.IsLoggedIn {
		t.Fatalf("expected logged-in session")
	}
	if session.Name != "Demo User" || session.Email != "demo@example.com" {
		t.Fatalf("unexpected session identity: %+v", session)
	}
	if session.Token == "" {
		t.Fatalf("expected session token")
	}
	if _, err := svc.ParseToken(session.Token); err != nil {
		t.Fatalf("token should parse: %v", err)
	}
}

func TestDemoLoginWrongPassword(t *testing.T) {
	svc, _ := setupSessionService(t)

	if _, err := svc.Login("demo@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if svc.Current() != nil {
		t.Fatalf("failed login must not establish a session")
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := setupSessionService(t)

	if err := svc.Register("Alice", "Alice@Example.com", "Passw0rd"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// 注册不建立会话
	if svc.Current() != nil {
		t.Fatalf("register must not log the user in")
	}

	session, err := svc.Login("alice@example.com", "Passw0rd")
	if err != nil {
		t.Fatalf("login after register failed: %v", err)
	}
	if session.Name != "Alice" {
		t.Fatalf("unexpected name: %s", session.Name)
	}
	if session.Email != "alice@example.com" {
		t.Fatalf("email should be normalized to lower case: %s", session.Email)
	}
}

func TestRegisterStoresHashedPassword(t *testing.T) {
	svc, store := setupSessionService(t)

	if err := svc.Register("Alice", "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	var users []models.UserRecord
	found, err := store.Get(constants.StoreKeyUsers, &users)
	if err != nil || !found {
		t.Fatalf("users registry missing: found=%v err=%v", found, err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one user, got %d", len(users))
	}
	if users[0].Password == "Passw0rd" {
		t.Fatalf("password must not be stored in plaintext")
	}
	if !strings.HasPrefix(users[0].Password, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", users[0].Password)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupSessionService(t)

	if err := svc.Register("Alice", "alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := svc.Register("Other", "ALICE@example.com", "Passw0rd")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists for case-insensitive duplicate, got %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc, _ := setupSessionService(t)

	if err := svc.Register("  ", "alice@example.com", "Passw0rd"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := svc.Register("A", "alice@example.com", "Passw0rd"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for single-char name, got %v", err)
	}
	if err := svc.Register("Alice", "not-an-email", "Passw0rd"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if err := svc.Register("Alice", "alice@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestRegisterAsyncResolvesWithLoginNavigation(t *testing.T) {
	svc, _ := setupSessionService(t)

	task := svc.RegisterAsync("Alice", "alice@example.com", "Passw0rd")
	value, err := task.Await()
	if err != nil {
		t.Fatalf("async register failed: %v", err)
	}
	if value != constants.NavigateLogin {
		t.Fatalf("expected login navigation intent, got %v", value)
	}
	if _, err := svc.Login("alice@example.com", "Passw0rd"); err != nil {
		t.Fatalf("login after async register failed: %v", err)
	}
}

func TestLegacyPlaintextPasswordStillMatches(t *testing.T) {
	store := kvstore.NewMemoryStore()
	users := []models.UserRecord{{Name: "Old", Email: "old@example.com", Password: "plain123"}}
	if err := store.Set(constants.StoreKeyUsers, users); err != nil {
		t.Fatalf("seed users failed: %v", err)
	}
	svc := NewSessionService(testConfig(), store)

	if _, err := svc.Login("old@example.com", "plain123"); err != nil {
		t.Fatalf("legacy plaintext login failed: %v", err)
	}
	if _, err := svc.Login("old@example.com", "other"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutClearsSessionAndCart(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := NewSessionService(testConfig(), store)
	cart := NewCartService(store)
	svc.SetCartClearer(cart)

	if _, err := svc.Login("demo@example.com", "demo123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := cart.AddItem(AddItemInput{ProductID: 1, Title: "Hat", UnitPrice: money(t, "9.99")}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	navigate := svc.Logout()
	if navigate != constants.NavigateSignup {
		t.Fatalf("expected signup navigation intent, got %q", navigate)
	}
	if svc.Current() != nil {
		t.Fatalf("session should be gone after logout")
	}
	if got := cart.Snapshot().ItemCount; got != 0 {
		t.Fatalf("cart should be empty after logout, got %d items", got)
	}

	var session models.SessionState
	found, err := store.Get(constants.StoreKeySession, &session)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if found {
		t.Fatalf("persisted session should be removed on logout")
	}
}

func TestSessionRestoreAcrossRestart(t *testing.T) {
	store := kvstore.NewMemoryStore()
	first := NewSessionService(testConfig(), store)
	if _, err := first.Login("demo@example.com", "demo123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// 同一个存储再建一个服务，模拟进程重启
	second := NewSessionService(testConfig(), store)
	session := second.Current()
	if session == nil || !session.IsLoggedIn {
		t.Fatalf("expected session restored from store")
	}
	if session.Email != "demo@example.com" {
		t.Fatalf("unexpected restored email: %s", session.Email)
	}
}

func TestSessionRestoreSkipsLoggedOutState(t *testing.T) {
	store := kvstore.NewMemoryStore()
	state := models.SessionState{Name: "Ghost", Email: "ghost@example.com", IsLoggedIn: false}
	if err := store.Set(constants.StoreKeySession, state); err != nil {
		t.Fatalf("seed session failed: %v", err)
	}

	svc := NewSessionService(testConfig(), store)
	if svc.Current() != nil {
		t.Fatalf("logged-out persisted state must not restore a session")
	}
}

func TestDemoLoginDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Session.Demo.Enabled = false
	svc := NewSessionService(cfg, kvstore.NewMemoryStore())

	if _, err := svc.Login("demo@example.com", "demo123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected demo channel disabled, got %v", err)
	}
}

func TestPasswordPolicy(t *testing.T) {
	policy := testConfig().Security.PasswordPolicy

	cases := []struct {
		password string
		wantWeak bool
	}{
		{"Passw0rd", false},
		{"short", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
	}
	for _, tc := range cases {
		err := validatePassword(policy, tc.password)
		if tc.wantWeak && !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("password %q: expected weak password error, got %v", tc.password, err)
		}
		if !tc.wantWeak && err != nil {
			t.Fatalf("password %q: unexpected error %v", tc.password, err)
		}
	}
}

func TestLoginAndLogoutSurviveStorageFailure(t *testing.T) {
	svc := NewSessionService(testConfig(), newFailingStore())

	session, err := svc.Login("demo@example.com", "demo123")
	if err != nil {
		t.Fatalf("login must succeed despite persist failure: %v", err)
	}
	if !session.IsLoggedIn || svc.Current() == nil {
		t.Fatalf("in-memory session must be established: %+v", session)
	}

	if navigate := svc.Logout(); navigate != constants.NavigateSignup {
		t.Fatalf("logout must succeed despite remove failure, got navigate %q", navigate)
	}
	if svc.Current() != nil {
		t.Fatalf("session must be cleared after logout")
	}

	// 注册表是唯一数据源，写失败必须上抛
	if err := svc.Register("Alice", "alice@example.com", "Passw0rd"); err == nil {
		t.Fatalf("register must surface registry write failure")
	}
}
