package service

import (
	"crypto/subtle"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/models"
	"github.com/shopfront-next/internal/pending"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CartClearer 登出时清空购物车的回调接口
type CartClearer interface {
	Clear() error
}

// SessionService 会话服务：用户注册表与当前会话的唯一属主
type SessionService struct {
	cfg   *config.Config
	store kvstore.Store
	cart  CartClearer

	mu      sync.Mutex
	current *models.SessionState
}

// NewSessionService 创建会话服务并从存储恢复上次会话
func NewSessionService(cfg *config.Config, store kvstore.Store) *SessionService {
	s := &SessionService{cfg: cfg, store: store}
	s.restore()
	return s
}

// SetCartClearer 注入购物车清空回调（构造后装配，避免循环依赖）
func (s *SessionService) SetCartClearer(cart CartClearer) {
	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
}

// SessionClaims 会话 JWT 声明
type SessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Current 返回当前会话的副本，未登录时返回 nil
func (s *SessionService) Current() *models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Login 邮箱密码登录，成功后写入会话并持久化
func (s *SessionService) Login(email, password string) (*models.SessionState, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	session, err := s.authenticate(normalized, password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	// 会话持久化是尽力而为：写失败不阻断登录，重启后回到未登录态
	if err := s.store.Set(constants.StoreKeySession, session); err != nil {
		logger.Warnw("session_persist_failed", "error", err)
	}

	copied := *session
	return &copied, nil
}

func (s *SessionService) authenticate(email, password string) (*models.SessionState, error) {
	// 演示账号通道（文档化行为，可配置关闭）
	demo := s.cfg.Session.Demo
	if demo.Enabled && strings.EqualFold(email, demo.Email) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(demo.Password)) == 1 {
			return s.buildSession(demo.Name, strings.ToLower(demo.Email))
		}
		return nil, ErrInvalidCredentials
	}

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if !strings.EqualFold(user.Email, email) {
			continue
		}
		if !passwordMatches(user.Password, password) {
			return nil, ErrInvalidCredentials
		}
		return s.buildSession(user.Name, user.Email)
	}
	return nil, ErrInvalidCredentials
}

// passwordMatches 校验密码。注册表里的新记录都是 bcrypt 哈希，
// 历史数据可能是明文，此时退化为常数时间比较。
func passwordMatches(stored, password string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func (s *SessionService) buildSession(name, email string) (*models.SessionState, error) {
	token, err := s.generateToken(name, email)
	if err != nil {
		return nil, err
	}
	return &models.SessionState{
		Name:       name,
		Email:      email,
		IsLoggedIn: true,
		Token:      token,
	}, nil
}

func (s *SessionService) generateToken(name, email string) (string, error) {
	expireHours := s.cfg.Session.TokenExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	claims := SessionClaims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Session.TokenSecret))
}

// ParseToken 解析并校验会话 token
func (s *SessionService) ParseToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Session.TokenSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, errors.New("无效的 token")
}

// Register 注册新用户。注册成功不建立会话，由调用方引导去登录。
func (s *SessionService) Register(name, email, password string) error {
	trimmedName := strings.TrimSpace(name)
	if len([]rune(trimmedName)) < 2 {
		return ErrInvalidName
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	for _, user := range users {
		if strings.EqualFold(user.Email, normalized) {
			return ErrEmailExists
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users = append(users, models.UserRecord{
		Name:      trimmedName,
		Email:     normalized,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	})
	// 注册表是唯一数据源，写失败必须上抛
	return s.store.Set(constants.StoreKeyUsers, users)
}

// RegisterAsync 延迟执行注册（模拟提交耗时），返回挂起任务
func (s *SessionService) RegisterAsync(name, email, password string) *pending.Task {
	delay := time.Duration(s.cfg.Session.RegisterDelayMS) * time.Millisecond
	return pending.After(delay, func() (interface{}, error) {
		if err := s.Register(name, email, password); err != nil {
			return nil, err
		}
		return constants.NavigateLogin, nil
	})
}

// Logout 销毁会话、清空购物车，返回导航意图
func (s *SessionService) Logout() string {
	s.mu.Lock()
	s.current = nil
	cart := s.cart
	s.mu.Unlock()

	if err := s.store.Remove(constants.StoreKeySession); err != nil {
		logger.Warnw("session_remove_failed", "error", err)
	}
	if cart != nil {
		if err := cart.Clear(); err != nil {
			logger.Warnw("cart_clear_on_logout_failed", "error", err)
		}
	}
	return constants.NavigateSignup
}

// restore 进程启动时从存储恢复会话；token 失效或数据损坏按未登录处理
func (s *SessionService) restore() {
	var session models.SessionState
	found, err := s.store.Get(constants.StoreKeySession, &session)
	if err != nil {
		logger.Warnw("session_restore_failed", "error", err)
		return
	}
	if !found || !session.IsLoggedIn {
		return
	}
	if session.Token != "" {
		if _, err := s.ParseToken(session.Token); err != nil {
			logger.Infow("session_token_expired", "email", session.Email)
			_ = s.store.Remove(constants.StoreKeySession)
			return
		}
	}
	s.mu.Lock()
	s.current = &session
	s.mu.Unlock()
}

func (s *SessionService) loadUsers() ([]models.UserRecord, error) {
	var users []models.UserRecord
	if _, err := s.store.Get(constants.StoreKeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
