package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shopfront-next/internal/logger"
)

// HTTPService 把店面 API 引擎托管为可运行服务
type HTTPService struct {
	addr   string
	server *http.Server
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	return &HTTPService{
		addr: addr,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	return "storefront-http"
}

// Start 开始监听。正常关闭不视为错误。
func (s *HTTPService) Start(ctx context.Context) error {
	logger.Infow("http_listen", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 优雅关闭，等待在途请求完成或超时
func (s *HTTPService) Stop(ctx context.Context) error {
	logger.Infow("http_shutdown", "addr", s.addr)
	return s.server.Shutdown(ctx)
}
