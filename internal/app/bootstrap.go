package app

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/kvstore"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/provider"
	"github.com/shopfront-next/internal/router"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	container := provider.NewContainer(cfg, store)
	engine := router.SetupRouter(cfg, container)
	addr := cfg.Server.Host + ":" + cfg.Server.Port
	httpService := NewHTTPService(addr, engine)

	return NewRunner(httpService), nil
}

// OpenStore 打开本地键值存储（必要时创建存储目录）
func OpenStore(cfg *config.Config) (kvstore.Store, error) {
	dsn := cfg.Store.DSN
	if dir := filepath.Dir(dsn); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	store, err := kvstore.Open(cfg.Store.Driver, dsn, cfg.Store.Prefix)
	if err != nil {
		logger.Errorw("store_open_failed", "driver", cfg.Store.Driver, "dsn", dsn, "error", err)
		return nil, err
	}
	return store, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr)
	return RunWithOptions(runner, opts)
}
