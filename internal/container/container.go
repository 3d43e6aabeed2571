package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"curve-mm-go/config"
	"curve-mm-go/gateway"
	"curve-mm-go/infrastructure/logger"
	"curve-mm-go/inventory"
	"curve-mm-go/market"
	"curve-mm-go/metrics"
	"curve-mm-go/quoter"

	"go.uber.org/zap"
)

// Options 控制容器的构建方式。
type Options struct {
	DryRun bool           // 只写日志，不推送
	Logger *logger.Logger // 为空时按配置创建
}

// Container 依赖注入容器，管理所有组件的生命周期
type Container struct {
	cfgPath string
	cfg     config.AppConfig
	opts    Options

	logger    *logger.Logger
	ownLogger bool

	publisher gateway.Publisher
	ws        *gateway.LadderWS // dry-run 时为空
	tracker   *inventory.Tracker
	quoter    *quoter.Quoter

	lifecycle *LifecycleManager
}

// New 加载配置并创建 Container
func New(configPath string, opts Options) (*Container, error) {
	cfg, err := config.LoadWithEnvOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return &Container{
		cfgPath:   configPath,
		cfg:       cfg,
		opts:      opts,
		lifecycle: NewLifecycleManager(),
	}, nil
}

// Build 构建所有组件
func (c *Container) Build() error {
	if err := c.buildInfrastructure(); err != nil {
		return fmt.Errorf("build infrastructure failed: %w", err)
	}
	c.buildGateway()
	if err := c.buildCoreServices(); err != nil {
		return fmt.Errorf("build core services failed: %w", err)
	}
	c.registerLifecycleComponents()
	c.logger.Info("container built", zap.String("market", c.cfg.Market.ID), zap.Bool("dry_run", c.DryRun()))
	return nil
}

func (c *Container) buildInfrastructure() error {
	if c.opts.Logger != nil {
		c.logger = c.opts.Logger
		return nil
	}
	l, err := logger.New(c.cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger failed: %w", err)
	}
	c.logger = l
	c.ownLogger = true
	return nil
}

func (c *Container) buildGateway() {
	if c.DryRun() {
		c.publisher = gateway.LogPublisher{Log: c.logger}
		return
	}
	ws := gateway.NewLadderWS(c.cfg.Gateway.WSURL,
		gateway.NewRateLimiter(c.cfg.Gateway.PublishRate, c.cfg.Gateway.PublishBurst))
	c.ws = ws
	c.publisher = ws
}

func (c *Container) buildCoreServices() error {
	c.tracker = inventory.NewTracker(c.cfg.StartingInventory())
	q, err := quoter.New(quoter.ConfigFrom(c.cfg), PriceSource(c.cfg), c.tracker, c.publisher,
		quoter.WithLogger(c.logger),
		quoter.WithFillRecorder(c.tracker),
	)
	if err != nil {
		return err
	}
	c.quoter = q
	if c.ws != nil {
		c.ws.OnMessage = c.handleVenueMessage
	}
	return nil
}

func (c *Container) registerLifecycleComponents() {
	if c.cfg.MetricsAddr != "" {
		mux := metrics.Handler()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := c.HealthCheck(); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("ok"))
		})
		c.lifecycle.Register(&httpServerComponent{
			name:    "metrics_server",
			handler: mux,
			addr:    c.cfg.MetricsAddr,
			logger:  c.logger,
		})
	}
	c.lifecycle.Register(&loopComponent{
		name: "config_watcher",
		run:  watchLoop(c.cfgPath, c.quoter, c.logger),
	})
	c.lifecycle.Register(&loopComponent{
		name: "requote_loop",
		run:  requoteLoop(c.quoter, c.cfg.QuoteInterval()),
	})
}

func (c *Container) Start(ctx context.Context) error {
	if err := c.lifecycle.StartAll(ctx); err != nil {
		return fmt.Errorf("start failed: %w", err)
	}
	c.logger.LogLadder("quoter_started", map[string]interface{}{
		"market":   c.cfg.Market.ID,
		"interval": c.cfg.QuoteInterval().String(),
	})
	return nil
}

// Stop 逆序停止组件并关闭发布连接。
func (c *Container) Stop() error {
	err := c.lifecycle.StopAll()
	if err != nil {
		c.logger.LogError(err, map[string]interface{}{"action": "stop"})
	}
	if cerr := c.publisher.Close(); cerr != nil {
		c.logger.LogError(cerr, map[string]interface{}{"action": "close_publisher"})
	}
	c.logger.LogLadder("quoter_stopped", nil)
	if c.ownLogger {
		_ = c.logger.Close()
	}
	return err
}

// HealthCheck 检查各组件，非 dry-run 时还要求场所连接在线。
func (c *Container) HealthCheck() error {
	if err := c.lifecycle.CheckHealth(); err != nil {
		return err
	}
	if c.ws != nil && !c.ws.Connected() {
		return fmt.Errorf("venue %s not connected", c.cfg.Gateway.WSURL)
	}
	return nil
}

// DryRun reports whether ladders go to the log instead of the venue.
func (c *Container) DryRun() bool {
	return c.opts.DryRun || c.cfg.Gateway.WSURL == ""
}

func (c *Container) Quoter() *quoter.Quoter { return c.quoter }

func (c *Container) Inventory() *inventory.Tracker { return c.tracker }

// PriceSource 按配置选择价格源：配置了 URL 时走 HTTP + 熔断，否则使用静态价。
func PriceSource(cfg config.AppConfig) market.PriceSource {
	if cfg.PriceFeed.URL == "" {
		return market.StaticSource{Price: cfg.PriceFeed.Static}
	}
	return market.NewBreakerSource(
		"price-feed",
		market.NewHTTPSource(cfg.PriceFeed.URL, FeedTimeout(cfg)),
		cfg.PriceFeed.BreakerFailures,
		time.Duration(cfg.PriceFeed.BreakerTimeoutSec)*time.Second,
	)
}

// FeedTimeout returns the configured HTTP price feed timeout.
func FeedTimeout(cfg config.AppConfig) time.Duration {
	return time.Duration(cfg.PriceFeed.TimeoutMs) * time.Millisecond
}
