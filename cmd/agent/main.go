package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hara602/hidSentry/internal/config"
	"github.com/Hara602/hidSentry/internal/dispatcher"
	"github.com/Hara602/hidSentry/internal/enforcer"
	"github.com/Hara602/hidSentry/internal/model"
	"github.com/Hara602/hidSentry/internal/monitor"
	"github.com/Hara602/hidSentry/internal/notify"
	"github.com/Hara602/hidSentry/internal/response"
	"github.com/Hara602/hidSentry/internal/sysutil"
	"github.com/Hara602/hidSentry/internal/watcher"
	"github.com/Hara602/hidSentry/internal/whitelist"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file (JSON or YAML)")
	flag.Parse()

	// 配置缺失不退出，使用默认值继续监控
	cfg, cfgErr := config.Load(*configPath)

	// 初始化日志
	sysutil.InitLogger(cfg.LogLevel)
	defer sysutil.Log.Sync()

	if cfgErr != nil {
		sysutil.Log.Warn("Config unavailable, using defaults", zap.Error(cfgErr))
	}

	// evdev / sysfs remove 需要 Root 权限
	if os.Geteuid() != 0 {
		sysutil.LogSugar.Fatal("Must run as root (required by Netlink/evdev/sysfs).")
	}

	sysutil.Log.Info("🛡️ HID Sentry Agent Starting...", zap.Stringer("config", cfg))
	if !cfg.AlertingEnabled() {
		sysutil.Log.Warn("bot_token/chat_id not set, alerts disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entries := whitelist.Load(ctx, cfg.WhitelistFile, cfg.WhitelistDB, sysutil.Log)

	audit, err := sysutil.OpenAuditLog(cfg.AuditLog)
	if err != nil {
		// 审计日志不可用也继续运行，只输出到控制台
		sysutil.Log.Error("Audit log unavailable", zap.Error(err))
	}
	defer audit.Close()

	// 初始化核心模块 (依赖注入)
	detections := make(chan model.Detection, 16)
	coordinator := response.NewCoordinator(
		notify.NewTelegram(cfg.BotToken, cfg.ChatID, cfg.AlertTimeout.Std()),
		audit,
		enforcer.NewSysfsBlocker(cfg.SysfsRoot, cfg.BlockMode),
		sysutil.Log,
	)
	disp := dispatcher.New(
		entries,
		monitor.Settings{Threshold: cfg.Detection.ThresholdSpeed, Window: cfg.Detection.Window.Std()},
		monitor.NewResolver(cfg.InputRegistry, cfg.InputDir),
		monitor.OpenEvdev,
		audit,
		detections,
		sysutil.Log,
	)

	devWatcher := watcher.New(cfg.SysfsRoot)
	usbEvents, err := devWatcher.Start()
	if err != nil {
		sysutil.Log.Fatal("Watcher init failed", zap.Error(err))
	}
	defer devWatcher.Stop()

	// 响应方不跟随 ctx 退出：关机前已产生的检测仍要告警、审计、断开
	respDone := make(chan struct{})
	go func() {
		defer close(respDone)
		coordinator.Run(context.Background(), detections)
	}()

	// 捕获操作系统信号，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		sysutil.Log.Info("Shutting down...", zap.String("signal", sig.String()))
		cancel()
	}()

	sysutil.Log.Info("[*] HID Sentry is running...")
	// Run 返回时所有 Monitor 已退出，不会再有发送方
	disp.Run(ctx, usbEvents)
	cancel()
	close(detections)
	<-respDone
}
