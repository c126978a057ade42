// Package main 提供 flowbus 演示命令行入口
//
// 启动事件总线运行时，粘性发布 app.started，按固定间隔发布心跳，
// 并注册一个持续订阅者和一个单次订阅者；可选地在 /metrics 暴露指标。
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-flowbus"
	"github.com/dep2p/go-flowbus/internal/app"
	"github.com/dep2p/go-flowbus/pkg/lib/log"
)

var logger = log.Logger("flowbus/cmd")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, flowbus.VersionInfo())
		return nil
	}

	cfg, err := buildConfig(flags)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	// 日志必须在所有模块初始化之前设置
	logCloser, err := cfg.Log.Apply()
	if err != nil {
		return fmt.Errorf("设置日志失败: %w", err)
	}
	defer func() { _ = logCloser.Close() }()

	fmt.Fprintf(stdout, "📦 %s\n", flowbus.VersionInfo())
	logger.Info("启动 flowbus", "version", flowbus.Version, "commit", flowbus.GitCommit, "buildDate", flowbus.BuildDate)

	bootstrap := app.NewBootstrap(
		app.WithConfig(cfg),
		app.WithStopTimeout(cfg.EventBus.ShutdownTimeout.Duration()),
	)

	demo := newDemo(clock.New(), flags.interval)
	a, err := app.RunApp(ctx, bootstrap, func(rt *app.Runtime, hooks *app.LifecycleManager) error {
		demo.bind(rt.EventBus)
		hooks.AddHook(demo.hook())
		if cfg.Metrics.Enabled && cfg.Metrics.ListenAddr != "" {
			hooks.AddHook(newMetricsServer(cfg.Metrics.ListenAddr, rt.Gatherer).hook())
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "事件总线已启动，按 Ctrl+C 退出")
	return a.Wait(ctx)
}
