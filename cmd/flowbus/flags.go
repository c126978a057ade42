package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dep2p/go-flowbus"
	"github.com/dep2p/go-flowbus/config"
)

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖 / 快速测试
//   配置文件：持久化配置（JSON 或 YAML）
//
// 优先级（从高到低）：命令行参数 > 环境变量（FLOWBUS_*）> 配置文件 > 默认值
//
// ═══════════════════════════════════════════════════════════════════════════

// 环境变量名
const (
	envPrefix      = "FLOWBUS_"
	envPreset      = "PRESET"
	envLogLevel    = "LOG_LEVEL"
	envMetricsAddr = "METRICS_ADDR"
)

// cliFlags 命令行参数
type cliFlags struct {
	configFile  string
	preset      string
	logLevel    string
	logFormat   string
	logFile     string
	metricsAddr string
	interval    time.Duration
	showVersion bool

	set map[string]bool
}

// parseFlags 解析命令行参数
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("flowbus", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "配置文件路径（.json / .yaml / .yml）")
	fs.StringVar(&f.preset, "preset", "", "预设配置 (default/high-throughput/low-memory)")
	fs.StringVar(&f.logLevel, "log-level", "", "日志级别 (debug/info/warn/error)")
	fs.StringVar(&f.logFormat, "log-format", "", "日志格式 (text/json)")
	fs.StringVar(&f.logFile, "log", "", "日志文件路径")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "/metrics 监听地址，例如 127.0.0.1:9100")
	fs.DurationVar(&f.interval, "interval", time.Second, "心跳间隔")
	fs.BoolVar(&f.showVersion, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", f.interval)
	}
	return f, nil
}

func (f *cliFlags) isSet(name string) bool {
	return f.set[name]
}

// pick 命令行参数优先，其次环境变量
func (f *cliFlags) pick(flagName, flagValue, env string) string {
	if f.isSet(flagName) {
		return flagValue
	}
	return os.Getenv(envPrefix + env)
}

// buildConfig 按优先级合并配置
func buildConfig(f *cliFlags) (*config.Config, error) {
	// ═══════════════════════════════════════════════════════════════════
	// 1. 加载配置文件（持久化配置）
	// ═══════════════════════════════════════════════════════════════════
	cfg := config.NewConfig()
	if f.configFile != "" {
		loaded, err := config.LoadFile(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	// ═══════════════════════════════════════════════════════════════════
	// 2. 命令行参数 / 环境变量覆盖
	// ═══════════════════════════════════════════════════════════════════
	if name := f.pick("preset", f.preset, envPreset); name != "" {
		preset, ok := flowbus.PresetByName(name)
		if !ok {
			return nil, fmt.Errorf("未知预设: %q", name)
		}
		preset.Apply(cfg)
	}
	if level := f.pick("log-level", f.logLevel, envLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if f.isSet("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.isSet("log") {
		cfg.Log.File = f.logFile
	}
	if addr := f.pick("metrics-addr", f.metricsAddr, envMetricsAddr); addr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.ListenAddr = addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
