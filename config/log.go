// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dep2p/go-flowbus/pkg/lib/log"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug / info / warn / error
	// 默认值: info
	Level string `json:"level" yaml:"level"`

	// Format 输出格式：text / json
	// 默认值: text
	Format string `json:"format" yaml:"format"`

	// File 日志文件路径，空表示输出到 stderr
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// DefaultLogConfig 返回默认的日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:  "info",
		Format: "text",
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	if _, err := log.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", types.ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", types.ErrInvalidConfig, c.Format)
	}
	return nil
}

// Apply 按配置设置默认 logger
//
// 返回的 io.Closer 用于关闭日志文件；未配置文件时为空操作。
func (c LogConfig) Apply() (io.Closer, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if c.File != "" {
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.Format) == "json" {
		log.SetDefault(log.NewJSON(w, opts))
	} else {
		log.SetDefault(log.New(w, opts))
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
