package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// FromJSON 从 JSON 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 JSON:
//
//	{
//	  "event_bus": {"buffer_size": 128, "shutdown_timeout": "10s"},
//	  "log": {"level": "debug"}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// FromYAML 从 YAML 数据创建配置
//
// 未出现的字段保留默认值。
//
// 示例 YAML:
//
//	event_bus:
//	  buffer_size: 128
//	  shutdown_timeout: 10s
//	metrics:
//	  listen_addr: 127.0.0.1:9100
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// LoadFile 从文件加载配置并验证
//
// 按扩展名选择格式：.json / .yaml / .yml
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg *Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		cfg, err = FromJSON(data)
	case ".yaml", ".yml":
		cfg, err = FromYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedConfigFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ToJSON 序列化配置
func ToJSON(cfg *Config) ([]byte, error) {
	return json.MarshalIndent(cfg, "", "  ")
}

// CloneConfig 克隆配置
//
// 所有子配置都是值类型，浅拷贝即为深拷贝。
func CloneConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	cloned := *cfg
	return &cloned
}
