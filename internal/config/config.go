package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Hara602/hidSentry/internal/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	envBotToken = "HIDSENTRY_BOT_TOKEN"
	envChatID   = "HIDSENTRY_CHAT_ID"
)

// Config 启动时加载一次，之后只读
type Config struct {
	BotToken      string          `yaml:"bot_token"`
	ChatID        string          `yaml:"chat_id"`
	WhitelistFile string          `yaml:"whitelist_file"`
	WhitelistDB   string          `yaml:"whitelist_db"`
	AuditLog      string          `yaml:"audit_log"`
	LogLevel      string          `yaml:"log_level"`
	InputRegistry string          `yaml:"input_registry"`
	InputDir      string          `yaml:"input_dir"`
	SysfsRoot     string          `yaml:"sysfs_root"`
	BlockMode     string          `yaml:"block_mode"` // "remove" | "deauthorize"
	AlertTimeout  Duration        `yaml:"alert_timeout"`
	Detection     DetectionConfig `yaml:"detection"`
}

// DetectionConfig 速率检测参数
type DetectionConfig struct {
	ThresholdSpeed int           `yaml:"threshold_speed"`
	Window         Duration `yaml:"window"`
}

// AlertingEnabled token 和 chat_id 缺一则不发告警
func (c Config) AlertingEnabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		WhitelistFile: "whitelist.json",
		AuditLog:      "log.txt",
		LogLevel:      "debug",
		InputRegistry: "/proc/bus/input/devices",
		InputDir:      "/dev/input",
		SysfsRoot:     "/sys",
		BlockMode:     "remove",
		AlertTimeout:  Duration(5 * time.Second),
		Detection: DetectionConfig{
			ThresholdSpeed: 12,
			Window:         Duration(time.Second),
		},
	}
}

// Load 读取 YAML/JSON 配置并叠加环境变量。
// 文件缺失或损坏时仍返回可用的默认配置，err 包装 model.ErrConfigUnavailable。
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	var loadErr error

	data, err := os.ReadFile(path)
	if err != nil {
		loadErr = fmt.Errorf("%w: read %s: %v", model.ErrConfigUnavailable, path, err)
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		cfg = DefaultConfig()
		loadErr = fmt.Errorf("%w: parse %s: %v", model.ErrConfigUnavailable, path, err)
	}

	applyEnv(&cfg)
	cfg.normalize()
	return cfg, loadErr
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envBotToken)); v != "" {
		cfg.BotToken = v
	}
	if v := strings.TrimSpace(os.Getenv(envChatID)); v != "" {
		cfg.ChatID = v
	}
}

// normalize 非法值回退为默认值
func (c *Config) normalize() {
	def := DefaultConfig()
	c.BotToken = strings.TrimSpace(c.BotToken)
	c.ChatID = strings.TrimSpace(c.ChatID)
	if c.Detection.ThresholdSpeed <= 0 {
		c.Detection.ThresholdSpeed = def.Detection.ThresholdSpeed
	}
	if c.Detection.Window <= 0 {
		c.Detection.Window = def.Detection.Window
	}
	if c.AlertTimeout <= 0 {
		c.AlertTimeout = def.AlertTimeout
	}
	if c.InputRegistry == "" {
		c.InputRegistry = def.InputRegistry
	}
	if c.InputDir == "" {
		c.InputDir = def.InputDir
	}
	if c.SysfsRoot == "" {
		c.SysfsRoot = def.SysfsRoot
	}
	if c.AuditLog == "" {
		c.AuditLog = def.AuditLog
	}
	if c.BlockMode != "deauthorize" {
		c.BlockMode = def.BlockMode
	}
}

// String 用于调试输出（脱敏）
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Alerting: %v, Whitelist: %s, WhitelistDB: %s, AuditLog: %s, Threshold: %d/%s, BlockMode: %s}",
		c.AlertingEnabled(),
		c.WhitelistFile,
		c.WhitelistDB,
		c.AuditLog,
		c.Detection.ThresholdSpeed,
		c.Detection.Window,
		c.BlockMode,
	)
}
