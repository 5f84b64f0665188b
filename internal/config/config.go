package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Log      LogConfig      `toml:"log"`
	Import   ImportConfig   `toml:"import"`
	Labels   LabelsConfig   `toml:"labels"`
	Registry RegistryConfig `toml:"registry"`
	Redis    RedisConfig    `toml:"redis"`
	Audit    AuditConfig    `toml:"audit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json/console
}

// ImportConfig 导入配置
type ImportConfig struct {
	Atomic      bool  `toml:"atomic"` // 对账是否在单个事务内执行
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// LabelsConfig 标签模板配置
type LabelsConfig struct {
	TemplatePath string `toml:"template_path"` // 为空时使用内置骨架
	SpineFormat  string `toml:"spine_format"`  // a4-10/a4-9
}

// RegistryConfig 登记簿模板配置
type RegistryConfig struct {
	TemplatePath string `toml:"template_path"`
}

// RedisConfig 清册编辑锁；Addr 为空时不加锁
type RedisConfig struct {
	Addr           string `toml:"addr"`
	Password       string `toml:"password"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// AuditConfig 审计日志保留
type AuditConfig struct {
	RetentionHours int `toml:"retention_hours"`
}

// LockTTL 锁租约时长
func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Retention 审计日志保留时长
func (c AuditConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// MaxUploadBytes 上传大小上限
func (c ImportConfig) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Import: ImportConfig{
			Atomic:      true,
			MaxUploadMB: 20,
		},
		Labels: LabelsConfig{
			SpineFormat: "a4-10",
		},
		Redis: RedisConfig{
			LockTTLSeconds: 300,
		},
		Audit: AuditConfig{
			RetentionHours: 72,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadConfigFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadConfigFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: configPath}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	applyEnv(config)
	return config, info, nil
}

// applyEnv 环境变量覆盖（用于部署 / 本地运行）
func applyEnv(config *AppConfig) {
	if v := strings.TrimSpace(os.Getenv("ARCHIVIST_LABEL_TEMPLATE")); v != "" {
		config.Labels.TemplatePath = v
	}
	if v := strings.TrimSpace(os.Getenv("ARCHIVIST_REGISTRY_TEMPLATE")); v != "" {
		config.Registry.TemplatePath = v
	}
	if v := strings.TrimSpace(os.Getenv("ARCHIVIST_REDIS_ADDR")); v != "" {
		config.Redis.Addr = v
	}
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在；相对路径以可执行文件目录为基准
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}
