package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// AdminConfig 初始管理员，启动时幂等写入；Email 留空则跳过
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"logLevel"`
}

// RedisConfig Addr 为空时使用本地 LRU 缓存
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret               string `mapstructure:"secret"`
	AccessExpireMinutes  int    `mapstructure:"accessExpireMinutes"`
	RefreshExpireMinutes int    `mapstructure:"refreshExpireMinutes"`
}

type CacheConfig struct {
	DefaultTTLSeconds int `mapstructure:"defaultTTLSeconds"`
	LocalSize         int `mapstructure:"localSize"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func (c *JWTConfig) AccessExpire() time.Duration {
	return time.Duration(c.AccessExpireMinutes) * time.Minute
}

func (c *JWTConfig) RefreshExpire() time.Duration {
	return time.Duration(c.RefreshExpireMinutes) * time.Minute
}

func (c *CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

// Load 加载配置文件，环境变量可覆盖同名配置项
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时允许纯环境变量启动
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
	}

	// 展开 YAML 中的 ${VAR} 引用
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "news-api")
	v.SetDefault("server.port", "8080")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("jwt.secret", "secret_key_change_me")
	v.SetDefault("jwt.accessExpireMinutes", 30)
	v.SetDefault("jwt.refreshExpireMinutes", 60*24*7)
	v.SetDefault("cache.defaultTTLSeconds", 3600)
	v.SetDefault("cache.localSize", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("admin.email", "zs@qq.com")
	v.SetDefault("admin.username", "zs")
	v.SetDefault("admin.password", "zs1024")
}
