package server

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 服务端启动配置
// 优先级：环境变量（NETARENA_ 前缀） > config.yaml > 代码内默认值
type Config struct {
	Addr        string  `mapstructure:"addr"`
	TickRate    int     `mapstructure:"tick_rate"`
	LogFile     string  `mapstructure:"log_file"`
	Speed       float64 `mapstructure:"speed"`
	WorldExtent float64 `mapstructure:"world_extent"`
	InputRate   float64 `mapstructure:"input_rate"`  // 每连接每秒允许的输入数
	InputBurst  int     `mapstructure:"input_burst"` // 令牌桶突发容量
}

// LoadConfig 加载配置；配置文件缺失不算错误，环境变量与默认值兜底
func LoadConfig() (*Config, error) {
	// .env 存在则加载，缺失忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NETARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":3000")
	v.SetDefault("tick_rate", 20)
	v.SetDefault("log_file", "app.log")
	v.SetDefault("speed", 5.0)
	v.SetDefault("world_extent", 50.0)
	v.SetDefault("input_rate", 60.0)
	v.SetDefault("input_burst", 120)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.TickRate <= 0 {
		return nil, fmt.Errorf("tick_rate must be positive, got %d", cfg.TickRate)
	}
	return &cfg, nil
}
