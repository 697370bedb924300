package bootstrap

import (
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort          string `mapstructure:"SERVER_PORT"`
	EnginePath          string `mapstructure:"ENGINE_PATH"`
	EngineDepth         int    `mapstructure:"ENGINE_DEPTH"`
	EngineTimeoutSec    int    `mapstructure:"ENGINE_TIMEOUT_SEC"`
	BlunderThreshold    int    `mapstructure:"BLUNDER_THRESHOLD"`
	MistakeThreshold    int    `mapstructure:"MISTAKE_THRESHOLD"`
	InaccuracyThreshold int    `mapstructure:"INACCURACY_THRESHOLD"`
	MaxConcurrentGames  int    `mapstructure:"MAX_CONCURRENT_GAMES"`
	RedisUrl            string `mapstructure:"REDIS_URL"`
	MongoUri            string `mapstructure:"MONGO_URI"`
	IsLocalCors         bool   `mapstructure:"LOCAL_CORS"`
	PageLimitErrors     int    `mapstructure:"PAGE_LIMIT_ERRORS"`
}

func Setup(cfgPath string) (*Config, error) {
	viper.SetConfigFile(cfgPath)

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENGINE_DEPTH", 15)
	viper.SetDefault("ENGINE_TIMEOUT_SEC", 60)
	viper.SetDefault("BLUNDER_THRESHOLD", 300)
	viper.SetDefault("MISTAKE_THRESHOLD", 100)
	viper.SetDefault("INACCURACY_THRESHOLD", 50)
	viper.SetDefault("MAX_CONCURRENT_GAMES", 2)
	viper.SetDefault("PAGE_LIMIT_ERRORS", 50)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
