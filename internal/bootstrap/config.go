package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	RedisUrl      string        `mapstructure:"REDIS_URL"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	MongoUri      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DB"`
	IsLocalCors   bool          `mapstructure:"LOCAL_CORS"`
	StoreDriver   string        `mapstructure:"STORE_DRIVER"`
	SelectionTTL  time.Duration `mapstructure:"SELECTION_TTL"`
	QueryTimeout  time.Duration `mapstructure:"QUERY_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":    "8080",
	"REDIS_URL":      "localhost:6379",
	"REDIS_PASSWORD": "",
	"MONGO_URI":      "mongodb://localhost:27017",
	"MONGO_DB":       "checkers",
	"LOCAL_CORS":     false,
	"STORE_DRIVER":   StoreMongo,
	"SELECTION_TTL":  "10m",
	"QUERY_TIMEOUT":  "5s",
}

// Setup reads cfgPath (an .env file) and lets environment variables override it.
// A missing file is not an error.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		v.SetConfigType("env")
		err := v.ReadInConfig()
		var notFound viper.ConfigFileNotFoundError
		if err != nil && !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config

	err := v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
