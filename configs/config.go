package configs

import (
	"log"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	config *Config
	once   sync.Once
)

type Config struct {
	Viper *viper.Viper
}

func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		setDefaults(v)

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Fatalf("Failed to read config file: %v", err)
			}
			log.Println("No config file found, using defaults and environment")
		}

		config = &Config{Viper: v}
	})
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "direct_chat")
	v.SetDefault("database.ssl", "disable")
	v.SetDefault("database.timezone", "UTC")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("jwt.expiration_time", 86400)

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.external_endpoint", "localhost:9000")
}
