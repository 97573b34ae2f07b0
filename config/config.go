package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Name          string
		Addr          string
		OfferPort     int
		OfferInterval time.Duration
		BroadcastAddr string
	}
	Client struct {
		Team      string
		Rounds    int
		OfferPort int
	}
	Storage struct {
		Driver string // memory | redis | postgres
		DSN    string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	HTTP struct {
		Addr string
	}
	Log struct {
		Level string
	}
}

var C Config

const DefaultPath = "config/config.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "BlockJack")
	v.SetDefault("server.addr", ":0")
	v.SetDefault("server.offerport", 13122)
	v.SetDefault("server.offerinterval", time.Second)
	v.SetDefault("server.broadcastaddr", "255.255.255.255")

	v.SetDefault("client.team", "BlockJack")
	v.SetDefault("client.rounds", 0)
	v.SetDefault("client.offerport", 13122)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.dsn", "")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
}

// Load 读取配置文件并叠加 BJ_ 前缀的环境变量（例如 BJ_SERVER_NAME）。
// 文件不存在时只用默认值。
func Load(path string) error {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	C = c
	return nil
}

func (c *Config) validate() error {
	for name, p := range map[string]int{
		"server.offerPort": c.Server.OfferPort,
		"client.offerPort": c.Client.OfferPort,
	} {
		if p < 1 || p > 65535 {
			return fmt.Errorf("%s out of range: %d", name, p)
		}
	}
	if c.Client.Rounds < 0 || c.Client.Rounds > 255 {
		return fmt.Errorf("client.rounds must be 0..255, got %d", c.Client.Rounds)
	}
	if c.Server.OfferInterval <= 0 {
		return fmt.Errorf("server.offerInterval must be positive")
	}
	switch c.Storage.Driver {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
