package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server struct {
		Addr          string        `yaml:"addr" env:"ADDR" env-default:":8080"`
		Port          string        `yaml:"port" env:"PORT"`
		SweepInterval time.Duration `yaml:"sweep_interval" env:"SWEEP_INTERVAL" env-default:"5s"`
		AllowOrigins  []string      `yaml:"allow_origins" env:"ALLOW_ORIGINS" env-separator:"," env-default:"*"`
	} `yaml:"server"`

	Game struct {
		BoardSize      int           `yaml:"board_size" env:"BOARD_SIZE" env-default:"5"`
		SearchDepth    int           `yaml:"search_depth" env:"SEARCH_DEPTH" env-default:"3"`
		MaxBoardSize   int           `yaml:"max_board_size" env:"MAX_BOARD_SIZE" env-default:"8"`
		MaxSearchDepth int           `yaml:"max_search_depth" env:"MAX_SEARCH_DEPTH" env-default:"4"`
		MaxSessions    int           `yaml:"max_sessions" env:"MAX_SESSIONS" env-default:"1024"`
		IdleTimeout    time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT" env-default:"10m"`
	} `yaml:"game"`

	Storage struct {
		PostgresURL string `yaml:"postgres_url" env:"POSTGRES_URL"`
		SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH"`
	} `yaml:"storage"`

	Kafka struct {
		Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
		Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"game-events"`
		GroupID string   `yaml:"group_id" env:"KAFKA_GROUP" env-default:"analytics-consumer"`
	} `yaml:"kafka"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Pretty bool   `yaml:"pretty" env:"LOG_PRETTY"`
	} `yaml:"log"`
}

// ListenAddr prefers PORT, which hosting platforms set, over ADDR.
func (c *Config) ListenAddr() string {
	if c.Server.Port != "" {
		return ":" + c.Server.Port
	}
	return c.Server.Addr
}

func (c *Config) Validate() error {
	if c.Game.BoardSize < 1 {
		return fmt.Errorf("board_size must be at least 1, got %d", c.Game.BoardSize)
	}
	if c.Game.SearchDepth < 0 {
		return fmt.Errorf("search_depth must not be negative, got %d", c.Game.SearchDepth)
	}
	if c.Game.BoardSize > c.Game.MaxBoardSize {
		return fmt.Errorf("board_size %d exceeds max_board_size %d", c.Game.BoardSize, c.Game.MaxBoardSize)
	}
	if c.Game.SearchDepth > c.Game.MaxSearchDepth {
		return fmt.Errorf("search_depth %d exceeds max_search_depth %d", c.Game.SearchDepth, c.Game.MaxSearchDepth)
	}
	return nil
}

// Load reads the YAML file at path, letting the environment override it.
// With an empty path only the environment and defaults are used.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns CONFIG_PATH or the -config flag. flag.Parse must have run.
func Path(fromFlag string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return fromFlag
}

// RegisterFlag adds the -config flag to fs.
func RegisterFlag(fs *flag.FlagSet) *string {
	return fs.String("config", "", "path to a YAML configuration file")
}
