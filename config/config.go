package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment. With nothing set the program behaves
// like a plain run: ffmpeg/ffprobe from PATH, 20 fps, no history.
type Config struct {
	FFmpegPath  string `env:"VIDWEBP_FFMPEG"     envDefault:"ffmpeg"`
	FFprobePath string `env:"VIDWEBP_FFPROBE"    envDefault:"ffprobe"`
	FPS         int    `env:"VIDWEBP_FPS"        envDefault:"20"`
	HistoryDB   string `env:"VIDWEBP_HISTORY_DB"`
	LogLevel    string `env:"LOG_LEVEL"          envDefault:"warn"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid VIDWEBP_FPS: %d", cfg.FPS)
	}
	return cfg, nil
}

func (c *Config) HistoryEnabled() bool {
	return c.HistoryDB != ""
}
