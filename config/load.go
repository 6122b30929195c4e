package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a JSON config file and overlays it on Default. Keys missing
// from the file keep their default values, so a file only needs the
// tunables it actually changes.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
