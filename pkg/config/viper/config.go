// Package viper sources config values from a viper instance, which covers
// config files and flag bindings.
package viper

import (
	"context"

	spfviper "github.com/spf13/viper"

	"github.com/code-payments/spl-token-go/pkg/config"
	"github.com/code-payments/spl-token-go/pkg/config/wrapper"
)

type conf struct {
	v   *spfviper.Viper
	key string
}

// NewConfig returns a config that reads key from v on every Get, so values
// reloaded by v are observed.
func NewConfig(v *spfviper.Viper, key string) config.Config {
	return &conf{
		v:   v,
		key: key,
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	if !c.v.IsSet(c.key) {
		return nil, config.ErrNoValue
	}

	val := c.v.Get(c.key)
	if val == nil {
		return nil, config.ErrNoValue
	}
	return val, nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewStringConfig creates a viper-based string config
func NewStringConfig(v *spfviper.Viper, key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(v, key), defaultValue)
}

// NewUint64Config creates a viper-based uint64 config
func NewUint64Config(v *spfviper.Viper, key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(v, key), defaultValue)
}

// Load reads the config file at path into a new viper instance.
func Load(path string) (*spfviper.Viper, error) {
	v := spfviper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}
