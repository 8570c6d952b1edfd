package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"syscall"

	"quorum/internal/config"
)

type commandContext struct {
	apiFlag    *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(apiFlag, configFlag *string) *commandContext {
	return &commandContext{
		apiFlag:    apiFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiAddress resolves the daemon bind address, preferring the --api flag over
// the configured value.
func (c *commandContext) apiAddress() string {
	if c.apiFlag != nil {
		if addr := strings.TrimSpace(*c.apiFlag); addr != "" {
			return addr
		}
	}
	cfg, err := c.ensureConfig()
	if err == nil && cfg != nil && strings.TrimSpace(cfg.Paths.APIBind) != "" {
		return strings.TrimSpace(cfg.Paths.APIBind)
	}
	return config.Default().Paths.APIBind
}

func (c *commandContext) withClient(fn func(*apiClient) error) error {
	client := newAPIClient(c.apiAddress())
	if err := fn(client); err != nil {
		return wrapDialError(err, c.apiAddress())
	}
	return nil
}

func wrapDialError(err error, address string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon: %s refused the connection; start the daemon with `quorumd`", address)
	}
	return err
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
