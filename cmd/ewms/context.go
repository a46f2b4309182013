package main

import (
	"strings"

	"ewms/internal/api"
	"ewms/internal/config"
)

// commandContext lazily resolves configuration and the API client so that
// commands which need neither (help, config init) pay no startup cost.
type commandContext struct {
	configFlag *string
	apiFlag    *string

	cfg     *config.Config
	cfgPath string
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, apiFlag: apiFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolvedPath, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.cfgPath = resolvedPath
	return cfg, nil
}

// client builds an API client from the --api flag or the configured bind
// address.
func (c *commandContext) client() (*api.Client, error) {
	if c.apiFlag != nil && strings.TrimSpace(*c.apiFlag) != "" {
		return api.NewClient(*c.apiFlag), nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Paths.APIBind), nil
}
