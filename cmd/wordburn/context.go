package main

import (
	"strings"
	"sync"

	"wordburn/internal/apiclient"
	"wordburn/internal/config"
)

// commandContext lazily resolves configuration and the daemon client so
// commands that never touch the daemon do not pay for either.
type commandContext struct {
	addrFlag   *string
	tokenFlag  *string
	configFlag *string

	mu         sync.Mutex
	cfg        *config.Config
	cfgPath    string
	cfgExisted bool
	cfgErr     error
	cfgLoaded  bool
}

func newCommandContext(addrFlag, tokenFlag, configFlag *string) *commandContext {
	return &commandContext{
		addrFlag:   addrFlag,
		tokenFlag:  tokenFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfgLoaded {
		path := ""
		if c.configFlag != nil {
			path = *c.configFlag
		}
		c.cfg, c.cfgPath, c.cfgExisted, c.cfgErr = config.Load(path)
		c.cfgLoaded = true
	}
	return c.cfg, c.cfgErr
}

func (c *commandContext) configPath() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfgPath, c.cfgExisted
}

// client builds a daemon API client from flags, falling back to the
// configured bind address and token.
func (c *commandContext) client() (*apiclient.Client, error) {
	addr := ""
	token := ""
	if c.addrFlag != nil {
		addr = strings.TrimSpace(*c.addrFlag)
	}
	if c.tokenFlag != nil {
		token = strings.TrimSpace(*c.tokenFlag)
	}

	if addr == "" || token == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		if addr == "" {
			addr = cfg.Paths.APIBind
		}
		if token == "" {
			token = cfg.Paths.APIToken
		}
	}
	return apiclient.New(addr, token), nil
}
