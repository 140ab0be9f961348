package config

import (
	"fmt"
	"time"
)

// TokenConfig points at the external fungible-token ledger the accrual
// engine reads balances and supply from.
type TokenConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *TokenConfig) Validate() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("token ledger endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("token ledger timeout must be positive")
	}

	return nil
}

// TreasuryConfig points at the external value-transfer service that
// custodies deposited yield and pays out claims.
type TreasuryConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *TreasuryConfig) Validate() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("treasury endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("treasury timeout must be positive")
	}

	return nil
}

// AuthConfig points at the external access-control service gating the
// administrative operations.
type AuthConfig struct {
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *AuthConfig) Validate() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("auth endpoint is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("auth timeout must be positive")
	}

	return nil
}
