package config

import (
	"fmt"
	"time"
)

type QueueConfig struct {
	Username          string        `mapstructure:"username"`
	Password          string        `mapstructure:"password"`
	Url               string        `mapstructure:"url"`
	ProcessingTimeout time.Duration `mapstructure:"processing-timeout"`

	// BalanceEventsQueue carries balance-change hooks emitted by the token
	// ledger before it finalizes transfers.
	BalanceEventsQueue string `mapstructure:"balance-events-queue"`

	// SettlementEventsQueue receives settlement and claim outcomes for
	// downstream consumers.
	SettlementEventsQueue string `mapstructure:"settlement-events-queue"`
}

func (cfg *QueueConfig) Validate() error {
	if cfg.Url == "" {
		return fmt.Errorf("queue url is required")
	}
	if cfg.ProcessingTimeout <= 0 {
		return fmt.Errorf("queue processing-timeout must be positive")
	}
	if cfg.BalanceEventsQueue == "" {
		return fmt.Errorf("balance-events-queue name is required")
	}
	if cfg.SettlementEventsQueue == "" {
		return fmt.Errorf("settlement-events-queue name is required")
	}

	return nil
}

func (cfg *QueueConfig) AmqpURI() string {
	if cfg.Username == "" {
		return fmt.Sprintf("amqp://%s", cfg.Url)
	}
	return fmt.Sprintf("amqp://%s:%s@%s", cfg.Username, cfg.Password, cfg.Url)
}
