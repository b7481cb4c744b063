package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML overlay. Only keys present in the file override
// the environment-derived values.
type fileConfig struct {
	WorkQueue struct {
		HighValueThreshold *float64 `yaml:"high_value_threshold"`
		StaleAfter         string   `yaml:"stale_after"`
	} `yaml:"work_queue"`
	Display struct {
		Currency string `yaml:"currency"`
		Locale   string `yaml:"locale"`
	} `yaml:"display"`
	Notifications struct {
		DismissAfter string `yaml:"dismiss_after"`
	} `yaml:"notifications"`
	Retry struct {
		Backoff []string `yaml:"backoff"`
	} `yaml:"retry"`
}

// LoadFile applies the YAML overlay at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.apply(data)
}

func (c *Config) apply(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.WorkQueue.HighValueThreshold != nil {
		c.HighValueThreshold = *fc.WorkQueue.HighValueThreshold
	}
	if err := setDuration(&c.StaleAfter, fc.WorkQueue.StaleAfter, "work_queue.stale_after"); err != nil {
		return err
	}
	if err := setDuration(&c.NotificationDismissAfter, fc.Notifications.DismissAfter, "notifications.dismiss_after"); err != nil {
		return err
	}
	if fc.Display.Currency != "" {
		c.Currency = fc.Display.Currency
	}
	if fc.Display.Locale != "" {
		c.Locale = fc.Display.Locale
	}

	if len(fc.Retry.Backoff) > 0 {
		backoff := make([]time.Duration, len(fc.Retry.Backoff))
		for i, s := range fc.Retry.Backoff {
			d, err := time.ParseDuration(s)
			if err != nil {
				return fmt.Errorf("retry.backoff[%d]: %w", i, err)
			}
			backoff[i] = d
		}
		c.RetryBackoff = backoff
	}
	return nil
}

func setDuration(dst *time.Duration, s, key string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
