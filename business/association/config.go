package association

import (
	"fmt"
	"relatedItems/domain"
)

type Config struct {
	// K: max recommendations kept per base item after ranking
	MaxPerItem int
	// Theta: minimum confidence, applied before truncation
	MinConfidence float64
}

const (
	defaultMaxPerItem    = 10
	defaultMinConfidence = 0.0
)

func DefaultConfig() Config {
	return Config{
		MaxPerItem:    defaultMaxPerItem,
		MinConfidence: defaultMinConfidence,
	}
}

func (c Config) Validate() error {
	if c.MaxPerItem <= 0 {
		return fmt.Errorf("%w: max per item must be positive, got %d", domain.ErrInvalidConfig, c.MaxPerItem)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence must be in [0,1], got %v", domain.ErrInvalidConfig, c.MinConfidence)
	}
	return nil
}
