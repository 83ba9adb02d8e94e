package configs

import (
	"fmt"
	"time"
)

// Configuration is a named, versioned tunable set. Exactly one configuration
// is active at a time; activating one deactivates all others.
type Configuration struct {
	ID                         string    `json:"id"`
	Name                       string    `json:"name"`
	IsActive                   bool      `json:"isActive"`
	PositiveThreshold          float64   `json:"positiveThreshold"`
	NegativeThreshold          float64   `json:"negativeThreshold"`
	MaxTextLength              int       `json:"maxTextLength"`
	EnablePreprocessing        bool      `json:"enablePreprocessing"`
	EnableEntityExtraction     bool      `json:"enableEntityExtraction"`
	EnableIntentClassification bool      `json:"enableIntentClassification"`
	EnableLLMEnhancement       bool      `json:"enableLlmEnhancement"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}

// Validate rejects tunables that would misclassify every input.
func (c Configuration) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("configuration name is required")
	}
	if c.PositiveThreshold < -1 || c.PositiveThreshold > 1 {
		return fmt.Errorf("positive threshold %v out of range [-1,1]", c.PositiveThreshold)
	}
	if c.NegativeThreshold < -1 || c.NegativeThreshold > 1 {
		return fmt.Errorf("negative threshold %v out of range [-1,1]", c.NegativeThreshold)
	}
	if c.NegativeThreshold > c.PositiveThreshold {
		return fmt.Errorf("negative threshold %v exceeds positive threshold %v", c.NegativeThreshold, c.PositiveThreshold)
	}
	if c.MaxTextLength <= 0 {
		return fmt.Errorf("max text length must be positive: %d", c.MaxTextLength)
	}
	return nil
}
