package config

import "fmt"

// PlanningConfig defines the planner and client sets and the split-form
// defaults.
type PlanningConfig struct {
	// Planners are the account labels rows are grouped under.
	Planners []string `json:"planners"`
	// Clients is the selectable client list. Empty means free-form.
	Clients []string `json:"clients"`
	// DefaultSplitTotal pre-fills the split form's total quantity.
	DefaultSplitTotal int `json:"default_split_total"`
	// DefaultSplitSize pre-fills the split form's chunk size.
	DefaultSplitSize int `json:"default_split_size"`
}

// SetDefaults applies the split-form defaults used by the planning team.
func (c *PlanningConfig) SetDefaults() {
	if c.DefaultSplitTotal == 0 {
		c.DefaultSplitTotal = 5000
	}
	if c.DefaultSplitSize == 0 {
		c.DefaultSplitSize = 1000
	}
}

// Validate checks mandatory fields.
func (c PlanningConfig) Validate() error {
	if len(c.Planners) == 0 {
		return fmt.Errorf("at least one planner is required")
	}
	seen := map[string]bool{}
	for _, p := range c.Planners {
		if p == "" {
			return fmt.Errorf("planner names must not be empty")
		}
		if seen[p] {
			return fmt.Errorf("duplicate planner %q", p)
		}
		seen[p] = true
	}
	if c.DefaultSplitTotal < 1 {
		return fmt.Errorf("default_split_total must be >= 1")
	}
	if c.DefaultSplitSize < 1 {
		return fmt.Errorf("default_split_size must be >= 1")
	}
	return nil
}
