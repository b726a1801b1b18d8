package config

import "fmt"

// HTTPConfig defines the API server settings.
type HTTPConfig struct {
	// Addr is the listen address of the API server.
	Addr string `json:"addr"`
	// ReadTimeoutSeconds bounds how long a request may take to read.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// WriteTimeoutSeconds bounds how long a response may take to write.
	WriteTimeoutSeconds int `json:"write_timeout_seconds"`
	// MaxUploadBytes caps the size of an uploaded order file.
	MaxUploadBytes int64 `json:"max_upload_bytes"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeoutSeconds == 0 {
		c.ReadTimeoutSeconds = 30
	}
	if c.WriteTimeoutSeconds == 0 {
		c.WriteTimeoutSeconds = 30
	}
	if c.MaxUploadBytes == 0 {
		c.MaxUploadBytes = 10 << 20
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must be >= 0")
	}
	if c.ReadTimeoutSeconds < 0 || c.WriteTimeoutSeconds < 0 {
		return fmt.Errorf("timeouts must be >= 0")
	}
	return nil
}
