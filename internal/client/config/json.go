package config

import (
	"encoding/json"
	"os"

	"github.com/ddanilov/daybook/internal/flagx"
	"github.com/ddanilov/daybook/internal/timex"
)

// JSONConfig is the DTO for the optional JSON configuration file. Pointer
// fields distinguish "absent" from zero values so the overlay only touches
// keys present in the file.
type JSONConfig struct {
	ServerURL *string         `json:"server_url"`
	PageSize  *int            `json:"page_size"`
	Debounce  *timex.Duration `json:"debounce"`
}

// parseJSON overlays configuration from the file named by -c/-config.
// Missing flag means no file is loaded; an unreadable or invalid file
// panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JSONConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != nil {
		config.ServerURL = *c.ServerURL
	}
	if c.PageSize != nil {
		config.PageSize = *c.PageSize
	}
	if c.Debounce != nil {
		config.Debounce = c.Debounce.Duration
	}
}
