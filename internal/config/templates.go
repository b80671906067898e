package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# OptionSage Companion Configuration

[ui]
# Enable colored output
color_enabled = true
# Date format (Go reference layout)
date_format = "2006-01-02"

[storage]
# Path of the local database file. Empty uses <config dir>/optionsage.db.
db_path = ""

[ai]
# Model used for study guides and plan reviews
model = "gpt-4o-mini"
# Sampling temperature; keep low for factual summaries
temperature = 0.3
`

const credentialsTemplate = `# OptionSage Companion Credentials
# Keep this file private. Environment variables OPENAI_API_KEY and
# TRADIER_API_KEY override these values.

[openai]
api_key = ""

[tradier]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate)
}

func writeTemplate(configDir, name, content string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
