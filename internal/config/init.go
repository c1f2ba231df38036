package config

import (
	"fmt"
	"os"
)

const defaultConfigTemplate = `# blogbuilder configuration
site:
  title: "My Blog"
  description: ""
  author: ""
  base_url: "https://example.com"
  # base_path is prepended to all generated internal links, e.g. "/blog"
  base_path: ""

# Directory (or git URL) holding markdown posts and assets
source: ./content

output:
  directory: ./public

# Uncomment to record build manifests:
# history:
#   database: ./builds.db

# Uncomment to publish build events over NATS:
# notify:
#   enabled: true
#   url: nats://localhost:4222
#   subject: blog.builds
`

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
