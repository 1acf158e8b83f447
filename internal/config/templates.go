package config

import (
	"fmt"
	"os"
)

func Template() string {
	return configTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}

const configTemplate = `# aeprobe configuration

# Signature catalog: a .json list of {"hex", "version"} objects or a .toml
# file of [[build]] tables. Leave empty to report every version as Unknown.
catalog = "ae-builds.json"

# trace | debug | info | warn | error | off
log_level = "info"

# JSON output indentation.
indent = "  "

# Longest accepted line of an analysis stream.
max_line_bytes = 1048576

# Project files inspected in parallel by "aeprobe version".
concurrency = 4
`
