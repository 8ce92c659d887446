package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "decoder":
		return decoderTemplate, nil
	case "ktrdump":
		return ktrdumpTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const decoderTemplate = `# auto | legacy | current
layout = "auto"
# abort | skip
on_unknown_type = "abort"
# native | little | big
byte_order = "native"
max_payload_bytes = 16777216
`

const ktrdumpTemplate = decoderTemplate + `
summary = false
metrics = false
`
