// Package session resolves the signed-in user's external identity.
// Every backend call carries it, so the CLI resolves it once at
// startup and threads it explicitly through the orchestrators.
package session

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where an identity value comes from.
type Source struct {
	// Name is used in error messages to give more context.
	Name string
	// Value is an inline value provided via configuration or flags.
	Value string
	// File points to a file containing the value. When set it takes
	// precedence over Value.
	File string
}

// Load returns the resolved value, always trimmed. An error is returned
// when neither File nor Value contain anything usable.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "identity"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	value := strings.TrimSpace(src.Value)
	if value == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return value, nil
}
