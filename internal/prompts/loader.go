// Package prompts holds the externalized prompt fragments used when talking
// to the generative backend, embedded at compile time.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed assistant.json
var assistantFile []byte

var (
	loadOnce sync.Once
	loaded   map[string]string
	loadErr  error
)

// Get retrieves a prompt fragment by key.
func Get(key string) (string, error) {
	loadOnce.Do(func() {
		loadErr = json.Unmarshal(assistantFile, &loaded)
	})
	if loadErr != nil {
		return "", fmt.Errorf("failed to parse embedded prompts: %w", loadErr)
	}
	prompt, ok := loaded[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return prompt, nil
}

// MustGet retrieves a prompt fragment, panicking if absent. Use only for
// fragments required at initialization.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format substitutes {{.Key}} placeholders with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{.%s}}", key), value)
	}
	return result
}
