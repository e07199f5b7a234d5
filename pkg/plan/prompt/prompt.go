// Package prompt builds the fixed system instruction sent with every plan request.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"plantio/pkg/plan/schema"
)

//go:embed prompts.yaml
var catalogYAML []byte

type versionPrompt struct {
	TaskFields string `yaml:"task_fields"`
	Example    string `yaml:"example"`
}

type catalog struct {
	Header   string                   `yaml:"header"`
	Versions map[string]versionPrompt `yaml:"versions"`
	Footer   string                   `yaml:"footer"`
}

var (
	loadOnce sync.Once
	loaded   catalog
	loadErr  error
)

func load() (catalog, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(catalogYAML, &loaded)
	})
	return loaded, loadErr
}

// Build returns the system instruction for schema version v.
func Build(v schema.Version) (string, error) {
	c, err := load()
	if err != nil {
		return "", fmt.Errorf("load prompt catalog: %w", err)
	}
	vp, ok := c.Versions[string(v)]
	if !ok {
		return "", fmt.Errorf("no prompt for schema version %q", v)
	}

	var sb strings.Builder
	sb.WriteString(c.Header)
	sb.WriteString(indent(vp.TaskFields, "  "))
	sb.WriteString("\nExemplo de saída:\n\n```json\n")
	sb.WriteString(vp.Example)
	sb.WriteString("```\n")
	sb.WriteString(c.Footer)
	return sb.String(), nil
}

func indent(s, pad string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			sb.WriteString(l)
			continue
		}
		sb.WriteString(pad)
		sb.WriteString(l)
	}
	return sb.String()
}
