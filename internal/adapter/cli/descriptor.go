package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	descriptorName    = "stigmergy-cross-cli"
	descriptorVersion = "1.0.0"
)

// Descriptor is the integration shim record inserted into a tool's own
// config file. The receiving tool runs Command on every user prompt; a
// non-handled prompt falls through to the tool's normal processing.
type Descriptor struct {
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	Description string   `json:"description" yaml:"description"`
	Kind        string   `json:"kind" yaml:"kind"`
	Command     string   `json:"command" yaml:"command"`
	Events      []string `json:"events" yaml:"events"`
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Priority    int      `json:"priority" yaml:"priority"`
}

// descriptorDoc is the tool's config file as a generic document. Several
// tools point ConfigPath at their general config, not a dedicated hooks
// file, so a rewrite must carry every top-level key through untouched and
// only upsert the hooks entry it owns.
type descriptorDoc map[string]any

func (a *CLIAdapter) descriptorPath() (string, error) {
	home := a.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home dir: %w", err)
		}
	}
	return filepath.Join(home, filepath.FromSlash(a.spec.ConfigPath)), nil
}

func newDescriptor(spec Spec) Descriptor {
	return Descriptor{
		Name:        descriptorName,
		Version:     descriptorVersion,
		Description: "Cross-CLI delegation shim: forwards prompts naming another tool to the stigmergy router",
		Kind:        string(spec.Integration),
		Command:     fmt.Sprintf("stigmergy route --source %s", spec.Name),
		Events:      []string{"user_prompt_submit"},
		Enabled:     true,
		Priority:    100,
	}
}

// writeDescriptor upserts the shim descriptor into the tool's config file,
// keeping unrelated top-level keys and hook entries, and writes atomically
// (tmp+rename).
func writeDescriptor(path string, spec Spec) error {
	doc := loadDescriptorDoc(path, spec.Descriptor)

	desc := newDescriptor(spec)
	hooks, _ := doc["hooks"].([]any)
	replaced := false
	for i, entry := range hooks {
		m, ok := entry.(map[string]any)
		if ok && m["name"] == desc.Name {
			hooks[i] = desc
			replaced = true
			break
		}
	}
	if !replaced {
		hooks = append(hooks, desc)
	}
	doc["hooks"] = hooks
	if _, ok := doc["version"]; !ok {
		doc["version"] = "1.0"
	}

	var data []byte
	var err error
	switch spec.Descriptor {
	case DescriptorYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling descriptor: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing descriptor temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming descriptor file: %w", err)
	}
	return nil
}

// loadDescriptorDoc reads an existing config file; a missing or unparseable
// file yields an empty document rather than an error so a broken config
// never blocks installation.
func loadDescriptorDoc(path string, format DescriptorFormat) descriptorDoc {
	data, err := os.ReadFile(path)
	if err != nil {
		return descriptorDoc{}
	}
	doc := descriptorDoc{}
	switch format {
	case DescriptorYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil || doc == nil {
		return descriptorDoc{}
	}
	return doc
}
