// Package cli implements the adapter capability contract for the supported
// AI CLI tools. One table-driven adapter covers all of them; the per-tool
// Spec describes how to probe the binary, pass a prompt, and install the
// tool's integration shim.
package cli

import "sort"

// IntegrationKind tells how a tool picks up the delegation shim.
type IntegrationKind string

const (
	IntegrationHook         IntegrationKind = "hook"
	IntegrationExtension    IntegrationKind = "extension"
	IntegrationMCP          IntegrationKind = "mcp"
	IntegrationSlashCommand IntegrationKind = "slash_command"
	IntegrationNotification IntegrationKind = "notification"
	IntegrationInheritance  IntegrationKind = "inheritance"
	IntegrationWorkflow     IntegrationKind = "workflow"
)

// DescriptorFormat selects the on-disk encoding of a tool's shim descriptor.
type DescriptorFormat string

const (
	DescriptorJSON DescriptorFormat = "json"
	DescriptorYAML DescriptorFormat = "yaml"
)

// Spec describes how to probe and invoke one tool binary.
type Spec struct {
	Name        string
	DisplayName string

	// Binary is the preferred command; Fallbacks are alternate argv[0] forms
	// tried in priority order when the preferred one is absent.
	Binary    string
	Fallbacks []string

	// VersionArg is passed to the binary for availability probes; exit code 0
	// means available.
	VersionArg string

	// Subcommand, when set, precedes the prompt (codex uses "exec").
	Subcommand string

	// PromptFlag, when set, carries the prompt ("-p", "--prompt"); otherwise
	// the prompt is a bare trailing argument.
	PromptFlag string

	InstallHint string
	APIKeyEnv   string

	Integration IntegrationKind

	// ConfigPath is the tool's own config file receiving the shim descriptor,
	// relative to the user's home directory.
	ConfigPath string
	Descriptor DescriptorFormat
}

// PromptArgs builds the argv tail that delivers task to the tool.
func (s Spec) PromptArgs(task string) []string {
	var args []string
	if s.Subcommand != "" {
		args = append(args, s.Subcommand)
	}
	if s.PromptFlag != "" {
		args = append(args, s.PromptFlag)
	}
	return append(args, task)
}

// Candidates returns every argv[0] form in probe order.
func (s Spec) Candidates() []string {
	return append([]string{s.Binary}, s.Fallbacks...)
}

// Specs is the closed set of supported tools, keyed by canonical name. The
// set mirrors the delegation vocabulary of the intent classifier.
var Specs = map[string]Spec{
	"claude": {
		Name:        "claude",
		DisplayName: "Claude Code CLI",
		Binary:      "claude",
		Fallbacks:   []string{"claude-code"},
		VersionArg:  "--version",
		PromptFlag:  "-p",
		InstallHint: "npm install -g @anthropic/claude-code",
		APIKeyEnv:   "ANTHROPIC_API_KEY",
		Integration: IntegrationHook,
		ConfigPath:  ".config/claude/hooks.json",
		Descriptor:  DescriptorJSON,
	},
	"gemini": {
		Name:        "gemini",
		DisplayName: "Gemini CLI",
		Binary:      "gemini",
		Fallbacks:   []string{"gemini-cli"},
		VersionArg:  "--version",
		PromptFlag:  "-p",
		InstallHint: "npm install -g @google/gemini-cli",
		APIKeyEnv:   "GOOGLE_AI_API_KEY",
		Integration: IntegrationExtension,
		ConfigPath:  ".config/gemini/extensions.json",
		Descriptor:  DescriptorJSON,
	},
	"qwen": {
		Name:        "qwen",
		DisplayName: "Qwen CLI",
		Binary:      "qwen",
		VersionArg:  "--version",
		PromptFlag:  "--prompt",
		InstallHint: "pip install qwen-cli",
		APIKeyEnv:   "QWEN_API_KEY",
		Integration: IntegrationInheritance,
		ConfigPath:  ".config/qwencode/config.yml",
		Descriptor:  DescriptorYAML,
	},
	"iflow": {
		Name:        "iflow",
		DisplayName: "iFlow CLI",
		Binary:      "iflow",
		Fallbacks:   []string{"iflow-cli"},
		VersionArg:  "--version",
		PromptFlag:  "--prompt",
		InstallHint: "npm install -g @iflow-ai/iflow-cli",
		APIKeyEnv:   "IFLOW_API_KEY",
		Integration: IntegrationWorkflow,
		ConfigPath:  ".config/iflow/hooks.yml",
		Descriptor:  DescriptorYAML,
	},
	"qoder": {
		Name:        "qoder",
		DisplayName: "Qoder CLI",
		Binary:      "qodercli",
		Fallbacks:   []string{"qoder"},
		VersionArg:  "--version",
		Integration: IntegrationNotification,
		ConfigPath:  ".qoder/config.json",
		Descriptor:  DescriptorJSON,
	},
	"codebuddy": {
		Name:        "codebuddy",
		DisplayName: "CodeBuddy CLI",
		Binary:      "codebuddy",
		VersionArg:  "--version",
		Integration: IntegrationHook,
		ConfigPath:  ".codebuddy/buddy_config.json",
		Descriptor:  DescriptorJSON,
	},
	"copilot": {
		Name:        "copilot",
		DisplayName: "GitHub Copilot CLI",
		Binary:      "copilot",
		Fallbacks:   []string{"github-copilot"},
		VersionArg:  "--version",
		PromptFlag:  "-p",
		InstallHint: "npm install -g @github/copilot",
		APIKeyEnv:   "GITHUB_TOKEN",
		Integration: IntegrationMCP,
		ConfigPath:  ".copilot/mcp-config.json",
		Descriptor:  DescriptorJSON,
	},
	"codex": {
		Name:        "codex",
		DisplayName: "OpenAI Codex CLI",
		Binary:      "codex",
		Fallbacks:   []string{"openai-codex"},
		VersionArg:  "--version",
		Subcommand:  "exec",
		InstallHint: "npm install -g @openai/codex",
		APIKeyEnv:   "OPENAI_API_KEY",
		Integration: IntegrationSlashCommand,
		ConfigPath:  ".config/codex/slash_commands.json",
		Descriptor:  DescriptorJSON,
	},
	"cline": {
		Name:        "cline",
		DisplayName: "Cline CLI",
		Binary:      "cline",
		VersionArg:  "--version",
		Integration: IntegrationMCP,
		ConfigPath:  ".config/cline/cline_mcp_settings.json",
		Descriptor:  DescriptorJSON,
	},
}

// Names returns the supported tool names, sorted.
func Names() []string {
	out := make([]string, 0, len(Specs))
	for name := range Specs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// InstallHint returns the install command suggestion for name, or "".
func InstallHint(name string) string {
	return Specs[name].InstallHint
}
