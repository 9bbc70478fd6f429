package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Template is one recognized delegation phrasing. The tool token and the
// sub-task are captured by the groups named in ToolGroup/TaskGroup.
type Template struct {
	Pattern   *regexp.Regexp
	ToolGroup int
	TaskGroup int
}

// Templates is the ordered list of delegation phrasings. Matching is strictly
// first-match-wins: Chinese imperative forms are tried before English forms,
// and within a language the order below is the priority order. Ambiguous input
// that could match two tools resolves by this iteration order.
var Templates = []Template{
	// Chinese imperative forms.
	{Pattern: regexp.MustCompile(`请用(\w+)\s*帮我?([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`调用(\w+)\s*来([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`用(\w+)\s*帮我?([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`让(\w+)\s*帮我?([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`使用(\w+)\s*处理([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`通过(\w+)\s*执行([^。！？\n]*)`), ToolGroup: 1, TaskGroup: 2},

	// English forms.
	{Pattern: regexp.MustCompile(`(?i)use\s+(\w+)\s+to\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`(?i)call\s+(\w+)\s+to\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`(?i)ask\s+(\w+)\s+for\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`(?i)tell\s+(\w+)\s+to\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`(?i)get\s+(\w+)\s+to\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},
	{Pattern: regexp.MustCompile(`(?i)have\s+(\w+)\s+([^.!?\n]*)`), ToolGroup: 1, TaskGroup: 2},

	// Forms where the tool token trails the sub-task.
	{Pattern: regexp.MustCompile(`(?i)execute\s+([^.!?\n]*?)\s+with\s+(\w+)`), ToolGroup: 2, TaskGroup: 1},
	{Pattern: regexp.MustCompile(`(?i)process\s+([^.!?\n]*?)\s+using\s+(\w+)`), ToolGroup: 2, TaskGroup: 1},
}

// knownTools is the closed vocabulary of delegation targets. A matched token
// outside this set is not a delegation; the matcher falls through to the next
// template.
var knownTools = map[string]bool{
	"claude":    true,
	"gemini":    true,
	"qwen":      true,
	"iflow":     true,
	"qoder":     true,
	"codebuddy": true,
	"copilot":   true,
	"codex":     true,
	"cline":     true,
}

// KnownTool reports whether name is in the delegation vocabulary.
func KnownTool(name string) bool {
	return knownTools[strings.ToLower(name)]
}

// KnownTools returns the delegation vocabulary, sorted.
func KnownTools() []string {
	out := make([]string, 0, len(knownTools))
	for name := range knownTools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
