package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_ChineseFormsComeFirst(t *testing.T) {
	require.NotEmpty(t, Templates)

	// The first six templates are the Chinese imperative forms; they must
	// stay ahead of the English forms.
	for i := 0; i < 6; i++ {
		assert.False(t, Templates[i].Pattern.MatchString("use gemini to x"),
			"template %d should be a Chinese form", i)
	}
	assert.True(t, Templates[6].Pattern.MatchString("use gemini to x"))
}

func TestTemplates_GroupIndexesCaptureToolToken(t *testing.T) {
	samples := map[string]string{
		"请用gemini帮我分析数据":                  "gemini",
		"调用codex来生成代码":                    "codex",
		"用qwen帮我翻译":                       "qwen",
		"让copilot帮我补全":                    "copilot",
		"使用cline处理这个问题":                   "cline",
		"通过iflow执行这个流程":                   "iflow",
		"use gemini to summarize":         "gemini",
		"call codex to refactor":          "codex",
		"ask qoder for a review":          "qoder",
		"tell codebuddy to fix the bug":   "codebuddy",
		"get claude to explain":           "claude",
		"have gemini write the docs":      "gemini",
		"execute the scan with copilot":   "copilot",
		"process the report using gemini": "gemini",
	}

	for text, want := range samples {
		matched := false
		for _, tpl := range Templates {
			m := tpl.Pattern.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			assert.Equal(t, want, m[tpl.ToolGroup], "text %q", text)
			matched = true
			break
		}
		assert.True(t, matched, "no template matched %q", text)
	}
}

func TestKnownTool(t *testing.T) {
	assert.True(t, KnownTool("gemini"))
	assert.True(t, KnownTool("GEMINI"))
	assert.False(t, KnownTool("nosuchtool"))
	assert.False(t, KnownTool(""))
}

func TestKnownTools_SortedAndClosed(t *testing.T) {
	tools := KnownTools()
	require.Len(t, tools, 9)
	assert.IsType(t, []string{}, tools)
	for i := 1; i < len(tools); i++ {
		assert.Less(t, tools[i-1], tools[i])
	}
	for _, name := range tools {
		assert.True(t, KnownTool(name))
	}
}
