package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_ChineseDelegation(t *testing.T) {
	r := Classify("请用gemini帮我分析这个数据", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "gemini", r.TargetTool)
	assert.Contains(t, r.Task, "分析这个数据")
	assert.Equal(t, 0.9, r.Confidence)
}

func TestClassify_EnglishDelegation(t *testing.T) {
	r := Classify("use codex to generate unit tests", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "codex", r.TargetTool)
	assert.Equal(t, "generate unit tests", r.Task)
	assert.Equal(t, 0.9, r.Confidence)
}

func TestClassify_SelfDelegationSuppressed(t *testing.T) {
	r := Classify("use claude to review this code", "claude")

	assert.False(t, r.IsCrossCLI)
	assert.Empty(t, r.TargetTool)
	assert.Equal(t, "use claude to review this code", r.Task)
}

func TestClassify_SelfDelegationSuppressedChinese(t *testing.T) {
	r := Classify("请用claude帮我写一个函数", "Claude")

	assert.False(t, r.IsCrossCLI)
	assert.Empty(t, r.TargetTool)
}

func TestClassify_NoTemplateMatch(t *testing.T) {
	text := "帮我写一个函数"
	r := Classify(text, "claude")

	assert.False(t, r.IsCrossCLI)
	assert.Empty(t, r.TargetTool)
	assert.Equal(t, text, r.Task)
	assert.Equal(t, 1.0, r.Confidence)
}

func TestClassify_EmptyAndWhitespace(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		r := Classify(text, "claude")
		assert.False(t, r.IsCrossCLI)
		assert.Empty(t, r.TargetTool)
		assert.Equal(t, text, r.Task)
	}
}

func TestClassify_UnknownToolFallsThrough(t *testing.T) {
	r := Classify("use nosuchtool to do something", "claude")

	assert.False(t, r.IsCrossCLI)
	assert.Empty(t, r.TargetTool)
}

func TestClassify_UnknownTokenThenKnownTemplate(t *testing.T) {
	// The English "use" template captures an unknown token; a later template
	// ("execute ... with <tool>") still gets a chance.
	r := Classify("use nosuchtool to prepare, then execute the benchmark with gemini", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "gemini", r.TargetTool)
	assert.Equal(t, "the benchmark", r.Task)
}

func TestClassify_ChineseBeforeEnglish(t *testing.T) {
	// Both a Chinese and an English form are present; the Chinese template
	// wins because it comes first in the ordered table.
	r := Classify("请用qwen帮我翻译 use codex to translate", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "qwen", r.TargetTool)
}

func TestClassify_EarliestPatternWinsOnAmbiguity(t *testing.T) {
	r := Classify("use gemini to call codex to do things", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "gemini", r.TargetTool)
}

func TestClassify_CaseInsensitiveEnglish(t *testing.T) {
	r := Classify("Use Gemini to explain this algorithm", "claude")

	require.True(t, r.IsCrossCLI)
	assert.Equal(t, "gemini", r.TargetTool)
}

func TestClassify_NoCrossCLIMeansNoTarget(t *testing.T) {
	// Invariant: IsCrossCLI == false implies TargetTool == "".
	for _, text := range []string{"", "hello", "use claude to x", "用gadget帮我修理"} {
		r := Classify(text, "claude")
		if !r.IsCrossCLI {
			assert.Empty(t, r.TargetTool, "text %q", text)
		}
	}
}
