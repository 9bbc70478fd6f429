package intent

import "strings"

const (
	// matchConfidence is the fixed heuristic weight assigned to a template
	// match. It is not a calibrated probability.
	matchConfidence = 0.9

	// defaultConfidence is reported when no delegation is detected.
	defaultConfidence = 1.0
)

// Classify decides whether text names a tool other than sourceTool as the
// intended executor, and extracts the sub-task to hand off.
//
// Templates are tried in order and the first match wins. A matched tool token
// is lowercased and validated against the closed vocabulary; unknown tokens
// fall through to the next template. Text naming sourceTool itself is never a
// cross-CLI call, in any supported language.
func Classify(text, sourceTool string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Task: text, Confidence: defaultConfidence}
	}

	source := strings.ToLower(strings.TrimSpace(sourceTool))

	for _, tpl := range Templates {
		m := tpl.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		tool := strings.ToLower(m[tpl.ToolGroup])
		if !knownTools[tool] {
			continue
		}

		if tool == source {
			// Self-delegation: suppress and let the host handle the text.
			return Result{Task: text, Confidence: defaultConfidence}
		}

		return Result{
			IsCrossCLI: true,
			TargetTool: tool,
			Task:       strings.TrimSpace(m[tpl.TaskGroup]),
			Confidence: matchConfidence,
		}
	}

	return Result{Task: text, Confidence: defaultConfidence}
}
