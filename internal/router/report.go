package router

import (
	"fmt"
	"strings"
)

const (
	reportHeader = "## 🔗 Cross-CLI Result"
	reportFooter = "*delegated by stigmergy cross-CLI router*"
	timeLayout   = "2006-01-02 15:04:05"
)

// formatSuccess renders the fixed success report. The target tool name is
// upper-cased so the handoff is visible at a glance in the source tool's
// transcript.
func formatSuccess(call delegation, result string) string {
	var b strings.Builder
	writePreamble(&b, call, "success")
	b.WriteString("\n---\n\n")
	b.WriteString(result)
	b.WriteString("\n\n---\n\n")
	b.WriteString(reportFooter)
	return b.String()
}

// formatFailure renders a complete report for any failure mode, so the user
// always sees what was attempted and why it stopped.
func formatFailure(call delegation, reason string) string {
	var b strings.Builder
	writePreamble(&b, call, "failed")
	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "❌ %s\n", reason)
	b.WriteString("\n---\n\n")
	b.WriteString(reportFooter)
	return b.String()
}

func writePreamble(b *strings.Builder, call delegation, status string) {
	b.WriteString(reportHeader)
	b.WriteString("\n\n")
	fmt.Fprintf(b, "**Source Tool**: %s\n", call.source)
	fmt.Fprintf(b, "**Target Tool**: %s\n", strings.ToUpper(call.target))
	fmt.Fprintf(b, "**Task**: %s\n", call.task)
	fmt.Fprintf(b, "**Time**: %s\n", call.started.Format(timeLayout))
	fmt.Fprintf(b, "**Status**: %s\n", status)
}
