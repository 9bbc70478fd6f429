package intent

// Result holds the parsed delegation decision for one piece of user text.
//
// When IsCrossCLI is false, TargetTool is always empty and Task carries the
// input text verbatim so the host tool can process it normally.
type Result struct {
	IsCrossCLI bool
	TargetTool string
	Task       string
	Confidence float64
}
