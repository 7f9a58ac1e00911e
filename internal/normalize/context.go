// Package normalize converts heterogeneous generative-model output into
// the canonical activity content shape. It never fails: unparseable input
// degrades through a text extractor down to an empty result, which the
// caller turns into fallback content.
package normalize

// Context carries the form values the content was requested with. The
// normalizer uses them to default fields the model output omits.
type Context struct {
	Title         string
	Subject       string
	Theme         string
	SchoolYear    string
	Count         int
	Difficulty    string
	QuestionModel string // requested question type, e.g. "multipla-escolha" or "mista"
}

// Report describes how a normalization run went. Valid counts items that
// arrived well-formed; Invalid counts items that needed statement or
// alternative defaulting to satisfy the canonical shape.
type Report struct {
	Total   int
	Valid   int
	Invalid int

	// Method is "json" when the structured path succeeded, "text" when
	// the line extractor was used, "none" when nothing was recovered.
	Method string
}
