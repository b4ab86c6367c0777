package ai

import "encoding/json"

// Structured is the machine-readable summary shape the model is asked to
// produce.
type Structured struct {
	OneLineSummary string   `json:"one_line_summary"`
	Tasks          []string `json:"tasks"`
	FinalComment   string   `json:"final_comment"`
}

// Result is the outcome of a summarization call: either the parsed
// Structured shape, or the model's raw text when its output was not valid
// JSON. Exactly one variant is set; consumers must handle both.
type Result struct {
	Structured *Structured
	Raw        string
}

// IsStructured reports whether the structured variant is set.
func (r Result) IsStructured() bool { return r.Structured != nil }

// MarshalJSON renders the structured object directly, or the raw fallback
// as {"raw": ...}, matching the proxy response contract.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Structured != nil {
		return json.Marshal(r.Structured)
	}
	return json.Marshal(struct {
		Raw string `json:"raw"`
	}{Raw: r.Raw})
}

// ParseAnswer turns model output into a Result. A parse failure is a
// normal branch, not an error: anything that does not unmarshal as the
// structured shape is returned as the Raw variant verbatim.
func ParseAnswer(answer string) Result {
	var s Structured
	if err := json.Unmarshal([]byte(answer), &s); err != nil {
		return Result{Raw: answer}
	}
	return Result{Structured: &s}
}
