package agent

import (
	"encoding/json"
	"strings"
)

// Update is one parsed generation reply: any subset of the known fields,
// each independently validated. Fields absent from the reply stay at
// their zero value; pointer fields distinguish absent from false.
type Update struct {
	ResponseText     string
	HasResponseText  bool
	IdentifiedLaws   []IdentifiedLaw
	Schemes          []ApplicableScheme
	Actions          []string
	Helplines        []Helpline
	Severity         Severity
	NeedsMoreInfo    *bool
	FollowUpQuestion string
}

// ParseUpdate extracts a structured update from raw generation output.
// The reply is expected to contain a single JSON object, possibly wrapped
// in prose; the span between the first '{' and the last '}' is parsed and
// each known field validated on its own, so one malformed field never
// discards the others. Anything unparseable degrades to an update holding
// the entire raw text as the response. ParseUpdate never fails.
func ParseUpdate(raw string) Update {
	fallback := Update{ResponseText: raw, HasResponseText: true}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return fallback
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return fallback
	}

	var upd Update

	if r, ok := fields["response_text"]; ok {
		var text string
		if json.Unmarshal(r, &text) == nil {
			upd.ResponseText = text
			upd.HasResponseText = true
		}
	}
	if r, ok := fields["identified_laws"]; ok {
		for _, entry := range rawList(r) {
			var law IdentifiedLaw
			if json.Unmarshal(entry, &law) == nil && isJSONObject(entry) {
				upd.IdentifiedLaws = append(upd.IdentifiedLaws, law)
			}
		}
	}
	if r, ok := fields["applicable_schemes"]; ok {
		for _, entry := range rawList(r) {
			var scheme ApplicableScheme
			if json.Unmarshal(entry, &scheme) == nil && isJSONObject(entry) {
				upd.Schemes = append(upd.Schemes, scheme)
			}
		}
	}
	if r, ok := fields["recommended_actions"]; ok {
		for _, entry := range rawList(r) {
			var action string
			if json.Unmarshal(entry, &action) == nil {
				upd.Actions = append(upd.Actions, action)
			}
		}
	}
	if r, ok := fields["helplines"]; ok {
		for _, entry := range rawList(r) {
			var hl Helpline
			if json.Unmarshal(entry, &hl) == nil && isJSONObject(entry) {
				upd.Helplines = append(upd.Helplines, hl)
			}
		}
	}
	if r, ok := fields["severity"]; ok {
		var sev Severity
		if json.Unmarshal(r, &sev) == nil && ValidSeverity(sev) {
			upd.Severity = sev
		}
	}
	if r, ok := fields["needs_more_info"]; ok {
		var b bool
		if json.Unmarshal(r, &b) == nil {
			upd.NeedsMoreInfo = &b
		}
	}
	if r, ok := fields["follow_up_question"]; ok {
		var q string
		_ = json.Unmarshal(r, &q)
		upd.FollowUpQuestion = q
	}

	return upd
}

// rawList splits a JSON array into its elements, or returns nil when the
// value is not an array. Malformed elements surface as entries the caller
// fails to unmarshal and skips.
func rawList(r json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(r, &list); err != nil {
		return nil
	}
	return list
}

func isJSONObject(r json.RawMessage) bool {
	for _, c := range r {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}
