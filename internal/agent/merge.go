package agent

import "time"

// MergeUpdate folds a parsed update into the case analysis.
//
// List fields union by key (law text, scheme name, helpline number,
// verbatim action string) and keep the first-seen entry on a key
// collision, so applying the same update twice leaves the case
// unchanged. Severity and needs_more_info overwrite when present.
// UpdatedAt is bumped and DisclaimerIncluded forced true on every call,
// even when nothing else changed.
func MergeUpdate(analysis *CaseAnalysis, upd Update) {
	analysis.UpdatedAt = time.Now().UTC()

	for _, law := range upd.IdentifiedLaws {
		if !hasLaw(analysis.IdentifiedLaws, law.Law) {
			analysis.IdentifiedLaws = append(analysis.IdentifiedLaws, law)
		}
	}
	for _, scheme := range upd.Schemes {
		if !hasScheme(analysis.ApplicableSchemes, scheme.Scheme) {
			analysis.ApplicableSchemes = append(analysis.ApplicableSchemes, scheme)
		}
	}
	for _, action := range upd.Actions {
		if !hasString(analysis.RecommendedActions, action) {
			analysis.RecommendedActions = append(analysis.RecommendedActions, action)
		}
	}
	for _, hl := range upd.Helplines {
		if !hasHelpline(analysis.Helplines, hl.Number) {
			analysis.Helplines = append(analysis.Helplines, hl)
		}
	}

	if upd.Severity != "" {
		analysis.Severity = upd.Severity
	}
	if upd.NeedsMoreInfo != nil {
		analysis.NeedsMoreInfo = *upd.NeedsMoreInfo
	}

	analysis.DisclaimerIncluded = true
}

func hasLaw(laws []IdentifiedLaw, key string) bool {
	for _, l := range laws {
		if l.Law == key {
			return true
		}
	}
	return false
}

func hasScheme(schemes []ApplicableScheme, key string) bool {
	for _, s := range schemes {
		if s.Scheme == key {
			return true
		}
	}
	return false
}

func hasHelpline(helplines []Helpline, number string) bool {
	for _, h := range helplines {
		if h.Number == number {
			return true
		}
	}
	return false
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
