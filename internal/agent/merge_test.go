package agent

import (
	"reflect"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeUpdateIdempotent(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")
	upd := Update{
		IdentifiedLaws: []IdentifiedLaw{{Law: "Protection of Women from Domestic Violence Act, 2005", Description: "Civil protection orders"}},
		Schemes:        []ApplicableScheme{{Scheme: "One Stop Centre", Relevance: "Shelter and counselling"}},
		Actions:        []string{"Contact the nearest One Stop Centre."},
		Helplines:      []Helpline{{Name: "Women Helpline", Number: "181"}},
		Severity:       SeverityHigh,
		NeedsMoreInfo:  boolPtr(true),
	}

	MergeUpdate(analysis, upd)
	first := *analysis
	MergeUpdate(analysis, upd)

	analysis.UpdatedAt = first.UpdatedAt
	if !reflect.DeepEqual(first, *analysis) {
		t.Fatalf("second identical merge changed the case:\nfirst:  %+v\nsecond: %+v", first, *analysis)
	}
	if len(analysis.IdentifiedLaws) != 1 || len(analysis.ApplicableSchemes) != 1 ||
		len(analysis.RecommendedActions) != 1 || len(analysis.Helplines) != 1 {
		t.Fatalf("lists grew on repeated merge: %+v", analysis)
	}
}

func TestMergeUpdateDedupByKey(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")
	MergeUpdate(analysis, Update{
		IdentifiedLaws: []IdentifiedLaw{{Law: "DV Act 2005", Description: "first description"}},
		Helplines:      []Helpline{{Name: "Women Helpline", Number: "181"}},
	})
	MergeUpdate(analysis, Update{
		IdentifiedLaws: []IdentifiedLaw{{Law: "DV Act 2005", Description: "different description"}},
		Helplines:      []Helpline{{Name: "WHL", Number: "181"}},
	})

	if len(analysis.IdentifiedLaws) != 1 {
		t.Fatalf("len(IdentifiedLaws) = %d, want 1", len(analysis.IdentifiedLaws))
	}
	if analysis.IdentifiedLaws[0].Description != "first description" {
		t.Fatalf("Description = %q, want the first-seen entry kept", analysis.IdentifiedLaws[0].Description)
	}
	if len(analysis.Helplines) != 1 || analysis.Helplines[0].Name != "Women Helpline" {
		t.Fatalf("Helplines = %+v, want one entry keyed by number with first name kept", analysis.Helplines)
	}
}

func TestMergeUpdateActionsDedupVerbatim(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")
	MergeUpdate(analysis, Update{Actions: []string{"File an FIR at the local police station."}})
	MergeUpdate(analysis, Update{Actions: []string{
		"File an FIR at the local police station.",
		"File an FIR at the local police station",
	}})

	if len(analysis.RecommendedActions) != 2 {
		t.Fatalf("RecommendedActions = %+v, want verbatim dedup only", analysis.RecommendedActions)
	}
}

func TestMergeUpdateSeverityLastWriteWins(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")

	MergeUpdate(analysis, Update{Severity: SeverityLow})
	MergeUpdate(analysis, Update{Severity: SeverityHigh})
	if analysis.Severity != SeverityHigh {
		t.Fatalf("Severity = %q, want high", analysis.Severity)
	}

	MergeUpdate(analysis, Update{})
	if analysis.Severity != SeverityHigh {
		t.Fatalf("Severity = %q, empty update must not reset it", analysis.Severity)
	}

	MergeUpdate(analysis, Update{Severity: SeverityLow})
	if analysis.Severity != SeverityLow {
		t.Fatalf("Severity = %q, want low after downgrade", analysis.Severity)
	}
}

func TestMergeUpdateNeedsMoreInfo(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")
	if !analysis.NeedsMoreInfo {
		t.Fatalf("new case should start with NeedsMoreInfo true")
	}

	MergeUpdate(analysis, Update{NeedsMoreInfo: boolPtr(false)})
	if analysis.NeedsMoreInfo {
		t.Fatalf("NeedsMoreInfo not overwritten to false")
	}

	MergeUpdate(analysis, Update{})
	if analysis.NeedsMoreInfo {
		t.Fatalf("absent needs_more_info must not reset the value")
	}
}

func TestMergeUpdateAlwaysBumps(t *testing.T) {
	analysis := NewCaseAnalysis("sess-1")
	analysis.DisclaimerIncluded = false
	before := analysis.UpdatedAt

	time.Sleep(time.Millisecond)
	MergeUpdate(analysis, Update{})

	if !analysis.UpdatedAt.After(before) {
		t.Fatalf("UpdatedAt not bumped on empty merge")
	}
	if !analysis.DisclaimerIncluded {
		t.Fatalf("DisclaimerIncluded not forced true")
	}
}
