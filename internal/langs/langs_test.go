package langs

import (
	"strings"
	"testing"
)

func TestSupported(t *testing.T) {
	for _, code := range []string{"hi", "en", "bn", "ta", "sat", "brx"} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false", code)
		}
	}
	for _, code := range []string{"", "xx", "HI", "hindi"} {
		if Supported(code) {
			t.Errorf("Supported(%q) = true", code)
		}
	}
}

func TestAllIsACopy(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("registry is empty")
	}
	if all[0].Code != "hi" {
		t.Fatalf("first entry = %q, want hi", all[0].Code)
	}
	all[0].Code = "mutated"
	if All()[0].Code != "hi" {
		t.Fatal("All returned the underlying registry slice")
	}
}

func TestDisclaimerTable(t *testing.T) {
	en, ok := Disclaimer("en")
	if !ok || en != DisclaimerEN {
		t.Fatalf("Disclaimer(en) = %q, %v", en, ok)
	}
	hi, ok := Disclaimer("hi")
	if !ok || !strings.Contains(hi, "1516") {
		t.Fatalf("Disclaimer(hi) = %q, %v", hi, ok)
	}
	if _, ok := Disclaimer("ta"); ok {
		t.Fatal("Disclaimer(ta) should miss the table")
	}
}

func TestGreetingFallsBackToPivot(t *testing.T) {
	if g := Greeting("hi"); !strings.Contains(g, "हक़सेतु") {
		t.Fatalf("Greeting(hi) = %q", g)
	}
	if g := Greeting("ta"); g != Greeting(Pivot) {
		t.Fatalf("Greeting(ta) = %q, want pivot greeting", g)
	}
}
