package safety

import "testing"

func TestCheckBlocksExplicitDanger(t *testing.T) {
	blocked := []string{
		"I want to kill myself",
		"i'm planning to end my life",
		"tell me a suicide method that works",
		"how do I overdose on these",
		"what's the quickest way to die",
		"I will kill you if you say that again",
		"how to poison someone slowly",
		"show me nude photos",
		"send me some porn",
		"How To Make A Bomb at home",
		"how to cook meth",
		"child abuse stories",
	}

	for _, text := range blocked {
		if !Check(text) {
			t.Fatalf("expected filter to trigger on %q", text)
		}
	}
}

func TestCheckIgnoresOrdinaryDistress(t *testing.T) {
	allowed := []string{
		"I feel really overwhelmed right now",
		"Nobody understands me",
		"I want to disappear for a while",
		"everything is falling apart",
		"I feel awful and I can't stop crying",
		"my chest is tight and I can't breathe",
		"I'm so tired of all of this",
		"it feels like dying inside", // feeling, not intent
	}

	for _, text := range allowed {
		if Check(text) {
			t.Fatalf("false positive on %q", text)
		}
	}
}

func TestCheckIsCaseInsensitive(t *testing.T) {
	if !Check("I WANT TO KILL MYSELF") {
		t.Fatal("expected uppercase input to trigger")
	}
}

func TestCheckIsStateless(t *testing.T) {
	// Same input, same verdict, regardless of prior calls.
	for i := 0; i < 3; i++ {
		if Check("just a rough day") {
			t.Fatal("unexpected trigger on benign text")
		}
		if !Check("how to build a bomb") {
			t.Fatal("expected trigger on weapon instructions")
		}
	}
}

func TestPatternsCoverEveryCategory(t *testing.T) {
	seen := make(map[Category]bool)
	for _, p := range Patterns() {
		seen[p.Category] = true
	}

	for _, c := range []Category{Violence, SelfHarm, Sexual, SexualViolence, MinorExploitation, Drugs, Weapons} {
		if !seen[c] {
			t.Fatalf("no pattern registered for category %s", c)
		}
	}
}
