package release

import "testing"

func TestMatchTitle(t *testing.T) {
	candidates := []string{"Rana Naidu", "Paradise Lost", "Kerala Crime Files"}

	got := MatchTitle("Rana Naidu (2023)", candidates)
	if got.Title != "Rana Naidu" {
		t.Errorf("Title = %q, want %q", got.Title, "Rana Naidu")
	}
	if got.Confidence < ConfidenceMedium {
		t.Errorf("Confidence = %s, want at least medium", got.Confidence)
	}
}

func TestMatchTitleNoCandidates(t *testing.T) {
	got := MatchTitle("Anything", nil)
	if got.Confidence != ConfidenceNone || got.Title != "" {
		t.Errorf("expected empty no-confidence result, got %+v", got)
	}
}

func TestMatchTitleRejectsDistantNames(t *testing.T) {
	got := MatchTitle("Completely Unrelated Series", []string{"Zyx Qwv"})
	if got.Confidence != ConfidenceNone {
		t.Errorf("Confidence = %s, want none", got.Confidence)
	}
	if got.Title != "" {
		t.Errorf("Title = %q, want empty", got.Title)
	}
}
