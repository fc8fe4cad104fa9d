package recommend

import "testing"

type ranked struct {
	name  string
	score float64
}

func TestTopKStable(t *testing.T) {
	items := []ranked{
		{"a", 3}, {"b", 7}, {"c", 3}, {"d", 7}, {"e", 1}, {"f", 3}, {"g", 9},
	}

	got := TopK(items, MaxResults, func(r ranked) float64 { return r.score })

	want := []string{"g", "b", "d", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].name != w {
			t.Errorf("position %d: got %s, want %s", i, got[i].name, w)
		}
	}

	if items[0].name != "a" {
		t.Error("input slice was reordered")
	}
}

func TestTopKShortInput(t *testing.T) {
	got := TopK([]ranked{{"x", 1.5}, {"y", 2}}, MaxResults, func(r ranked) float64 { return r.score })
	if len(got) != 2 || got[0].name != "y" {
		t.Errorf("unexpected result: %+v", got)
	}

	if empty := TopK([]ranked{}, MaxResults, func(r ranked) float64 { return r.score }); len(empty) != 0 {
		t.Errorf("expected empty result, got %+v", empty)
	}
}
