package model

import "testing"

func TestParseTimePeriod(t *testing.T) {
	cases := []struct {
		raw  string
		want TimePeriod
		ok   bool
	}{
		{"morning", Morning, true},
		{"AFTERNOON", Afternoon, true},
		{"Night", Night, true},
		{" morning ", " morning ", false},
		{"evening", "evening", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseTimePeriod(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseTimePeriod(%q) = %q, %v; want %q, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestArtifactSuffix(t *testing.T) {
	if Night.ArtifactSuffix() != "evening" || Morning.ArtifactSuffix() != "morning" {
		t.Fatal("unexpected artifact suffixes")
	}
}
