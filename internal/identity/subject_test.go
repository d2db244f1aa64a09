package identity

import "testing"

func TestSplitSubjectBoundaryCases(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{
			name:  "parenthetical list aborts split",
			input: "West (AK; CA; CO; HI; ID; MT; NV; UT; WY)",
			want:  1,
		},
		{
			name:  "fictitious character aborts split",
			input: "Drew; Nancy (Fictitious Character)",
			want:  1,
		},
		{
			name:  "semicolon dominant splits cleanly",
			input: "Contemporary romance fiction; Enemies to lovers; Small town; Workplace romance; Secret relationship; Opposites attract; Second chances",
			want:  7,
		},
		{
			name:  "slash dominant splits cleanly",
			input: "FIC027020  FICTION / Romance / Contemporary; FIC044000  FICTION / Contemporary Women",
			want:  4,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitSubject(tc.input)
			if len(got) != tc.want {
				t.Errorf("SplitSubject(%q) = %d tags (%v), want %d", tc.input, len(got), got, tc.want)
			}
		})
	}
}

func TestSplitSubjectNoDelimiterReturnsWholeString(t *testing.T) {
	got := SplitSubject("Evolution")
	if len(got) != 1 || got[0] != "evolution" {
		t.Errorf("SplitSubject = %v, want lowercased whole string", got)
	}
}

func TestSplitSubjectLowercasesEmittedTags(t *testing.T) {
	got := SplitSubject("Romance; Contemporary Women; Small Town")
	want := []string{"romance", "contemporary women", "small town"}
	if len(got) != len(want) {
		t.Fatalf("SplitSubject = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSubjectTieBetweenDelimitersKeepsWhole(t *testing.T) {
	input := "a, b; c, d; e"
	got := SplitSubject(input)
	if len(got) != 1 || got[0] != input {
		t.Errorf("SplitSubject(tie) = %v, want whole string", got)
	}
}
