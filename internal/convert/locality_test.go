package convert

import (
	"testing"
)

func TestParseLocalities(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []LocalityStack
	}{
		{
			name:  "single entry",
			input: "clause=4",
			want:  []LocalityStack{{{Type: "clause", From: "4"}}},
		},
		{
			name:  "range",
			input: "page=4-5",
			want:  []LocalityStack{{{Type: "page", From: "4", To: "5"}}},
		},
		{
			name:  "stacked entries",
			input: "clause=3,table=1",
			want:  []LocalityStack{{{Type: "clause", From: "3"}, {Type: "table", From: "1"}}},
		},
		{
			name:  "multiple stacks",
			input: "clause=3;annex=B",
			want: []LocalityStack{
				{{Type: "clause", From: "3"}},
				{{Type: "annex", From: "B"}},
			},
		},
		{
			name:  "whole marker",
			input: "whole",
			want:  []LocalityStack{{{Type: "whole"}}},
		},
		{
			name:  "trailing free text attaches to prior locality",
			input: "clause=5,the note in particular",
			want:  []LocalityStack{{{Type: "clause", From: "5", Text: "the note in particular"}}},
		},
		{
			name:  "leading free text is an entirety reference",
			input: "the whole document",
			want:  []LocalityStack{{{Type: "whole", Text: "the whole document"}}},
		},
		{
			name:  "extension type",
			input: "locality:frontispiece=2",
			want:  []LocalityStack{{{Type: "frontispiece", From: "2"}}},
		},
		{
			name:  "unrecognized type passes through",
			input: "movement=allegro",
			want:  []LocalityStack{{{Type: "movement", From: "allegro"}}},
		},
		{
			name:  "empty input",
			input: "  ",
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLocalities(tc.input)
			if err != nil {
				t.Fatalf("ParseLocalities(%q) error: %v", tc.input, err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("stack count = %d; want %d", len(got), len(tc.want))
			}
			for i := range got {
				if len(got[i]) != len(tc.want[i]) {
					t.Fatalf("stack %d has %d localities; want %d", i, len(got[i]), len(tc.want[i]))
				}
				for j := range got[i] {
					if got[i][j] != tc.want[i][j] {
						t.Errorf("stack %d locality %d = %+v; want %+v", i, j, got[i][j], tc.want[i][j])
					}
				}
			}
		})
	}
}

func TestLooksLikeLocality(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"clause=3", true},
		{"whole", true},
		{"clause=3,table=2", true},
		{"the second figure", false},
		{"see above", false},
	}
	for _, tc := range cases {
		if got := looksLikeLocality(tc.input); got != tc.want {
			t.Errorf("looksLikeLocality(%q) = %v; want %v", tc.input, got, tc.want)
		}
	}
}
