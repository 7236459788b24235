package htmltext

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "plain text passes through",
			input: "Join us for pizza and Python.",
			want:  "Join us for pizza and Python.",
		},
		{
			name:  "tags are stripped",
			input: "<p>Join us for <strong>pizza</strong> and Python.</p>",
			want:  "Join us for pizza and Python.",
		},
		{
			name:  "paragraphs become lines",
			input: "<p>First talk at 6.</p><p>Doors open at 5:30.</p>",
			want:  "First talk at 6.\nDoors open at 5:30.",
		},
		{
			name:  "br becomes newline",
			input: "line one<br>line two",
			want:  "line one\nline two",
		},
		{
			name:  "entities are unescaped",
			input: "<p>Q&amp;A session</p>",
			want:  "Q&A session",
		},
		{
			name:  "whitespace collapses",
			input: "<div>  spaced    out   </div>",
			want:  "spaced out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a longer string", 10, "this is..."},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}
