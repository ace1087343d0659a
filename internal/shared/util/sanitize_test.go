package util

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "resume.pdf", want: "resume.pdf"},
		{name: "traversal", in: "../../etc/passwd", want: "__etc_passwd"},
		{name: "windows separators", in: `docs\resume.pdf`, want: "docs_resume.pdf"},
		{name: "blank", in: "   ", want: "upload"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Fatalf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
