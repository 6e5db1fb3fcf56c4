package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.pdf", want: "resume.pdf"},
		{in: "  cv final.docx ", want: "cv final.docx"},
		{in: "dir/cv.pdf", want: "dir_cv.pdf"},
		{in: `dir\cv.pdf`, want: "dir_cv.pdf"},
		{in: "cv\x00\r\n.pdf", want: "cv.pdf"},
		{in: strings.Repeat("a", 300) + ".pdf", want: strings.Repeat("a", 255)},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("%q: got %q, %v", tt.in, got, err)
		}
	}
}
