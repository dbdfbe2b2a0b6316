package mimetype

import "testing"

func TestGuess(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "HTML", file: "www/index.html", want: "text/html"},
		{name: "Uppercase extension", file: "INDEX.HTML", want: "text/html"},
		{name: "CSS", file: "base.css", want: "text/css"},
		{name: "PNG", file: "img/logo.png", want: "image/png"},
		{name: "No extension", file: "README", want: ""},
		{name: "Unknown extension", file: "data.zzunknown", want: ""},
		{name: "Dot directory, no extension", file: ".hidden/file", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Guess(tt.file); got != tt.want {
				t.Errorf("Guess(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}
