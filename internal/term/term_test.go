package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/backmassage/photodater/internal/config"
)

func TestPrompt_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"upper", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "no\n", false},
		{"anything else", "sure\n", false},
		{"empty line", "\n", false},
		{"eof", "", false},
		{"no trailing newline", "yes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := &Prompt{In: strings.NewReader(tt.input), Out: &out}
			got := p.Confirm("Rename the pictures in this folder:\n'/photos'")
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "Proceed? [yes|no]") {
				t.Errorf("prompt text missing: %q", out.String())
			}
		})
	}
}

func TestPrompt_ConsecutiveQuestions(t *testing.T) {
	var out bytes.Buffer
	p := &Prompt{In: strings.NewReader("y\nn\n"), Out: &out}
	if !p.Confirm("first") {
		t.Error("first answer should be yes")
	}
	if p.Confirm("second") {
		t.Error("second answer should be no")
	}
}

func TestAutoConfirm(t *testing.T) {
	var c Confirmer = AutoConfirm{}
	if !c.Confirm("anything") {
		t.Error("AutoConfirm should always approve")
	}
}

func TestConfigure(t *testing.T) {
	Configure(config.ColorAlways)
	if !Enabled() {
		t.Error("ColorAlways should enable colors")
	}
	Configure(config.ColorNever)
	if Enabled() {
		t.Error("ColorNever should disable colors")
	}
	if got := Red("x"); got != "x" {
		t.Errorf("Red with colors off = %q, want plain text", got)
	}
}
