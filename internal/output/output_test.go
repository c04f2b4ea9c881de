package output

import (
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "text", want: FormatText},
		{in: "json", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatOutput(t *testing.T) {
	o := NewStatusOutput(validSnapshot())

	text, err := FormatOutput(o, FormatText)
	if err != nil || !strings.HasPrefix(text, "FIELD") {
		t.Errorf("text output = %q, err = %v", text, err)
	}

	js, err := FormatOutput(o, FormatJSON)
	if err != nil || !strings.HasPrefix(js, "{") {
		t.Errorf("json output = %q, err = %v", js, err)
	}

	y, err := FormatOutput(o, FormatYAML)
	if err != nil || !strings.HasPrefix(y, "path:") || strings.HasSuffix(y, "\n") {
		t.Errorf("yaml output = %q, err = %v", y, err)
	}
}
