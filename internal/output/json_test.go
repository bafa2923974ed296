package output

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	f := NewJSONFormatter()

	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
	if f.Description() == "" {
		t.Error("Description() should not be empty")
	}
	if f.Extension() != ".json" {
		t.Errorf("Extension() = %q, want %q", f.Extension(), ".json")
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), sampleGraph(t), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Errorf("Format() produced invalid JSON: %s", buf.String())
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	want := []string{"dot", "json", "markdown", "mermaid"}
	if got := m.ListFormatters(); !reflect.DeepEqual(got, want) {
		t.Errorf("ListFormatters() = %v, want %v", got, want)
	}

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{"json", "json", "json", false},
		{"dot upper", "DOT", "dot", false},
		{"md alias", "md", "markdown", false},
		{"unknown", "yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := m.GetFormatter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if err == nil && f.Name() != tt.want {
				t.Errorf("GetFormatter(%q).Name() = %q, want %q", tt.format, f.Name(), tt.want)
			}
		})
	}
}

func TestManagerFormat(t *testing.T) {
	m := NewManager()
	g := sampleGraph(t)

	for _, name := range m.ListFormatters() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := m.Format(context.Background(), name, g, &buf); err != nil {
				t.Fatalf("Format(%q) error = %v", name, err)
			}
			if buf.Len() == 0 {
				t.Errorf("Format(%q) wrote nothing", name)
			}
		})
	}

	var buf bytes.Buffer
	if err := m.Format(context.Background(), "nope", g, &buf); err == nil {
		t.Error("Format() with unknown format expected error")
	}
}
