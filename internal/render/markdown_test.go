package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	out, err := Markdown("Explore the **historic** centre.\nBring water.")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>historic</strong>") {
		t.Errorf("missing emphasis: %q", out)
	}
	if !strings.Contains(out, "<br") {
		t.Errorf("hard wraps not applied: %q", out)
	}
}

func TestMarkdown_EscapesRawHTML(t *testing.T) {
	out, err := Markdown("<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw html passed through: %q", out)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	out, err := Markdown("")
	if err != nil || out != "" {
		t.Errorf("Markdown(\"\") = %q, %v", out, err)
	}
}
