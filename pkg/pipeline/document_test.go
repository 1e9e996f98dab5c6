package pipeline

import (
	"strings"
	"testing"
)

func TestDocumentSetAndOverwrite(t *testing.T) {
	doc := NewDocument()
	doc.Set("Overview", "first draft")
	doc.Set("Gameplay", "loop")
	doc.Set("Overview", "second draft")

	if doc.Len() != 2 {
		t.Errorf("Len() = %d, want 2", doc.Len())
	}

	text, ok := doc.Section("Overview")
	if !ok || text != "second draft" {
		t.Errorf("Section(Overview) = %q, %v, want overwritten draft", text, ok)
	}

	// Overwriting must not change the section order.
	views := doc.Sections()
	if views[0].Path != "Overview" || views[1].Path != "Gameplay" {
		t.Errorf("Sections() order = [%s %s], want [Overview Gameplay]", views[0].Path, views[1].Path)
	}
}

func TestDocumentComplete(t *testing.T) {
	plan, err := NewPlan(validStages())
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	doc := NewDocument()
	doc.Set("Overview", "a")
	doc.Set("Gameplay", "b")
	if doc.Complete(plan) {
		t.Error("Complete() = true with a missing section")
	}

	doc.Set("Production", "c")
	if !doc.Complete(plan) {
		t.Error("Complete() = false with all sections populated")
	}
}

func TestDocumentRender(t *testing.T) {
	doc := NewDocument()
	doc.Set("Overview", "the pitch")
	doc.Set("Gameplay", "the loop")

	rendered := doc.Render()
	if !strings.Contains(rendered, "## Overview\n\nthe pitch") {
		t.Errorf("Render() missing overview section:\n%s", rendered)
	}
	if !strings.Contains(rendered, "## Gameplay\n\nthe loop") {
		t.Errorf("Render() missing gameplay section:\n%s", rendered)
	}
	if strings.Index(rendered, "Overview") > strings.Index(rendered, "Gameplay") {
		t.Error("Render() sections out of commit order")
	}
}
