package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gorewood/docflow/internal/output"
	"github.com/gorewood/docflow/internal/plan"
)

func TestPlan_MissingDefinitions(t *testing.T) {
	src := sourceRepo(t)
	isolate(t)

	out, _, err := execute(t, "", "plan", "--json", "--provider", "local", src)
	if err == nil {
		t.Fatal("expected an error without crew definitions")
	}
	result := decodeJSON(t, out)
	if result["code"] != float64(1) {
		t.Errorf("code = %v, want 1", result["code"])
	}
	if !strings.Contains(result["error"].(string), "docflow init") {
		t.Errorf("error = %v", result["error"])
	}
}

func TestDescribePlan(t *testing.T) {
	var buf bytes.Buffer
	printer := output.NewPrinter(&buf, false, false)

	describePlan(printer, &plan.DocPlan{
		Overview: "Widgets overview",
		Docs: []plan.DocItem{
			{Title: "Getting Started", Goal: "Install", Description: "Setup", Examples: []string{"go get"}},
			{Title: "API Reference", Goal: "Look up", Description: "Calls", Prerequisites: "Go"},
		},
	})

	got := buf.String()
	for _, want := range []string{
		"# Documentation plan",
		"Overview\n\nWidgets overview\n",
		"1. Getting Started  (getting_started.mdx)",
		"2. API Reference  (api_reference.mdx)",
		"   - go get",
		"Prerequisites: Go",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "Prerequisites") != 1 {
		t.Errorf("empty prerequisites should be omitted:\n%s", got)
	}
}
