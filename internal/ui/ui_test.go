package ui

import (
	"context"
	"strings"
	"testing"
	"time"
)

func renderJobList(t *testing.T, items []JobListItem) string {
	t.Helper()
	var sb strings.Builder
	if err := JobList(items).Render(context.Background(), &sb); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return sb.String()
}

func TestJobList_Empty(t *testing.T) {
	out := renderJobList(t, nil)

	if !strings.Contains(out, "No jobs yet") {
		t.Error("empty list should show placeholder text")
	}
	if strings.Contains(out, "<table>") {
		t.Error("empty list should not render a table")
	}
}

func TestJobList_Rows(t *testing.T) {
	items := []JobListItem{
		{
			ID:            "aaaabbbb-cccc-dddd-eeee-ffff00001111",
			State:         "completed",
			Problem:       "sort",
			Size:          8,
			Steps:         500,
			InitialEnergy: 14,
			FinalEnergy:   0,
			StartTime:     time.Now(),
		},
	}
	out := renderJobList(t, items)

	if !strings.Contains(out, "<table>") {
		t.Error("expected a table")
	}
	if !strings.Contains(out, "aaaabbbb") {
		t.Error("expected truncated job ID in output")
	}
	if !strings.Contains(out, "/api/v1/jobs/aaaabbbb-cccc-dddd-eeee-ffff00001111/status") {
		t.Error("expected status link with the full job ID")
	}
	if !strings.Contains(out, "sort") {
		t.Error("expected problem name in output")
	}
}

func TestJobList_EscapesError(t *testing.T) {
	items := []JobListItem{
		{
			ID:        "job-1",
			State:     "failed",
			Problem:   "sort",
			StartTime: time.Now(),
			Error:     "<script>alert(1)</script>",
		},
	}
	out := renderJobList(t, items)

	if strings.Contains(out, "<script>") {
		t.Error("error message must be HTML-escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("expected escaped error message in output")
	}
}
