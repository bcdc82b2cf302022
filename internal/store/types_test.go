package store

import (
	"testing"
	"time"
)

func TestRunRecordValidate(t *testing.T) {
	valid := testRecord("job-1")
	if err := valid.Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*RunRecord)
	}{
		{"empty job id", func(r *RunRecord) { r.JobID = "" }},
		{"empty problem", func(r *RunRecord) { r.Config.Problem = "" }},
		{"negative steps", func(r *RunRecord) { r.Config.Steps = -1 }},
		{"zero timestamp", func(r *RunRecord) { r.Timestamp = time.Time{} }},
	}

	for _, c := range cases {
		record := testRecord("job-1")
		c.mutate(record)
		if err := record.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestRunRecordToInfo(t *testing.T) {
	record := testRecord("job-1")
	info := record.ToInfo()

	if info.JobID != record.JobID {
		t.Errorf("JobID = %s, want %s", info.JobID, record.JobID)
	}
	if info.Problem != record.Config.Problem {
		t.Errorf("Problem = %s, want %s", info.Problem, record.Config.Problem)
	}
	if info.Size != record.Config.Size || info.Steps != record.Config.Steps {
		t.Errorf("Size/Steps = %d/%d, want %d/%d",
			info.Size, info.Steps, record.Config.Size, record.Config.Steps)
	}
	if info.FinalEnergy != record.FinalEnergy {
		t.Errorf("FinalEnergy = %v, want %v", info.FinalEnergy, record.FinalEnergy)
	}
	if !info.Timestamp.Equal(record.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", info.Timestamp, record.Timestamp)
	}
}
