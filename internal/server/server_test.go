package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cwbudde/anneal/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(":8080", nil, t.TempDir(), config.Default().Defaults)
}

func waitForJobDone(t *testing.T, s *Server, jobID string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, exists := s.jobManager.GetJob(jobID)
		if !exists {
			t.Fatalf("job %s disappeared", jobID)
		}
		if job.State != StatePending && job.State != StateRunning {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestServer_CreateJob(t *testing.T) {
	s := newTestServer(t)

	body := `{"problem": "sort", "size": 8, "steps": 500, "seed": 42}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if job.ID == "" {
		t.Error("job ID should not be empty")
	}
	if job.State != StatePending && job.State != StateRunning && job.State != StateCompleted {
		t.Errorf("unexpected state %s", job.State)
	}

	done := waitForJobDone(t, s, job.ID)
	if done.State != StateCompleted {
		t.Errorf("job finished in state %s (error: %s)", done.State, done.Error)
	}
}

func TestServer_CreateJob_Defaults(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var job Job
	if err := json.NewDecoder(w.Body).Decode(&job); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	defaults := config.Default().Defaults
	if job.Config.Problem != defaults.Problem {
		t.Errorf("Problem = %s, want %s", job.Config.Problem, defaults.Problem)
	}
	if job.Config.Steps != defaults.Steps {
		t.Errorf("Steps = %d, want %d", job.Config.Steps, defaults.Steps)
	}
	if job.Config.Schedule != defaults.Schedule {
		t.Errorf("Schedule = %s, want %s", job.Config.Schedule, defaults.Schedule)
	}

	waitForJobDone(t, s, job.ID)
}

func TestServer_CreateJob_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestServer_CreateJob_UnknownProblem(t *testing.T) {
	s := newTestServer(t)

	body := `{"problem": "nonexistent"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	w := httptest.NewRecorder()

	s.handleCreateJob(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if len(s.jobManager.ListJobs()) != 0 {
		t.Error("no job should be created for an unknown problem")
	}
}

func TestServer_ListJobs(t *testing.T) {
	s := newTestServer(t)
	s.jobManager.CreateJob(testJobConfig())
	s.jobManager.CreateJob(testJobConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()

	s.handleListJobs(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var jobs []Job
	if err := json.NewDecoder(w.Body).Decode(&jobs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(jobs) != 2 {
		t.Errorf("got %d jobs, want 2", len(jobs))
	}
}

func TestServer_GetJobStatus(t *testing.T) {
	s := newTestServer(t)
	job := s.jobManager.CreateJob(testJobConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/status", nil)
	w := httptest.NewRecorder()

	s.handleGetJobStatus(w, req, job.ID)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["id"] != job.ID {
		t.Errorf("id = %v, want %s", response["id"], job.ID)
	}
	if response["state"] != string(StatePending) {
		t.Errorf("state = %v, want %s", response["state"], StatePending)
	}
}

func TestServer_GetJobStatus_NotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/nope/status", nil)
	w := httptest.NewRecorder()

	s.handleGetJobStatus(w, req, "nope")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestServer_GetTrace_NotFound(t *testing.T) {
	s := newTestServer(t)
	job := s.jobManager.CreateJob(testJobConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+job.ID+"/trace", nil)
	w := httptest.NewRecorder()

	s.handleGetTrace(w, req, job.ID)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestServer_DeleteJob(t *testing.T) {
	s := newTestServer(t)
	job := s.jobManager.CreateJob(testJobConfig())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/"+job.ID, nil)
	w := httptest.NewRecorder()

	s.handleDeleteJob(w, req, job.ID)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusNoContent, w.Body.String())
	}
	if _, exists := s.jobManager.GetJob(job.ID); exists {
		t.Error("job still exists after delete")
	}
}

func TestServer_DeleteJob_Running(t *testing.T) {
	s := newTestServer(t)
	job := s.jobManager.CreateJob(testJobConfig())
	s.jobManager.UpdateJob(job.ID, func(j *Job) {
		j.State = StateRunning
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/jobs/"+job.ID, nil)
	w := httptest.NewRecorder()

	s.handleDeleteJob(w, req, job.ID)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()

	s.handleJobs(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestEventBroadcaster(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("job-1")

	event := ProgressEvent{
		JobID:       "job-1",
		State:       StateCompleted,
		FinalEnergy: 1.5,
		Timestamp:   time.Now(),
	}
	eb.Broadcast(event)

	select {
	case got := <-ch:
		if got.JobID != "job-1" || got.State != StateCompleted {
			t.Errorf("unexpected event: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	eb.Unsubscribe("job-1", ch)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestEventBroadcaster_ConcurrentBroadcast(t *testing.T) {
	eb := NewEventBroadcaster()

	// Workers broadcast completion events concurrently, one job each, the
	// way runJob does when several jobs finish at once.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		jobID := fmt.Sprintf("job-%d", i)
		ch := eb.Subscribe(jobID)
		defer eb.Unsubscribe(jobID, ch)

		wg.Add(1)
		go func() {
			defer wg.Done()
			eb.Broadcast(ProgressEvent{
				JobID:     jobID,
				State:     StateCompleted,
				Timestamp: time.Now(),
			})
		}()
	}
	wg.Wait()

	// Every job's last event must have been recorded.
	for i := 0; i < 8; i++ {
		jobID := fmt.Sprintf("job-%d", i)
		ch := eb.Subscribe(jobID)
		select {
		case got := <-ch:
			if got.JobID != jobID {
				t.Errorf("replayed event for %s has JobID %s", jobID, got.JobID)
			}
		case <-time.After(time.Second):
			t.Fatalf("no last event recorded for %s", jobID)
		}
		eb.Unsubscribe(jobID, ch)
	}
}

func TestEventBroadcaster_LastEventReplay(t *testing.T) {
	eb := NewEventBroadcaster()

	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateCompleted})

	// A client subscribing after the fact still sees the last event.
	ch := eb.Subscribe("job-1")
	select {
	case got := <-ch:
		if got.State != StateCompleted {
			t.Errorf("replayed state = %s, want %s", got.State, StateCompleted)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed event")
	}

	eb.CleanupJob("job-1")
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after cleanup")
	}
}
