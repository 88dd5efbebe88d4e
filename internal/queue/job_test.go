package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewJob(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	payload := json.RawMessage(`{"name":"Q3 roadmap"}`)

	job := NewJob(JobTypeRoadmapGeneration, projectID, payload)

	if job.ID == uuid.Nil {
		t.Error("expected job ID to be set")
	}
	if job.Type != JobTypeRoadmapGeneration {
		t.Errorf("job type = %s, want %s", job.Type, JobTypeRoadmapGeneration)
	}
	if job.ProjectID != projectID {
		t.Errorf("project ID = %s, want %s", job.ProjectID, projectID)
	}
	if string(job.Payload) != string(payload) {
		t.Errorf("payload = %s, want %s", job.Payload, payload)
	}
	if job.RetryCount != 0 {
		t.Errorf("retry count = %d, want 0", job.RetryCount)
	}
	if job.MaxRetries != 3 {
		t.Errorf("max retries = %d, want 3", job.MaxRetries)
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name      string
		notBefore *time.Time
		notAfter  *time.Time
		want      bool
	}{
		{"no time constraints", nil, nil, true},
		{"not before in past", timePtr(now.Add(-time.Hour)), nil, true},
		{"not before in future", timePtr(now.Add(time.Hour)), nil, false},
		{"not after in past", nil, timePtr(now.Add(-time.Hour)), false},
		{"not after in future", nil, timePtr(now.Add(time.Hour)), true},
		{"within time window", timePtr(now.Add(-time.Hour)), timePtr(now.Add(time.Hour)), true},
		{"before time window", timePtr(now.Add(time.Hour)), timePtr(now.Add(2 * time.Hour)), false},
		{"after time window", timePtr(now.Add(-2 * time.Hour)), timePtr(now.Add(-time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := &Job{
				ID:        uuid.New(),
				Type:      JobTypeRoadmapGeneration,
				NotBefore: tt.notBefore,
				NotAfter:  tt.notAfter,
			}
			if got := job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		notAfter *time.Time
		want     bool
	}{
		{"no expiration", nil, false},
		{"expired", timePtr(now.Add(-time.Hour)), true},
		{"not expired", timePtr(now.Add(time.Hour)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := &Job{ID: uuid.New(), Type: JobTypeRoadmapGeneration, NotAfter: tt.notAfter}
			if got := job.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_CanRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{"no retries yet", 0, 3, true},
		{"one retry", 1, 3, true},
		{"max retries minus one", 2, 3, true},
		{"at max retries", 3, 3, false},
		{"exceeded max retries", 4, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			job := &Job{
				ID:         uuid.New(),
				Type:       JobTypeRoadmapGeneration,
				RetryCount: tt.retryCount,
				MaxRetries: tt.maxRetries,
			}
			if got := job.CanRetry(); got != tt.want {
				t.Errorf("CanRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IncrementRetry(t *testing.T) {
	t.Parallel()

	job := NewJob(JobTypeRoadmapGeneration, uuid.New(), nil)

	for i := 1; i <= 3; i++ {
		job.IncrementRetry()
		if job.RetryCount != i {
			t.Errorf("retry count = %d after %d increments", job.RetryCount, i)
		}
	}
}

func TestJob_PayloadRoundTrip(t *testing.T) {
	t.Parallel()

	type generationPayload struct {
		Name        string `json:"name"`
		TimeHorizon string `json:"time_horizon"`
	}

	payload, err := json.Marshal(generationPayload{Name: "Q3 roadmap", TimeHorizon: "quarter"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	job := NewJob(JobTypeRoadmapGeneration, uuid.New(), payload)

	wire, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	var decoded Job
	if err := json.Unmarshal(wire, &decoded); err != nil {
		t.Fatalf("unmarshal job: %v", err)
	}

	var got generationPayload
	if err := json.Unmarshal(decoded.Payload, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Name != "Q3 roadmap" || got.TimeHorizon != "quarter" {
		t.Errorf("payload = %+v after round trip", got)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
