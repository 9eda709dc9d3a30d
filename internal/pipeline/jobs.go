package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// JobStatus represents the state of a reindex job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusFetching  JobStatus = "fetching"
	StatusIndexing  JobStatus = "indexing"
	StatusSwapping  JobStatus = "swapping"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
	StatusUnchanged JobStatus = "unchanged"
)

// Job tracks the state of a single catalog rebuild.
type Job struct {
	mu sync.Mutex

	ID          string `json:"job_id"`
	RequestedBy string `json:"requested_by"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalSections   int      `json:"total_sections"`
	SectionsFetched int      `json:"sections_fetched"`
	SectionsFailed  int      `json:"sections_failed"`
	Guides          int      `json:"guides"`
	Errors          []string `json:"errors"`
}

// NewJob returns a queued job with a fresh ULID.
func NewJob(requestedBy string) *Job {
	now := time.Now()
	return &Job{
		ID:          ulid.Make().String(),
		RequestedBy: requestedBy,
		Status:      StatusQueued,
		Phase:       "queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTotalSections records how many product sections will be fetched.
func (j *Job) SetTotalSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalSections = n
	j.UpdatedAt = time.Now()
}

// SectionDone counts one fetched or failed section.
func (j *Job) SectionDone(ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if ok {
		j.Progress.SectionsFetched++
	} else {
		j.Progress.SectionsFailed++
	}
	j.UpdatedAt = time.Now()
}

// SetGuides records how many validated design guides were indexed.
func (j *Job) SetGuides(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Guides = n
	j.UpdatedAt = time.Now()
}

// SetContentHash records the fingerprint of the fetched content.
func (j *Job) SetContentHash(h string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = h
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	RequestedBy string    `json:"requested_by"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	return JobSnapshot{
		ID:          j.ID,
		RequestedBy: j.RequestedBy,
		Status:      j.Status,
		Phase:       j.Phase,
		Progress: Progress{
			TotalSections:   j.Progress.TotalSections,
			SectionsFetched: j.Progress.SectionsFetched,
			SectionsFailed:  j.Progress.SectionsFailed,
			Guides:          j.Progress.Guides,
			Errors:          errs,
		},
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
