package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hireloop/interview-engine/internal/ports"
)

var (
	_ ports.JobDirectory = (*StaticJobDirectory)(nil)
	_ ports.JobDirectory = (*FileJobDirectory)(nil)
)

// ErrJobNotFound indicates that no job exists for the requested id.
var ErrJobNotFound = fmt.Errorf("job not found")

// StaticJobDirectory serves job contexts from a fixed map. Useful for
// tests and embedders that already hold job data.
type StaticJobDirectory struct {
	jobs map[string]ports.JobContext
}

// NewStaticJobDirectory creates a directory over the given jobs.
func NewStaticJobDirectory(jobs map[string]ports.JobContext) *StaticJobDirectory {
	copied := make(map[string]ports.JobContext, len(jobs))
	for id, job := range jobs {
		copied[id] = job
	}
	return &StaticJobDirectory{jobs: copied}
}

// GetJob returns the job context for the given id.
func (d *StaticJobDirectory) GetJob(ctx context.Context, jobID string) (ports.JobContext, error) {
	job, ok := d.jobs[jobID]
	if !ok {
		return ports.JobContext{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job, nil
}

// jobRecord is the on-disk job shape.
type jobRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
}

// jobsFile is the top-level structure of a jobs JSON file.
type jobsFile struct {
	Jobs []jobRecord `json:"jobs"`
}

// FileJobDirectory serves job contexts from a JSON file of the form
//
//	{"jobs": [{"id": ..., "title": ..., "description": ..., "requirements": [...]}]}
//
// The file is loaded once on first access and cached.
type FileJobDirectory struct {
	path string

	once sync.Once
	jobs map[string]ports.JobContext
	err  error
}

// NewFileJobDirectory creates a directory reading from the given path.
func NewFileJobDirectory(path string) *FileJobDirectory {
	return &FileJobDirectory{path: path}
}

// GetJob returns the job context for the given id, loading the file on
// first use.
func (d *FileJobDirectory) GetJob(ctx context.Context, jobID string) (ports.JobContext, error) {
	d.once.Do(d.load)
	if d.err != nil {
		return ports.JobContext{}, d.err
	}

	job, ok := d.jobs[jobID]
	if !ok {
		return ports.JobContext{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	return job, nil
}

func (d *FileJobDirectory) load() {
	data, err := os.ReadFile(d.path)
	if err != nil {
		d.err = fmt.Errorf("read jobs file %s: %w", d.path, err)
		return
	}

	var file jobsFile
	if err := json.Unmarshal(data, &file); err != nil {
		d.err = fmt.Errorf("parse jobs file %s: %w", d.path, err)
		return
	}

	d.jobs = make(map[string]ports.JobContext, len(file.Jobs))
	for _, job := range file.Jobs {
		d.jobs[job.ID] = ports.JobContext{
			Title:        job.Title,
			Description:  job.Description,
			Requirements: job.Requirements,
		}
	}
}
