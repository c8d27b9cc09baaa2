// Package task tracks background operations started over the API so a
// client can poll their progress by id.
package task

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

type Task struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	State      State      `json:"state"`
	Detail     string     `json:"detail,omitempty"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	order []string // creation order, oldest first
}

func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Create registers a new running task and returns its id.
func (r *Registry) Create(kind string) string {
	t := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	r.mu.Unlock()
	return t.ID
}

// CreateIfIdle registers a new running task of the given kind unless one
// is already running. The check and the insert happen under one lock so
// concurrent callers cannot both start a task of the same kind.
func (r *Registry) CreateIfIdle(kind string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if t := r.tasks[id]; t.Kind == kind && t.State == StateRunning {
			return "", false
		}
	}
	t := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
	r.tasks[t.ID] = t
	r.order = append(r.order, t.ID)
	return t.ID, true
}

// Update replaces the human-readable progress detail.
func (r *Registry) Update(id, detail string) {
	r.mu.Lock()
	if t, ok := r.tasks[id]; ok && t.State == StateRunning {
		t.Detail = detail
	}
	r.mu.Unlock()
}

func (r *Registry) Complete(id string, result any) {
	r.finish(id, StateDone, result, "")
}

func (r *Registry) Fail(id string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.finish(id, StateFailed, nil, msg)
}

func (r *Registry) finish(id string, state State, result any, errMsg string) {
	now := time.Now().UTC()
	r.mu.Lock()
	if t, ok := r.tasks[id]; ok {
		t.State = state
		t.Result = result
		t.Error = errMsg
		t.FinishedAt = &now
	}
	r.mu.Unlock()
}

// Get returns a copy; mutating it does not touch the registry.
func (r *Registry) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Latest returns the most recently created task of the given kind.
func (r *Registry) Latest(kind string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if t := r.tasks[r.order[i]]; t.Kind == kind {
			return *t, true
		}
	}
	return Task{}, false
}

// Active reports whether a task of the given kind is still running.
func (r *Registry) Active(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if t := r.tasks[id]; t.Kind == kind && t.State == StateRunning {
			return true
		}
	}
	return false
}

// List returns all tasks, newest first.
func (r *Registry) List() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Task, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, *r.tasks[r.order[i]])
	}
	return out
}
