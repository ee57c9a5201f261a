package graph

import "sync"

// Recorder accumulates nodes and edges observed while it is active. An inactive
// recorder ignores everything it is given.
type Recorder[N comparable] struct {
	mu      sync.Mutex
	active  bool
	started bool
	graph   *Graph[N]
}

func NewRecorder[N comparable]() *Recorder[N] {
	return &Recorder[N]{graph: New[N]()}
}

// Start discards anything recorded so far and begins recording.
func (r *Recorder[N]) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.graph = New[N]()
	r.active = true
	r.started = true
}

// Stop ends recording and returns what was captured. ok is false when recording
// was never started.
func (r *Recorder[N]) Stop() (Snapshot[N], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active = false
	if !r.started {
		return Snapshot[N]{}, false
	}
	return r.graph.Snapshot(), true
}

func (r *Recorder[N]) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Snapshot returns the current recording without stopping it.
func (r *Recorder[N]) Snapshot() (Snapshot[N], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return Snapshot[N]{}, false
	}
	return r.graph.Snapshot(), true
}

func (r *Recorder[N]) RecordNode(id N) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		r.graph.AddNode(id)
	}
}

func (r *Recorder[N]) RecordEdge(from, to N) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		r.graph.AddEdge(from, to)
	}
}
