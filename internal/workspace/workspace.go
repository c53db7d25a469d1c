// Package workspace owns the client-side task state: the cached task list,
// the at-most-one edit draft, the sort direction, and the shared
// loading/error status that every operation reports through.
package workspace

import (
	"context"
	"sort"
	"strings"
	"sync"

	"taskdeck/internal/service"
	"taskdeck/internal/session"
)

// User-visible failure messages, one per operation class.
const (
	MsgFetchFailed  = "Failed to fetch todos"
	MsgAddFailed    = "Failed to add todo"
	MsgDeleteFailed = "Failed to delete todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgStatusFailed = "Failed to update todo status"
)

// Draft is the transient in-progress edit of a single task.
// At most one draft exists at a time.
type Draft struct {
	TargetID    string
	Title       string
	Description string
}

// Workspace orchestrates task operations against the backend and reconciles
// the local cache with server responses. The cache is only mutated after the
// server confirms; there is no optimistic update to roll back.
//
// Mutating operations are serialized: opMu is held across the network call,
// so only one operation is ever in flight.
type Workspace struct {
	svc  service.Service
	sess *session.Manager

	opMu sync.Mutex // serializes operations end to end

	mu        sync.RWMutex // guards the fields below
	tasks     []service.Task
	draft     *Draft
	ascending bool
	loading   bool
	errMsg    string
}

// New creates a workspace over the given backend and session.
func New(svc service.Service, sess *session.Manager) *Workspace {
	return &Workspace{svc: svc, sess: sess}
}

// Session returns the session manager owned by this workspace.
func (w *Workspace) Session() *session.Manager {
	return w.sess
}

// Restore resumes a persisted session and, when it succeeds, loads the task
// list. Restoration failures are silent: the state simply stays
// unauthenticated.
func (w *Workspace) Restore(ctx context.Context) session.State {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	state := w.sess.Restore(ctx)
	if state != session.Authenticated {
		return state
	}

	w.begin()
	defer w.end()
	_ = w.load(ctx)
	return state
}

// Login authenticates and, on success, loads the task list. On failure the
// error's message is surfaced through Err.
func (w *Workspace) Login(ctx context.Context, username, password string) error {
	return w.signIn(ctx, func() error {
		return w.sess.Login(ctx, username, password)
	})
}

// Register creates an account and establishes a session like Login.
func (w *Workspace) Register(ctx context.Context, name, username, password string) error {
	return w.signIn(ctx, func() error {
		return w.sess.Register(ctx, name, username, password)
	})
}

func (w *Workspace) signIn(ctx context.Context, auth func() error) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.begin()
	defer w.end()

	if err := auth(); err != nil {
		w.fail(err.Error())
		return err
	}
	return w.load(ctx)
}

// Logout tears down the session and drops all local task state.
// Local only: no network call.
func (w *Workspace) Logout() {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.sess.Logout()
	w.mu.Lock()
	w.tasks = nil
	w.draft = nil
	w.errMsg = ""
	w.mu.Unlock()
}

// Load fetches the full task collection and replaces the cache verbatim.
func (w *Workspace) Load(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.begin()
	defer w.end()
	return w.load(ctx)
}

func (w *Workspace) load(ctx context.Context) error {
	tasks, err := w.svc.ListTasks(ctx)
	if err != nil {
		w.fail(MsgFetchFailed)
		return err
	}
	w.mu.Lock()
	w.tasks = tasks
	w.mu.Unlock()
	return nil
}

// Add creates a task and appends the server's record to the cache.
// A title that trims to empty is a no-op: no network call is made.
func (w *Workspace) Add(ctx context.Context, title, description string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.begin()
	defer w.end()

	created, err := w.svc.CreateTask(ctx, title, description)
	if err != nil {
		w.fail(MsgAddFailed)
		return err
	}

	w.mu.Lock()
	w.tasks = append(w.tasks, created)
	w.mu.Unlock()
	return nil
}

// Delete removes a task by id after the server confirms. A stale id that is
// no longer in the cache makes the local removal a no-op.
func (w *Workspace) Delete(ctx context.Context, id string) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()
	w.begin()
	defer w.end()

	if err := w.svc.DeleteTask(ctx, id); err != nil {
		w.fail(MsgDeleteFailed)
		return err
	}

	w.mu.Lock()
	kept := w.tasks[:0]
	for _, t := range w.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	w.tasks = kept
	w.mu.Unlock()
	return nil
}

// Toggle inverts a task's completed flag by sending the full record and
// replacing the cached entry with the server's response. An id missing from
// the cache (stale view) is a silent no-op.
func (w *Workspace) Toggle(ctx context.Context, id string) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	task, ok := w.find(id)
	if !ok {
		return nil
	}

	w.begin()
	defer w.end()

	inverted := !task.Completed
	updated, err := w.svc.UpdateTask(ctx, id, service.TaskUpdate{
		Title:       task.Title,
		Description: task.Description,
		Completed:   &inverted,
	})
	if err != nil {
		w.fail(MsgStatusFailed)
		return err
	}

	w.replace(id, updated)
	return nil
}

// BeginEdit opens a draft seeded from the cached task with the given id.
// Opening a new draft silently discards any unsaved previous one.
// Returns false if the id is not in the cache. No network call.
func (w *Workspace) BeginEdit(id string) bool {
	task, ok := w.find(id)
	if !ok {
		return false
	}
	w.mu.Lock()
	w.draft = &Draft{
		TargetID:    task.ID,
		Title:       task.Title,
		Description: task.Description,
	}
	w.mu.Unlock()
	return true
}

// UpdateDraft replaces the open draft's editable fields.
// No-op when no draft is open.
func (w *Workspace) UpdateDraft(title, description string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return
	}
	w.draft.Title = title
	w.draft.Description = description
}

// SaveEdit sends the draft's fields as a replacement of the target task's
// editable fields, swaps in the server's record, and closes the draft.
// No draft, or a draft title that trims to empty, is a no-op.
func (w *Workspace) SaveEdit(ctx context.Context) error {
	w.opMu.Lock()
	defer w.opMu.Unlock()

	w.mu.RLock()
	draft := w.draft
	w.mu.RUnlock()
	if draft == nil || strings.TrimSpace(draft.Title) == "" {
		return nil
	}

	w.begin()
	defer w.end()

	updated, err := w.svc.UpdateTask(ctx, draft.TargetID, service.TaskUpdate{
		Title:       draft.Title,
		Description: draft.Description,
	})
	if err != nil {
		w.fail(MsgUpdateFailed)
		return err
	}

	w.replace(draft.TargetID, updated)
	w.mu.Lock()
	w.draft = nil
	w.mu.Unlock()
	return nil
}

// CancelEdit discards the open draft. No network call.
func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	w.draft = nil
	w.mu.Unlock()
}

// SortByDate toggles the sort direction and reorders the cache by creation
// time. Purely local; server-side order is untouched. Tasks with unparsable
// timestamps carry the zero time, so they order as the earliest.
func (w *Workspace) SortByDate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ascending = !w.ascending
	asc := w.ascending
	sort.SliceStable(w.tasks, func(i, j int) bool {
		ti, tj := w.tasks[i].CreationTime(), w.tasks[j].CreationTime()
		if asc {
			return ti.Before(tj)
		}
		return tj.Before(ti)
	})
}

// Ascending reports the current sort direction.
func (w *Workspace) Ascending() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ascending
}

// Tasks returns a copy of the cached task list in display order.
func (w *Workspace) Tasks() []service.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]service.Task, len(w.tasks))
	copy(out, w.tasks)
	return out
}

// TaskAt returns the task at a 1-based display position.
func (w *Workspace) TaskAt(n int) (service.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if n < 1 || n > len(w.tasks) {
		return service.Task{}, false
	}
	return w.tasks[n-1], true
}

// Draft returns the open draft, if any.
func (w *Workspace) Draft() (Draft, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.draft == nil {
		return Draft{}, false
	}
	return *w.draft, true
}

// Loading reports whether an operation is in flight.
func (w *Workspace) Loading() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loading
}

// Err returns the current user-visible error message, empty when the last
// operation succeeded. Cleared at the start of every operation so a stale
// message never outlives a later success.
func (w *Workspace) Err() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.errMsg
}

// ClearErr drops the visible error message, e.g. when the UI switches
// between login and register modes.
func (w *Workspace) ClearErr() {
	w.mu.Lock()
	w.errMsg = ""
	w.mu.Unlock()
}

func (w *Workspace) begin() {
	w.mu.Lock()
	w.errMsg = ""
	w.loading = true
	w.mu.Unlock()
}

func (w *Workspace) end() {
	w.mu.Lock()
	w.loading = false
	w.mu.Unlock()
}

func (w *Workspace) fail(msg string) {
	w.mu.Lock()
	w.errMsg = msg
	w.mu.Unlock()
}

func (w *Workspace) find(id string) (service.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, t := range w.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func (w *Workspace) replace(id string, updated service.Task) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, t := range w.tasks {
		if t.ID == id {
			w.tasks[i] = updated
			return
		}
	}
}
