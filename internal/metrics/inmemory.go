package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated       uint64
	UsersDeleted       uint64
	TodosCreated       uint64
	TodosUpdated       uint64
	TodosDeleted       uint64
	TodosCascaded      uint64
	ValidationFailures uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersCreated       atomic.Uint64
	usersDeleted       atomic.Uint64
	todosCreated       atomic.Uint64
	todosUpdated       atomic.Uint64
	todosDeleted       atomic.Uint64
	todosCascaded      atomic.Uint64
	validationFailures atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:       m.usersCreated.Load(),
		UsersDeleted:       m.usersDeleted.Load(),
		TodosCreated:       m.todosCreated.Load(),
		TodosUpdated:       m.todosUpdated.Load(),
		TodosDeleted:       m.todosDeleted.Load(),
		TodosCascaded:      m.todosCascaded.Load(),
		ValidationFailures: m.validationFailures.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncTodoCreated increments the todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() { m.todosCreated.Add(1) }

// IncTodoUpdated increments the todo updated counter.
func (m *InMemoryRecorder) IncTodoUpdated() { m.todosUpdated.Add(1) }

// IncTodoDeleted increments the todo deleted counter.
func (m *InMemoryRecorder) IncTodoDeleted() { m.todosDeleted.Add(1) }

// AddTodosCascaded adds n todos removed by a user deletion.
func (m *InMemoryRecorder) AddTodosCascaded(n int) {
	if n > 0 {
		m.todosCascaded.Add(uint64(n))
	}
}

// IncValidationFailed increments the rejected-input counter.
func (m *InMemoryRecorder) IncValidationFailed() { m.validationFailures.Add(1) }
