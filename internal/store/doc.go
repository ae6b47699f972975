// Package store provides the process-local record store for users and todos.
//
// A single [Store] owns both collections. All access goes through its
// methods so the cross-collection invariants hold in one place:
//
//   - user emails are unique (case-sensitive exact match)
//   - a todo can only be inserted for a live owner
//   - deleting a user removes every todo it owns in the same critical section
//
// Both collections preserve insertion order for listing. Values are copied
// in and out; callers never share memory with stored records.
//
// # Errors
//
//   - [ErrUserNotFound], [ErrTodoNotFound] - id does not resolve
//   - [ErrEmailExists] - another user already has the email
//   - [ErrUserExists], [ErrTodoExists] - caller-supplied id is taken
//   - [ErrOwnerNotFound] - todo owner is not a live user
package store
