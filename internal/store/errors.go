package store

import "errors"

var (
	// ErrUserNotFound is returned when no user has the requested id.
	ErrUserNotFound = errors.New("store: user not found")

	// ErrTodoNotFound is returned when no todo has the requested id.
	ErrTodoNotFound = errors.New("store: todo not found")

	// ErrEmailExists is returned when inserting a user whose email is taken.
	ErrEmailExists = errors.New("store: email already exists")

	// ErrUserExists is returned when inserting a user with an id already in use.
	ErrUserExists = errors.New("store: user id already exists")

	// ErrTodoExists is returned when inserting a todo with an id already in use.
	ErrTodoExists = errors.New("store: todo id already exists")

	// ErrOwnerNotFound is returned when a todo's owner does not resolve to a live user.
	ErrOwnerNotFound = errors.New("store: owner not found")
)
