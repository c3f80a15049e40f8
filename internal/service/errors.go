package service

import "errors"

var (
	// ErrSelfDependency rejects edges whose source and target are the same deadline.
	ErrSelfDependency = errors.New("a deadline cannot depend on itself")

	// ErrDuplicateDependency rejects a second edge between the same ordered pair.
	ErrDuplicateDependency = errors.New("dependency already exists between these deadlines")

	// ErrCycle rejects an edge that would make the dependency graph cyclic.
	ErrCycle = errors.New("dependency would create a cycle")

	// ErrEmptyTitle rejects deadlines created without a title.
	ErrEmptyTitle = errors.New("deadline title is required")
)
