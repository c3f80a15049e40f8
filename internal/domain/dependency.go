package domain

import "time"

// DeadlineDependency is a directed edge in the scheduling graph: the target
// deadline depends on the source deadline. The set of all edges must remain
// acyclic; endpoints are immutable after creation.
type DeadlineDependency struct {
	ID               string
	SourceDeadlineID string
	TargetDeadlineID string
	DependencyType   DependencyType

	// LagDays is a signed day offset applied to the relationship; negative
	// values let the successor lead its predecessor.
	LagDays   int
	CreatedBy *string
	CreatedAt time.Time
}

// DependencyPatch carries a partial edge update. Only the type and lag may
// change in place; retargeting an edge requires delete + recreate.
type DependencyPatch struct {
	DependencyType *DependencyType
	LagDays        *int
}

// IsEmpty reports whether no field is supplied.
func (p DependencyPatch) IsEmpty() bool {
	return p.DependencyType == nil && p.LagDays == nil
}

// DeadlineWithDependencies is the read view consumed by timeline rendering:
// a deadline joined with its outgoing edges (what it depends on) and its
// incoming edges (what depends on it).
type DeadlineWithDependencies struct {
	Deadline     *Deadline
	Dependencies []DeadlineDependency
	Dependents   []DeadlineDependency
}

// DependenciesCount returns the number of outgoing edges.
func (v *DeadlineWithDependencies) DependenciesCount() int {
	return len(v.Dependencies)
}

// DependentsCount returns the number of incoming edges.
func (v *DeadlineWithDependencies) DependentsCount() int {
	return len(v.Dependents)
}
