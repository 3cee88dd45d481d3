// Package authz decides whether an actor may perform an operation on an
// owned resource. Decisions are pure functions over the actor id and the
// stored owner id; the store lookup happens before any decision, so a
// missing resource surfaces as not-found rather than a denial.
package authz

import "taskboard/internal/apperrors"

// Operation classifies what the actor is trying to do.
type Operation int

const (
	OpRead Operation = iota
	OpUpdate
	OpDelete
)

// safe reports whether the operation is read-only.
func (op Operation) safe() bool {
	return op == OpRead
}

// Allowed returns nil when the actor may perform op on a resource owned
// by ownerID. Reads are open to any authenticated actor; mutations
// require ownership.
func Allowed(op Operation, actorID, ownerID uint) error {
	if actorID == 0 {
		return apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	if op.safe() {
		return nil
	}
	if actorID != ownerID {
		return apperrors.New(apperrors.CodeNotOwner, "only the owner may modify this resource")
	}
	return nil
}
