// Package policy decides who may act on a project. Decisions are pure
// functions over membership state that callers have already loaded; the
// package never touches persistence.
package policy

// Action is something a user can attempt against a project or its tasks.
type Action int

const (
	ActionViewProject Action = iota
	ActionUpdateProject
	ActionDeleteProject
	ActionManageMembers
	ActionViewTasks
	ActionCreateTask
	ActionUpdateTask
	ActionDeleteTask
)

// Membership is the loaded owner/member state of one project.
type Membership struct {
	ProjectID uint64
	OwnerID   uint64
	MemberIDs []uint64
}

// IsOwner reports whether userID owns the project.
func (m Membership) IsOwner(userID uint64) bool {
	return m.OwnerID == userID
}

// IsMember reports whether userID may view the project. Ownership always
// implies membership, even when the owner's row is missing from the
// explicit membership set.
func (m Membership) IsMember(userID uint64) bool {
	if m.IsOwner(userID) {
		return true
	}
	for _, id := range m.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Allowed reports whether userID may perform action on the project.
// Callers must confirm the project exists before asking, so a denial is
// never mistaken for a missing resource.
func Allowed(m Membership, userID uint64, action Action) bool {
	switch action {
	case ActionUpdateProject, ActionDeleteProject, ActionManageMembers, ActionDeleteTask:
		return m.IsOwner(userID)
	case ActionViewProject, ActionViewTasks, ActionCreateTask, ActionUpdateTask:
		return m.IsMember(userID)
	default:
		return false
	}
}
