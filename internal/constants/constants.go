package constants

// Gin context keys
const (
	ContextKeyUserID     = "user_id"
	ContextKeyMembership = "project_membership"
	ContextKeyTask       = "task"
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
