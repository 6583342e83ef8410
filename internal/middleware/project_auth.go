package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/projcollab/project-collab-api/internal/constants"
	apierrors "github.com/projcollab/project-collab-api/internal/errors"
	"github.com/projcollab/project-collab-api/internal/policy"
	"github.com/projcollab/project-collab-api/internal/services"
)

// RequireProjectMember loads the membership state of the project in the :id
// parameter and rejects callers who are neither owner nor member. Existence
// is checked first, so a missing project is a 404 and a denial is a 403.
func RequireProjectMember(projects *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		membership, err := projects.Membership(projectID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if !policy.Allowed(membership, userID, policy.ActionViewProject) {
			apierrors.Forbidden(c, "You are not a member of this project")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyMembership, membership)
		c.Next()
	}
}

// RequireProjectOwner restricts a route to the project owner. It reads the
// membership stored by RequireProjectMember or RequireTaskAccess.
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		membership, ok := GetMembership(c)
		if !ok {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !membership.IsOwner(userID) {
			apierrors.Forbidden(c, "Only the project owner can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetMembership retrieves the loaded project membership from context
func GetMembership(c *gin.Context) (policy.Membership, bool) {
	value, exists := c.Get(constants.ContextKeyMembership)
	if !exists {
		return policy.Membership{}, false
	}

	membership, ok := value.(policy.Membership)
	return membership, ok
}
