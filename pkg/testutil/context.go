package testutil

import (
	"net/http"

	id "moodlog/pkg/domain"
	"moodlog/pkg/requestcontext"
)

// AsSupervisor attaches a supervisor identity to the request context,
// mirroring what the auth middleware does for a verified token.
func AsSupervisor(req *http.Request, supervisorID id.SupervisorID) *http.Request {
	return WithIdentity(req, id.UserID(supervisorID), id.RoleSupervisor)
}

// AsSubject attaches a subject identity to the request context.
func AsSubject(req *http.Request, subjectID id.SubjectID) *http.Request {
	return WithIdentity(req, id.UserID(subjectID), id.RoleSubject)
}

// WithIdentity sets an arbitrary user and role.
func WithIdentity(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithIdentity(req.Context(), userID, role))
}
