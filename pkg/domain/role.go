package domain

// Role is the identity collaborator's classification of a caller.
type Role string

const (
	RoleSupervisor Role = "supervisor"
	RoleSubject    Role = "subject"
)

func (r Role) IsValid() bool {
	return r == RoleSupervisor || r == RoleSubject
}
