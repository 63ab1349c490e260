package users

type ContextKey string

const ActorKey ContextKey = "actor"

type Role string

const (
	RoleMember  Role = "member"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleTrainer, RoleAdmin:
		return true
	}
	return false
}

// IsPrivileged is true for roles allowed to manage tournaments.
func (r Role) IsPrivileged() bool {
	return r == RoleTrainer || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Actor is the caller of an operation as reported by the identity provider. It is passed into
// every service call explicitly.
type Actor struct {
	UserID string
	Name   string
	Role   Role
}

func Member(userID string) Actor {
	return Actor{UserID: userID, Role: RoleMember}
}

func Trainer(userID string) Actor {
	return Actor{UserID: userID, Role: RoleTrainer}
}

func Admin(userID string) Actor {
	return Actor{UserID: userID, Role: RoleAdmin}
}
