package models

type UserRole string

const (
	CollaboratorRole UserRole = "COLLABORATORE"
	ReviewerRole     UserRole = "RESPONSABILE"
	AdminRole        UserRole = "AMMINISTRAZIONE"
)

var AllRoles = []UserRole{CollaboratorRole, ReviewerRole, AdminRole}

var roleHumanName = map[UserRole]string{
	CollaboratorRole: "Collaboratore",
	ReviewerRole:     "Responsabile compensi",
	AdminRole:        "Amministrazione",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

func (r UserRole) IsReviewer() bool {
	return r == ReviewerRole
}

func KnownRole(value string) (UserRole, bool) {
	role := UserRole(value)
	_, exist := roleHumanName[role]
	return role, exist
}

const SystemUser = "Sistema"

// Actor is the authenticated principal applying an operation.
// Communities is the reviewer assignment set taken from the token claims,
// the engine never stores it.
type Actor struct {
	UserID      string
	UserName    string
	Role        UserRole
	Communities []string
}

func (a Actor) InCommunity(community string) bool {
	if community == "" {
		return false
	}
	for _, c := range a.Communities {
		if c == community {
			return true
		}
	}
	return false
}
