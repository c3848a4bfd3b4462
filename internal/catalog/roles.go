package catalog

// Role classifies a person's relationship to a title within the title_roles
// junction.
type Role string

const (
	RoleActor    Role = "actor"
	RoleDirector Role = "director"
	RoleWriter   Role = "writer"
	RoleCreator  Role = "creator"
)

// writingCreditRoles maps a title type to the role tag carried by its
// writing credit. Types not listed here use RoleCreator.
var writingCreditRoles = map[string]Role{
	"movie":  RoleWriter,
	"series": RoleCreator,
}

func writingRoleFor(typeName string) Role {
	if role, ok := writingCreditRoles[typeName]; ok {
		return role
	}
	return RoleCreator
}
