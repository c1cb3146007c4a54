package game

// Role は影響力カードの役職を表します。
type Role string

const (
	RoleDuke       Role = "Duke"
	RoleAssassin   Role = "Assassin"
	RoleAmbassador Role = "Ambassador"
	RoleCaptain    Role = "Captain"
	RoleContessa   Role = "Contessa"
)

// AllRoles は山札の構成に使う全役職です。各役職3枚ずつで15枚の山札になります。
var AllRoles = []Role{RoleDuke, RoleAssassin, RoleAmbassador, RoleCaptain, RoleContessa}

const copiesPerRole = 3

// IsValidRole は既知の役職名かどうかを返します。
func IsValidRole(r Role) bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
