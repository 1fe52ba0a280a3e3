package kernel

type AccountID string

func NewAccountID(id string) AccountID { return AccountID(id) }
func (a AccountID) String() string      { return string(a) }
func (a AccountID) IsEmpty() bool       { return string(a) == "" }

// Role is carried by back-office tokens. End users have no role.
type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "admin"
	RoleMarketing Role = "marketing"
	RolePartner   Role = "partner"
)

func (r Role) String() string { return string(r) }

// IsValid reports whether r is empty or one of the known back-office roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleMarketing, RolePartner:
		return true
	}
	return false
}

// ParseRole returns the role for s, or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
