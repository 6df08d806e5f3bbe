package member

type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) rank() int {
	switch r {
	case RoleStaff:
		return 1
	case RoleAdmin:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && r.rank() >= min.rank()
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

type Tier string

const (
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierBasic, TierPremium:
		return true
	default:
		return false
	}
}

func NewTier(s string) (Tier, error) {
	if s == "" {
		return TierBasic, nil
	}
	tier := Tier(s)
	if !tier.IsValid() {
		return "", ErrInvalidTier
	}
	return tier, nil
}
