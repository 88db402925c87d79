package role

// Role is an ordered permission level. A missing role binding is treated as
// Guest, the lowest level.
type Role string

const (
	Guest   Role = "guest"
	Normal  Role = "normal"
	Manager Role = "manager"
)

// ordinals is the explicit ordering table for roles. Comparisons go through
// this table instead of relying on declaration order.
var ordinals = map[Role]int{
	Guest:   0,
	Normal:  1,
	Manager: 2,
}

// Ordinal returns the role's position in the ordering.
// Unknown roles map to the Guest ordinal.
func (r Role) Ordinal() int {
	return ordinals[r]
}

// AtLeast reports whether r grants at least the permissions of other.
func (r Role) AtLeast(other Role) bool {
	return r.Ordinal() >= other.Ordinal()
}

// Max returns the higher of two roles.
func Max(a, b Role) Role {
	if a.Ordinal() >= b.Ordinal() {
		return a
	}
	return b
}

// ScopeKind is the level at which a role binding applies.
type ScopeKind string

const (
	ScopeSystem ScopeKind = "system"
	ScopeClass  ScopeKind = "class"
	ScopeTeam   ScopeKind = "team"
)

// SystemScopeID is the scope id used for system level bindings.
const SystemScopeID uint = 0
