// Package auth answers "does account X hold at least role R at scope S",
// with scopes nesting team < class < system.
package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
	"github.com/wsa-2002/pd6-be-sub001/common/db/models"
)

// ErrNoPermission is returned by request handlers when a Validate call
// comes back negative. It is never retried.
var ErrNoPermission = errors.New("no permission")

// ScopeHint names the scope a permission check targets. At most one field
// may be set; problem and challenge hints are resolved down to their class
// before the binding lookup.
type ScopeHint struct {
	TeamID      *uint
	ClassID     *uint
	ChallengeID *uint
	ProblemID   *uint
}

func TeamScope(teamID uint) ScopeHint { return ScopeHint{TeamID: &teamID} }

func ClassScope(classID uint) ScopeHint { return ScopeHint{ClassID: &classID} }

func ChallengeScope(id uint) ScopeHint { return ScopeHint{ChallengeID: &id} }

func ProblemScope(problemID uint) ScopeHint { return ScopeHint{ProblemID: &problemID} }

// SystemScope checks the global binding only.
func SystemScope() ScopeHint { return ScopeHint{} }

type Resolver struct {
	db     *gorm.DB
	scopes *ScopeResolver
}

func NewResolver(db *gorm.DB, scopes *ScopeResolver) *Resolver {
	return &Resolver{db: db, scopes: scopes}
}

// lookupRole reads the binding at one scope. A missing row is not an
// error, it simply means Guest.
func (r *Resolver) lookupRole(accountID uint, kind role.ScopeKind, scopeID uint) (role.Role, error) {
	binding := new(models.RoleBinding)
	err := r.db.
		Where("account_id = ? AND scope_kind = ? AND scope_id = ?", accountID, kind, scopeID).
		First(binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return role.Guest, nil
		}
		return role.Guest, err
	}
	return binding.Role, nil
}

// normalize reduces a hint to its team and/or class scope ids.
func (r *Resolver) normalize(hint ScopeHint) (teamID *uint, classID *uint, err error) {
	switch {
	case hint.TeamID != nil:
		return hint.TeamID, nil, nil
	case hint.ClassID != nil:
		if err := r.scopes.CheckClass(*hint.ClassID); err != nil {
			return nil, nil, err
		}
		return nil, hint.ClassID, nil
	case hint.ChallengeID != nil:
		class, err := r.scopes.ResolveClassFromChallenge(*hint.ChallengeID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &class, nil
	case hint.ProblemID != nil:
		class, err := r.scopes.ResolveClassFromProblem(*hint.ProblemID)
		if err != nil {
			return nil, nil, err
		}
		return nil, &class, nil
	default:
		return nil, nil, nil
	}
}

// Resolve returns the highest role accountID holds that applies to the
// hinted scope, for display purposes ("what is my role in this class").
func (r *Resolver) Resolve(accountID uint, hint ScopeHint) (role.Role, error) {
	teamID, classID, err := r.normalize(hint)
	if err != nil {
		return role.Guest, err
	}

	highest, err := r.lookupRole(accountID, role.ScopeSystem, role.SystemScopeID)
	if err != nil {
		return role.Guest, err
	}

	if teamID != nil {
		class, err := r.scopes.ResolveClassFromTeam(*teamID)
		if err != nil {
			return role.Guest, err
		}
		classID = &class

		teamRole, err := r.lookupRole(accountID, role.ScopeTeam, *teamID)
		if err != nil {
			return role.Guest, err
		}
		highest = role.Max(highest, teamRole)
	}

	if classID != nil {
		classRole, err := r.lookupRole(accountID, role.ScopeClass, *classID)
		if err != nil {
			return role.Guest, err
		}
		highest = role.Max(highest, classRole)
	}

	return highest, nil
}

// Validate reports whether accountID holds at least minRole at the hinted
// scope. With inherit set, an insufficient binding at a narrow scope falls
// through to the parent scope: team -> owning class -> system.
func (r *Resolver) Validate(accountID uint, minRole role.Role, hint ScopeHint, inherit bool) (bool, error) {
	teamID, classID, err := r.normalize(hint)
	if err != nil {
		return false, err
	}

	if teamID != nil {
		// The class is resolved before the binding lookup so that an
		// invalid team id always surfaces as NotFound.
		class, err := r.scopes.ResolveClassFromTeam(*teamID)
		if err != nil {
			return false, err
		}

		teamRole, err := r.lookupRole(accountID, role.ScopeTeam, *teamID)
		if err != nil {
			return false, err
		}
		if teamRole.AtLeast(minRole) {
			return true, nil
		}
		if !inherit {
			return false, nil
		}
		classID = &class
	}

	if classID != nil {
		classRole, err := r.lookupRole(accountID, role.ScopeClass, *classID)
		if err != nil {
			return false, err
		}
		if classRole.AtLeast(minRole) {
			return true, nil
		}
		if !inherit {
			return false, nil
		}
	}

	systemRole, err := r.lookupRole(accountID, role.ScopeSystem, role.SystemScopeID)
	if err != nil {
		return false, err
	}
	return systemRole.AtLeast(minRole), nil
}

// Require is Validate with the negative mapped to ErrNoPermission, for
// request handlers that want a single error path.
func (r *Resolver) Require(accountID uint, minRole role.Role, hint ScopeHint, inherit bool) error {
	ok, err := r.Validate(accountID, minRole, hint, inherit)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: account %d needs %s", ErrNoPermission, accountID, minRole)
	}
	return nil
}
