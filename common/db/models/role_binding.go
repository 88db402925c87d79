package models

import (
	"gorm.io/gorm"

	"github.com/wsa-2002/pd6-be-sub001/common/constants/role"
)

// RoleBinding grants AccountID the Role at one scope. There is at most one
// binding per (account, scope kind, scope id); class and team management
// flows own the writes, this service only reads.
type RoleBinding struct {
	gorm.Model
	AccountID uint           `json:"AccountID" gorm:"uniqueIndex:idx_role_binding_scope"`
	ScopeKind role.ScopeKind `json:"ScopeKind" gorm:"uniqueIndex:idx_role_binding_scope"`
	ScopeID   uint           `json:"ScopeID" gorm:"uniqueIndex:idx_role_binding_scope"`
	Role      role.Role      `json:"Role"`
}
