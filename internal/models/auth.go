package models

// User is the authenticated identity returned by the accounts endpoints.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
}

// Credentials is the accounts/login/ request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse is returned by login and is-authenticate. Token is set by token-auth backends;
// session-cookie backends leave it empty.
type SessionResponse struct {
	User          *User  `json:"user"`
	Token         string `json:"token,omitempty"`
	Authenticated *bool  `json:"is_authenticated,omitempty"`
}

// PermissionSet is the accounts/user/permission/ payload. The backend returns a flat object
// whose values are flags or lists of codenames.
type PermissionSet map[string]any

// Has reports whether name is granted, either as a true flag or as a member of a
// "permissions" list.
func (p PermissionSet) Has(name string) bool {
	if p == nil {
		return false
	}
	if v, ok := p[name].(bool); ok {
		return v
	}
	if list, ok := p["permissions"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok && s == name {
				return true
			}
		}
	}
	return false
}
