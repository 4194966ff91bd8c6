package mboardweb

import "github.com/goliatone/go-router"

var TemplateUserKey = "current_user"

// TemplateHelpers returns helper functions for the view engine's global
// data.
//
// In templates:
//
//	{% if current_user %}
//	{% if is_admin(current_user) %}
//	{% if has_role(current_user, "admin") %}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"has_role":         hasRole,
		"is_admin":         isAdmin,

		"roles": map[string]string{
			"user":  string(RoleUser),
			"admin": string(RoleAdmin),
		},
	}
}

// MergeTemplateData layers the session's claims and helper data under a
// handler's view context so every page can render the header state.
func MergeTemplateData(ctx router.Context, data router.ViewContext) router.ViewContext {
	merged := router.ViewContext{}
	for key, value := range TemplateHelpers() {
		merged[key] = value
	}

	if claims, ok := GetRouterClaims(ctx); ok {
		merged[TemplateUserKey] = claims
		merged["is_logged_in"] = true
		merged["current_username"] = claims.DisplayName()
		merged["current_user_is_admin"] = claims.IsAdmin()
	} else {
		merged["is_logged_in"] = false
	}

	for key, value := range data {
		merged[key] = value
	}

	return merged
}

// isAuthenticated checks if the provided user object is not nil
func isAuthenticated(user any) bool {
	switch u := user.(type) {
	case *UnverifiedClaims:
		return u != nil
	case UnverifiedClaims:
		return true
	case map[string]any:
		return len(u) > 0
	default:
		return false
	}
}

// hasRole checks if the user has the specified role
func hasRole(user any, role string) bool {
	targetRole := UserRole(role)

	switch u := user.(type) {
	case *UnverifiedClaims:
		if u == nil {
			return false
		}
		return u.UserRole == targetRole
	case UnverifiedClaims:
		return u.UserRole == targetRole
	case map[string]any:
		if userRole, exists := u["role"]; exists {
			if roleStr, ok := userRole.(string); ok {
				return UserRole(roleStr) == targetRole
			}
		}
		return false
	default:
		return false
	}
}

// isAdmin checks if the user carries the admin role
func isAdmin(user any) bool {
	return hasRole(user, string(RoleAdmin))
}
