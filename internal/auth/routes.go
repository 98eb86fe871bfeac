package auth

import "strings"

// Access classifies how much credential a route requires.
type Access int

const (
	// AccessPublic routes require no credential.
	AccessPublic Access = iota
	// AccessAuthenticated routes require any valid, non-expired token.
	AccessAuthenticated
	// AccessAdmin routes additionally require the ADMIN role.
	AccessAdmin
)

// RouteRule maps a path pattern to an access level. A trailing "/*" matches
// any suffix; everything else matches exactly.
type RouteRule struct {
	Pattern string
	Access  Access
}

// DefaultRouteRules is the static route classification table. The most
// specific (longest) matching pattern wins; unmatched paths stay public.
var DefaultRouteRules = []RouteRule{
	{Pattern: "/api/admin/*", Access: AccessAdmin},
	{Pattern: "/api/auth/register", Access: AccessPublic},
	{Pattern: "/api/auth/signup", Access: AccessPublic},
	{Pattern: "/api/auth/login", Access: AccessPublic},
	{Pattern: "/api/auth/signin", Access: AccessPublic},
	{Pattern: "/api/comments/*", Access: AccessPublic},
	{Pattern: "/api/*", Access: AccessAuthenticated},
}

// Classify resolves the access level for a request path.
func Classify(rules []RouteRule, path string) Access {
	best := -1
	access := AccessPublic
	for _, rule := range rules {
		if !matchPattern(rule.Pattern, path) {
			continue
		}
		if len(rule.Pattern) > best {
			best = len(rule.Pattern)
			access = rule.Access
		}
	}
	return access
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
