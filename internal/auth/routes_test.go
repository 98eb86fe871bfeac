package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/project-hub/internal/auth"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want auth.Access
	}{
		{"/api/auth/register", auth.AccessPublic},
		{"/api/auth/signup", auth.AccessPublic},
		{"/api/auth/login", auth.AccessPublic},
		{"/api/auth/signin", auth.AccessPublic},
		{"/api/comments/55", auth.AccessPublic},
		{"/api/admin/stats", auth.AccessAdmin},
		{"/api/admin", auth.AccessAdmin},
		{"/api/projects", auth.AccessAuthenticated},
		{"/api/projects/invite", auth.AccessAuthenticated},
		{"/api/projects/accept_invitation", auth.AccessAuthenticated},
		// unmatched paths stay permissive
		{"/reset-password", auth.AccessPublic},
		{"/health/live", auth.AccessPublic},
		{"/", auth.AccessPublic},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.Classify(auth.DefaultRouteRules, tc.path))
		})
	}
}

func TestClassifyMostSpecificWins(t *testing.T) {
	rules := []auth.RouteRule{
		{Pattern: "/api/*", Access: auth.AccessAuthenticated},
		{Pattern: "/api/reports/*", Access: auth.AccessAdmin},
		{Pattern: "/api/reports/public", Access: auth.AccessPublic},
	}

	assert.Equal(t, auth.AccessAuthenticated, auth.Classify(rules, "/api/anything"))
	assert.Equal(t, auth.AccessAdmin, auth.Classify(rules, "/api/reports/weekly"))
	assert.Equal(t, auth.AccessPublic, auth.Classify(rules, "/api/reports/public"))
}
