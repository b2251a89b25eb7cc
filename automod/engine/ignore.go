package engine

import (
	"slices"

	"github.com/wardenlabs/warden/automod/configstore"
)

// IsIgnored decides whether a filter skips a message: first because of the
// channel it was sent in, then because of any role the author carries. Pure
// function, no failure modes.
func IsIgnored(channelID string, authorRoleIDs []string, fc *configstore.FilterConfig) bool {
	if slices.Contains(fc.IgnoredChannels, channelID) {
		return true
	}
	for _, role := range authorRoleIDs {
		if slices.Contains(fc.IgnoredRoles, role) {
			return true
		}
	}
	return false
}
