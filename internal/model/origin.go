package model

import "regexp"

// Origin identifies an isolated storage namespace, the equivalent of a
// browser storage origin. Each origin holds exactly one UserProfile.
type Origin string

// SystemOrigin is reserved for data owned by the process rather than a user
// (e.g. the cached catalog). User origins cannot start with an underscore.
const SystemOrigin Origin = "_system"

var originPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Validate checks the origin is usable as a user namespace
func (o Origin) Validate() error {
	if !originPattern.MatchString(string(o)) {
		return ErrInvalidOrigin
	}
	return nil
}
