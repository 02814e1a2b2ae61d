package request

// CreateOriginRequest is the request body for booting a console origin.
// An empty origin asks the server to allocate one.
type CreateOriginRequest struct {
	Origin string `json:"origin,omitempty" validate:"omitempty,max=64"`
}

// UpdateProfileRequest is the request body for PATCH /profile
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=64"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,min=1"`
}

// UpdatePreferencesRequest is the request body for PATCH /profile/preferences.
// Volume accepts a number or a numeric string.
type UpdatePreferencesRequest struct {
	Theme    *string `json:"theme,omitempty" validate:"omitempty,oneof=dark light"`
	Volume   any     `json:"volume,omitempty"`
	Language *string `json:"language,omitempty" validate:"omitempty,oneof=ar en"`
}

// Empty reports whether no preference was supplied
func (r UpdatePreferencesRequest) Empty() bool {
	return r.Theme == nil && r.Volume == nil && r.Language == nil
}

// AddExperienceRequest is the request body for POST /profile/experience
type AddExperienceRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

// UnlockAchievementRequest is the request body for POST /profile/achievements
type UnlockAchievementRequest struct {
	Title       string `json:"title" validate:"required,max=64"`
	Description string `json:"description,omitempty" validate:"max=256"`
	Icon        string `json:"icon,omitempty" validate:"max=64"`
}

// SetInstalledRequest is the request body for PUT /library/{game_id}/installed
type SetInstalledRequest struct {
	Installed *bool `json:"installed" validate:"required"`
}

// StartSessionRequest is the request body for POST /sessions
type StartSessionRequest struct {
	GameID string `json:"game_id" validate:"required"`
}
