package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Profile events
	EventProfileLoaded      EventType = "profile_loaded"
	EventProfileSaved       EventType = "profile_saved"
	EventProfileReset       EventType = "profile_reset"
	EventLibraryAdded       EventType = "library_added"
	EventLibraryRemoved     EventType = "library_removed"
	EventPreferenceChanged  EventType = "preference_changed"
	EventPlaySessionEnded   EventType = "play_session_ended"
	EventAvatarChanged      EventType = "avatar_changed"
	EventUsernameChanged    EventType = "username_changed"
	EventExperienceGained   EventType = "experience_gained"
	EventLevelUp            EventType = "level_up"
	EventAchievementUnlock  EventType = "achievement_unlocked"
	EventGameFlagsChanged   EventType = "game_flags_changed"
	EventPlaySessionStarted EventType = "play_session_started"
)

// ProfileEvent is emitted after a profile mutation has been committed
type ProfileEvent struct {
	Type      EventType `json:"type"`
	Origin    Origin    `json:"origin"`
	GameID    GameID    `json:"game_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// PreferenceChangedPayload contains data for preference changed events
type PreferenceChangedPayload struct {
	Key   PreferenceKey `json:"key"`
	Value any           `json:"value"`
}

// LevelUpPayload contains data for level up events
type LevelUpPayload struct {
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// PlaySessionPayload contains data for play session events
type PlaySessionPayload struct {
	DurationSeconds int `json:"duration_seconds"`
}
