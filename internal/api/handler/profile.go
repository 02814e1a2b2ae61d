package handler

import (
	"net/http"

	"github.com/mcoot/psconsole/internal/api/middleware"
	"github.com/mcoot/psconsole/internal/api/request"
	"github.com/mcoot/psconsole/internal/api/response"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/services/playsession"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	tracker *playsession.Tracker
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(tracker *playsession.Tracker) *ProfileHandler {
	return &ProfileHandler{
		tracker: tracker,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}

// Update handles PATCH /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	var req request.UpdateProfileRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Username == nil && req.Avatar == nil {
		WriteError(w, NewInvalidRequestError("nothing to update"))
		return
	}

	if req.Avatar != nil {
		if err := store.SetAvatar(r.Context(), *req.Avatar); err != nil {
			WriteError(w, err)
			return
		}
	}
	if req.Username != nil {
		if err := store.SetUsername(r.Context(), *req.Username); err != nil {
			WriteError(w, err)
			return
		}
	}

	h.Get(w, r)
}

// Delete handles DELETE /api/v1/profile.
// The stored profile is removed and any open play session is dropped.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	if err := store.Reset(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.tracker.Abandon(store.Origin())

	response.NoContent(w)
}

// Storage handles GET /api/v1/profile/storage
func (h *ProfileHandler) Storage(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	keys, err := store.StoredKeys(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StorageKeys{Origin: string(store.Origin()), Keys: keys})
}

// Stats handles GET /api/v1/profile/stats
func (h *ProfileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	stats, err := store.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// UpdatePreferences handles PATCH /api/v1/profile/preferences
func (h *ProfileHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	var req request.UpdatePreferencesRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Empty() {
		WriteError(w, NewInvalidRequestError("no preference supplied"))
		return
	}

	updates := make(map[model.PreferenceKey]any, 3)
	if req.Theme != nil {
		updates[model.PreferenceTheme] = *req.Theme
	}
	if req.Volume != nil {
		updates[model.PreferenceVolume] = req.Volume
	}
	if req.Language != nil {
		updates[model.PreferenceLanguage] = *req.Language
	}

	if err := store.SetPreferences(r.Context(), updates); err != nil {
		WriteError(w, err)
		return
	}

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PreferencesFromModel(p.Preferences))
}

// AddExperience handles POST /api/v1/profile/experience
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	var req request.AddExperienceRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if _, err := store.AddExperience(r.Context(), req.Amount); err != nil {
		WriteError(w, err)
		return
	}

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Experience{
		Level:          p.Level,
		Exp:            p.Exp,
		ExpToNextLevel: p.ExpToNextLevel(),
		LevelProgress:  p.LevelProgress(),
	})
}

// ListAchievements handles GET /api/v1/profile/achievements
func (h *ProfileHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AchievementUnlock{
		Achievements: p.Achievements,
	})
}

// UnlockAchievement handles POST /api/v1/profile/achievements
func (h *ProfileHandler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	store := middleware.MustGetStore(r.Context())

	var req request.UnlockAchievementRequest
	if err := request.DecodeJSONBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	unlocked, err := store.UnlockAchievement(r.Context(), model.Achievement{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	p, err := store.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if unlocked {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.AchievementUnlock{
		Unlocked:     unlocked,
		Achievements: p.Achievements,
	})
}
