package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mcoot/psconsole/internal/dependencies/clock"
	"github.com/mcoot/psconsole/internal/metrics"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
)

// AchievementDateLayout is the format of Achievement.Date
const AchievementDateLayout = "2006-01-02"

// Notifier receives profile events after they are committed
type Notifier interface {
	Notify(ctx context.Context, event model.ProfileEvent)
}

// NopNotifier discards all events
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, model.ProfileEvent) {}

// Store is the single source of truth for the profile of one origin.
// All mutations are serialized; each one is persisted before it becomes
// visible, and a failed write leaves the in-memory profile untouched.
type Store struct {
	origin   model.Origin
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	metrics  *metrics.StoreMetrics
	logger   *slog.Logger

	mu      sync.Mutex
	profile *model.UserProfile // nil until loaded, and again after Reset
	// unread is set while profile is a placeholder for a record that could
	// not be read; nothing is written until a read succeeds
	unread bool

	ready     chan struct{}
	readyOnce sync.Once
}

// NewStore creates a store for the origin. Nothing is read until Load.
func NewStore(
	origin model.Origin,
	storage storage.Storage,
	clock clock.Clock,
	notifier Notifier,
	metrics *metrics.StoreMetrics,
	logger *slog.Logger,
) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{
		origin:   origin,
		storage:  storage,
		clock:    clock,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger.With("origin", string(origin)),
		ready:    make(chan struct{}),
	}
}

// Origin returns the origin the store belongs to
func (s *Store) Origin() model.Origin {
	return s.origin
}

// Ready is closed once the first Load has finished
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until the first Load has finished or ctx is done
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Load reads the persisted record, creating and persisting a default guest
// profile when there is none. The returned profile is never nil. A non-nil
// error reports a condition that was recovered from (ErrCorruptRecord or
// ErrStorageUnavailable); the returned profile is still usable.
func (s *Store) Load(ctx context.Context) (*model.UserProfile, error) {
	start := s.clock.Now()

	s.mu.Lock()
	recovered := s.loadLocked(ctx)
	p := s.profile.Clone()
	s.mu.Unlock()

	s.metrics.ObserveOperation("load", recovered, s.clock.Now().Sub(start))
	s.notify(ctx, model.EventProfileLoaded, "", nil)
	return p, recovered
}

// loadLocked replaces the in-memory profile with the persisted one.
// Caller must hold s.mu.
func (s *Store) loadLocked(ctx context.Context) error {
	defer s.readyOnce.Do(func() { close(s.ready) })

	data, err := s.storage.GetItem(ctx, s.origin, model.ProfileStorageKey)
	s.unread = err != nil && !errors.Is(err, model.ErrItemNotFound)
	switch {
	case errors.Is(err, model.ErrItemNotFound):
		p := model.NewGuestProfile(s.clock.Now())
		s.profile = p
		if err := s.persist(ctx, p); err != nil {
			s.metrics.RecordRecovery(metrics.RecoveryStorageUnavailable)
			s.logger.Warn("could not persist new guest profile", "error", err)
			return err
		}
		s.logger.Info("created guest profile", "profile_id", p.ID)
		return nil

	case err != nil:
		// Treated as absent, but not written back so the stored record survives.
		// The next Snapshot or mutation retries the read.
		s.profile = model.NewGuestProfile(s.clock.Now())
		s.metrics.RecordRecovery(metrics.RecoveryStorageUnavailable)
		s.logger.Warn("profile storage unreadable, using defaults", "error", err)
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	p, decodeErr := decodeProfile(data)
	if decodeErr != nil {
		p = model.NewGuestProfile(s.clock.Now())
		s.profile = p
		s.metrics.RecordRecovery(metrics.RecoveryCorruptRecord)
		s.logger.Warn("profile record corrupt, replaced with defaults", "error", decodeErr)
		if err := s.persist(ctx, p); err != nil {
			return errors.Join(decodeErr, err)
		}
		return decodeErr
	}

	changed := p.Normalize()
	if p.ID == "" {
		p.ID = model.NewGuestProfile(s.clock.Now()).ID
		changed = true
	}
	s.profile = p

	if changed {
		s.logger.Info("normalized stored profile", "profile_id", p.ID)
		if err := s.persist(ctx, p); err != nil {
			s.metrics.RecordRecovery(metrics.RecoveryStorageUnavailable)
			return err
		}
	}
	return nil
}

func decodeProfile(data []byte) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrCorruptRecord, err)
	}
	if p.SchemaVersion > model.CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: unknown schema version %d", model.ErrCorruptRecord, p.SchemaVersion)
	}
	return &p, nil
}

// persist writes the whole record under the single storage key
func (s *Store) persist(ctx context.Context, p *model.UserProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.storage.SetItem(ctx, s.origin, model.ProfileStorageKey, data); err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}
	return nil
}

// Snapshot returns a deep copy of the current profile, loading it first if needed
func (s *Store) Snapshot(ctx context.Context) (*model.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		s.logger.Debug("snapshot recovered during load", "error", err)
	}
	return s.profile.Clone(), nil
}

func (s *Store) ensureLoadedLocked(ctx context.Context) error {
	if s.profile != nil && !s.unread {
		return nil
	}
	return s.loadLocked(ctx)
}

// change is applied to a copy of the profile; it returns the events to emit
// (none means nothing changed and nothing is written)
type change func(p *model.UserProfile) ([]model.ProfileEvent, error)

func (s *Store) mutate(ctx context.Context, op string, fn change) (*model.UserProfile, bool, error) {
	start := s.clock.Now()

	s.mu.Lock()
	var err error
	var events []model.ProfileEvent
	if loadErr := s.ensureLoadedLocked(ctx); loadErr != nil {
		s.logger.Debug("mutation recovered during load", "op", op, "error", loadErr)
		if s.unread {
			err = loadErr
		}
	}

	next := s.profile.Clone()
	if err == nil {
		events, err = fn(next)
	}
	if err == nil && len(events) > 0 {
		err = s.persist(ctx, next)
		if err == nil {
			s.profile = next
		}
	}
	result := s.profile.Clone()
	s.mu.Unlock()

	s.metrics.ObserveOperation(op, err, s.clock.Now().Sub(start))
	if err != nil {
		if errors.Is(err, model.ErrStorageUnavailable) {
			s.logger.Error("failed to persist profile", "op", op, "error", err)
		}
		return result, false, err
	}

	for _, e := range events {
		s.emit(ctx, e)
	}
	return result, len(events) > 0, nil
}

func (s *Store) event(t model.EventType, gameID model.GameID, payload any) model.ProfileEvent {
	return model.ProfileEvent{
		Type:      t,
		Origin:    s.origin,
		GameID:    gameID,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	}
}

func (s *Store) emit(ctx context.Context, e model.ProfileEvent) {
	s.notifier.Notify(ctx, e)
}

func (s *Store) notify(ctx context.Context, t model.EventType, gameID model.GameID, payload any) {
	s.emit(ctx, s.event(t, gameID, payload))
}

// Save overwrites the whole persisted record with the given profile
func (s *Store) Save(ctx context.Context, p *model.UserProfile) error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", model.ErrCorruptRecord)
	}
	_, _, err := s.mutate(ctx, "save", func(cur *model.UserProfile) ([]model.ProfileEvent, error) {
		replacement := p.Clone()
		replacement.Normalize()
		if replacement.ID == "" {
			replacement.ID = cur.ID
		}
		*cur = *replacement
		return []model.ProfileEvent{s.event(model.EventProfileSaved, "", nil)}, nil
	})
	return err
}

// AddToLibrary appends the game to the library unless it is already there.
// Game ids are not checked against the catalog here.
func (s *Store) AddToLibrary(ctx context.Context, gameID model.GameID) (bool, error) {
	if gameID == "" {
		return false, model.ErrGameNotFound
	}
	_, added, err := s.mutate(ctx, "add_to_library", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		if p.HasGame(gameID) {
			return nil, nil
		}
		p.Library = append(p.Library, gameID)
		return []model.ProfileEvent{s.event(model.EventLibraryAdded, gameID, nil)}, nil
	})
	return added, err
}

// RemoveFromLibrary removes the game from the library; absent ids are a no-op
func (s *Store) RemoveFromLibrary(ctx context.Context, gameID model.GameID) (bool, error) {
	_, removed, err := s.mutate(ctx, "remove_from_library", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		library := make([]model.GameID, 0, len(p.Library))
		for _, id := range p.Library {
			if id != gameID {
				library = append(library, id)
			}
		}
		if len(library) == len(p.Library) {
			return nil, nil
		}
		p.Library = library
		p.SetGameMeta(gameID, model.GameMeta{})
		return []model.ProfileEvent{s.event(model.EventLibraryRemoved, gameID, nil)}, nil
	})
	return removed, err
}

// SetPreference sets one of theme, volume or language
func (s *Store) SetPreference(ctx context.Context, key model.PreferenceKey, value any) error {
	return s.SetPreferences(ctx, map[model.PreferenceKey]any{key: value})
}

// SetPreferences validates every value first and then applies them all in a
// single write. One invalid value rejects the whole set.
func (s *Store) SetPreferences(ctx context.Context, values map[model.PreferenceKey]any) error {
	keys := make([]model.PreferenceKey, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b model.PreferenceKey) int {
		return preferenceOrder(a) - preferenceOrder(b)
	})

	_, _, err := s.mutate(ctx, "set_preference", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		events := make([]model.ProfileEvent, 0, len(keys))
		for _, key := range keys {
			stored, err := applyPreference(&p.Preferences, key, values[key])
			if err != nil {
				return nil, err
			}
			payload := model.PreferenceChangedPayload{Key: key, Value: stored}
			events = append(events, s.event(model.EventPreferenceChanged, "", payload))
		}
		return events, nil
	})
	return err
}

func preferenceOrder(key model.PreferenceKey) int {
	switch key {
	case model.PreferenceTheme:
		return 0
	case model.PreferenceVolume:
		return 1
	case model.PreferenceLanguage:
		return 2
	}
	return 3
}

// applyPreference sets one preference and returns the value as stored
func applyPreference(prefs *model.Preferences, key model.PreferenceKey, value any) (any, error) {
	switch key {
	case model.PreferenceTheme:
		theme, ok := value.(string)
		if t, isTheme := value.(model.Theme); isTheme {
			theme, ok = string(t), true
		}
		if !ok || (model.Theme(theme) != model.ThemeDark && model.Theme(theme) != model.ThemeLight) {
			return nil, fmt.Errorf("%w: theme %v", model.ErrInvalidPreference, value)
		}
		prefs.Theme = model.Theme(theme)
		return theme, nil

	case model.PreferenceVolume:
		volume, err := toVolume(value)
		if err != nil {
			return nil, err
		}
		prefs.Volume = volume
		return int(volume), nil

	case model.PreferenceLanguage:
		lang, ok := value.(string)
		if l, isLang := value.(model.Language); isLang {
			lang, ok = string(l), true
		}
		if !ok || (model.Language(lang) != model.LanguageArabic && model.Language(lang) != model.LanguageEnglish) {
			return nil, fmt.Errorf("%w: language %v", model.ErrInvalidPreference, value)
		}
		prefs.Language = model.Language(lang)
		return lang, nil
	}
	return nil, fmt.Errorf("%w: unknown key %q", model.ErrInvalidPreference, key)
}

// toVolume accepts integers, whole floats and numeric strings in 0..100
func toVolume(value any) (model.Volume, error) {
	var f float64
	switch v := value.(type) {
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case float64:
		f = v
	case model.Volume:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: volume %q", model.ErrInvalidPreference, v)
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: volume %q", model.ErrInvalidPreference, v)
		}
		f = n
	default:
		return 0, fmt.Errorf("%w: volume %v", model.ErrInvalidPreference, value)
	}
	if math.IsNaN(f) || f != math.Trunc(f) || f < 0 || f > 100 {
		return 0, fmt.Errorf("%w: volume %v out of range", model.ErrInvalidPreference, value)
	}
	return model.Volume(f), nil
}

// RecordPlaySession adds a completed session of the given length
func (s *Store) RecordPlaySession(ctx context.Context, gameID model.GameID, durationSeconds int) error {
	if durationSeconds < 0 {
		return fmt.Errorf("%w: %d", model.ErrInvalidDuration, durationSeconds)
	}
	_, _, err := s.mutate(ctx, "record_play_session", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		p.TotalPlayTime += durationSeconds
		p.GamesPlayed++
		payload := model.PlaySessionPayload{DurationSeconds: durationSeconds}
		return []model.ProfileEvent{s.event(model.EventPlaySessionEnded, gameID, payload)}, nil
	})
	return err
}

// StoredKeys lists the storage keys held by the origin
func (s *Store) StoredKeys(ctx context.Context) ([]string, error) {
	keys, err := s.storage.Keys(ctx, s.origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}
	return keys, nil
}

// Reset deletes the persisted record; the next Load starts a fresh guest
func (s *Store) Reset(ctx context.Context) error {
	start := s.clock.Now()

	s.mu.Lock()
	err := s.storage.RemoveItem(ctx, s.origin, model.ProfileStorageKey)
	if err == nil {
		s.profile = nil
	}
	s.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}
	s.metrics.ObserveOperation("reset", err, s.clock.Now().Sub(start))
	if err != nil {
		s.logger.Error("failed to reset profile", "error", err)
		return err
	}

	s.logger.Info("profile reset")
	s.notify(ctx, model.EventProfileReset, "", nil)
	return nil
}

// SetAvatar accepts an avatar name (e.g. "avatar2") or one of the avatar image paths
func (s *Store) SetAvatar(ctx context.Context, avatar string) error {
	path, ok := model.Avatars[avatar]
	if !ok {
		for _, candidate := range model.Avatars {
			if candidate == avatar {
				path, ok = candidate, true
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("%w: %q", model.ErrInvalidAvatar, avatar)
	}

	_, _, err := s.mutate(ctx, "set_avatar", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		if p.Avatar == path {
			return nil, nil
		}
		p.Avatar = path
		return []model.ProfileEvent{s.event(model.EventAvatarChanged, "", nil)}, nil
	})
	return err
}

// SetUsername renames the user; names are trimmed and must be 1-32 characters
func (s *Store) SetUsername(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n == 0 || n > model.MaxUsernameLength {
		return fmt.Errorf("%w: length must be 1-%d", model.ErrInvalidUsername, model.MaxUsernameLength)
	}

	_, _, err := s.mutate(ctx, "set_username", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		if p.Username == username {
			return nil, nil
		}
		p.Username = username
		return []model.ProfileEvent{s.event(model.EventUsernameChanged, "", nil)}, nil
	})
	return err
}

// AddExperience adds exp and levels up while exp reaches level*1000.
// It returns the resulting level.
func (s *Store) AddExperience(ctx context.Context, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", model.ErrInvalidAmount, amount)
	}
	p, _, err := s.mutate(ctx, "add_experience", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		oldLevel := p.Level
		p.Exp += amount
		for p.Exp >= p.ExpToNextLevel() {
			p.Level++
		}
		events := []model.ProfileEvent{s.event(model.EventExperienceGained, "", nil)}
		if p.Level > oldLevel {
			events = append(events, s.event(model.EventLevelUp, "", model.LevelUpPayload{
				OldLevel: oldLevel,
				NewLevel: p.Level,
			}))
			s.logger.Info("level up", "old_level", oldLevel, "new_level", p.Level)
		}
		return events, nil
	})
	if err != nil {
		return 0, err
	}
	return p.Level, nil
}

// UnlockAchievement records an achievement dated today. Titles are unique;
// unlocking an existing title is a no-op and returns false.
func (s *Store) UnlockAchievement(ctx context.Context, a model.Achievement) (bool, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return false, fmt.Errorf("%w: title is required", model.ErrInvalidAchievement)
	}
	a.Date = s.clock.Now().Format(AchievementDateLayout)

	_, unlocked, err := s.mutate(ctx, "unlock_achievement", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		if p.HasAchievement(a.Title) {
			return nil, nil
		}
		p.Achievements = append(p.Achievements, a)
		return []model.ProfileEvent{s.event(model.EventAchievementUnlock, "", a)}, nil
	})
	return unlocked, err
}

// ToggleFavorite flips the favorite flag of a library game and returns the new value
func (s *Store) ToggleFavorite(ctx context.Context, gameID model.GameID) (bool, error) {
	p, _, err := s.mutate(ctx, "toggle_favorite", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		meta := p.GameMeta(gameID)
		meta.Favorite = !meta.Favorite
		p.SetGameMeta(gameID, meta)
		return []model.ProfileEvent{s.event(model.EventGameFlagsChanged, gameID, meta)}, nil
	})
	if err != nil {
		return false, err
	}
	return p.GameMeta(gameID).Favorite, nil
}

// SetInstalled marks a game as installed or not
func (s *Store) SetInstalled(ctx context.Context, gameID model.GameID, installed bool) error {
	_, _, err := s.mutate(ctx, "set_installed", func(p *model.UserProfile) ([]model.ProfileEvent, error) {
		meta := p.GameMeta(gameID)
		if meta.Installed == installed {
			return nil, nil
		}
		meta.Installed = installed
		p.SetGameMeta(gameID, meta)
		return []model.ProfileEvent{s.event(model.EventGameFlagsChanged, gameID, meta)}, nil
	})
	return err
}
