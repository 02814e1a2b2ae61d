package profile

import (
	"context"
	"fmt"

	"github.com/mcoot/psconsole/internal/model"
)

// Stats is the profile screen summary
type Stats struct {
	PlayTimeHours     int     `json:"play_time_hours"`
	PlayTimeMinutes   int     `json:"play_time_minutes"`
	PlayTimeLabel     string  `json:"play_time_label"`
	GamesOwned        int     `json:"games_owned"`
	GamesPlayed       int     `json:"games_played"`
	AchievementsCount int     `json:"achievements_count"`
	Rating            string  `json:"rating"`
	Level             int     `json:"level"`
	Exp               int     `json:"exp"`
	ExpToNextLevel    int     `json:"exp_to_next_level"`
	LevelProgress     float64 `json:"level_progress"`
}

// ComputeStats derives the profile screen summary from a profile
func ComputeStats(p *model.UserProfile) Stats {
	hours := p.TotalPlayTime / 3600
	minutes := (p.TotalPlayTime % 3600) / 60
	return Stats{
		PlayTimeHours:     hours,
		PlayTimeMinutes:   minutes,
		PlayTimeLabel:     fmt.Sprintf("%dh %dm", hours, minutes),
		GamesOwned:        len(p.Library),
		GamesPlayed:       p.GamesPlayed,
		AchievementsCount: len(p.Achievements),
		Rating:            fmt.Sprintf("%.1f", p.Rating()),
		Level:             p.Level,
		Exp:               p.Exp,
		ExpToNextLevel:    p.ExpToNextLevel(),
		LevelProgress:     p.LevelProgress(),
	}
}

// Stats returns the summary of the current profile
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	p, err := s.Snapshot(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(p), nil
}
