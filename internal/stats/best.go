package stats

import (
	"context"
	"fmt"
)

// ScoreStore persists the single best WPM.
type ScoreStore interface {
	GetBest(ctx context.Context) (int, error)
	SetBest(ctx context.Context, wpm int) error
}

// UpdateBest compares wpm against the stored best. The store is only written
// when wpm is strictly higher; isNew also reports ties so a run matching the
// record is still celebrated.
func UpdateBest(ctx context.Context, st ScoreStore, wpm int) (best int, isNew bool, err error) {
	best, err = st.GetBest(ctx)
	if err != nil {
		return 0, false, err
	}
	isNew = wpm >= best && wpm > 0
	if wpm > best {
		if err := st.SetBest(ctx, wpm); err != nil {
			return best, false, fmt.Errorf("failed to update best score: %w", err)
		}
		best = wpm
	}
	return best, isNew, nil
}

// Level buckets a WPM score.
type Level string

const (
	LevelSlow    Level = "Slow"
	LevelAverage Level = "Average"
	LevelFluent  Level = "Fluent"
	LevelFast    Level = "Fast"
)

// SpeedLevel names the bracket wpm falls into.
func SpeedLevel(wpm int) Level {
	switch {
	case wpm >= 90:
		return LevelFast
	case wpm >= 60:
		return LevelFluent
	case wpm >= 30:
		return LevelAverage
	default:
		return LevelSlow
	}
}
