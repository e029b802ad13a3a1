package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/speedforce/internal/model"
)

const recentRows = 10

// SessionSource lists stored sessions.
type SessionSource interface {
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionRecord, error)
	GetBest(ctx context.Context) (int, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions []model.SessionRecord
	Best     int
	Window   int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src SessionSource, cfg model.StatsConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	best, err := src.GetBest(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, Best: best, Window: cfg.CurveWindow}, nil
}

// Render writes the summary, curves, and recent sessions table.
func (r Report) Render(w io.Writer, totalWidth int) error {
	if err := RenderSummary(w, r.Sessions, r.Best); err != nil {
		return err
	}
	if err := RenderCurves(w, r.Sessions, r.Window, totalWidth); err != nil {
		return err
	}
	return RenderRecent(w, r.Sessions, recentRows)
}
