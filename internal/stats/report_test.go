package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/speedforce/internal/model"
	"github.com/verte-zerg/speedforce/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "speedforce.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		rec := model.SessionRecord{
			StartedAt:  start,
			EndedAt:    end,
			Mode:       model.ModeTime,
			TimeLimit:  30,
			WordCount:  25,
			Difficulty: model.DifficultyMedium,
			WPM:        30 + i*10,
			RawWPM:     32 + i*10,
			Accuracy:   95,
			DurationMs: end.Sub(start).Milliseconds(),
		}
		if _, err := st.InsertSession(ctx, rec); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	if err := st.SetBest(ctx, 70); err != nil {
		t.Fatalf("set best: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Mode: model.ModeTime, Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].WPM != 40 || report.Sessions[1].WPM != 50 {
		t.Fatalf("unexpected sessions: %+v", report.Sessions)
	}
	if report.Best != 70 {
		t.Fatalf("expected best 70, got %d", report.Best)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Summary", "Learning Curves", "Recent Sessions", "time 30"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("expected %q in report:\n%s", want, buf.String())
		}
	}

	words, err := BuildReport(ctx, st, model.StatsConfig{Mode: model.ModeWords})
	if err != nil {
		t.Fatalf("build words report: %v", err)
	}
	if len(words.Sessions) != 0 {
		t.Fatalf("expected no words sessions, got %d", len(words.Sessions))
	}
}
