package stats

import (
	"context"
	"errors"
	"testing"
)

type memScores struct {
	best   int
	writes int
	err    error
}

func (m *memScores) GetBest(context.Context) (int, error) { return m.best, m.err }

func (m *memScores) SetBest(_ context.Context, wpm int) error {
	m.writes++
	m.best = wpm
	return nil
}

func TestUpdateBest(t *testing.T) {
	ctx := context.Background()
	st := &memScores{best: 50}

	best, isNew, err := UpdateBest(ctx, st, 40)
	if err != nil || best != 50 || isNew || st.writes != 0 {
		t.Fatalf("lower score: best=%d new=%v writes=%d err=%v", best, isNew, st.writes, err)
	}

	best, isNew, err = UpdateBest(ctx, st, 50)
	if err != nil || best != 50 || !isNew || st.writes != 0 {
		t.Fatalf("tie: best=%d new=%v writes=%d err=%v", best, isNew, st.writes, err)
	}

	best, isNew, err = UpdateBest(ctx, st, 65)
	if err != nil || best != 65 || !isNew || st.writes != 1 {
		t.Fatalf("higher: best=%d new=%v writes=%d err=%v", best, isNew, st.writes, err)
	}
}

func TestUpdateBestZeroIsNotARecord(t *testing.T) {
	_, isNew, err := UpdateBest(context.Background(), &memScores{}, 0)
	if err != nil || isNew {
		t.Fatalf("expected no record for zero wpm, new=%v err=%v", isNew, err)
	}
}

func TestUpdateBestPropagatesReadError(t *testing.T) {
	boom := errors.New("boom")
	if _, _, err := UpdateBest(context.Background(), &memScores{err: boom}, 10); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSpeedLevel(t *testing.T) {
	tests := map[int]Level{0: LevelSlow, 29: LevelSlow, 30: LevelAverage, 59: LevelAverage, 60: LevelFluent, 89: LevelFluent, 90: LevelFast, 150: LevelFast}
	for wpm, want := range tests {
		if got := SpeedLevel(wpm); got != want {
			t.Fatalf("wpm %d: expected %s, got %s", wpm, want, got)
		}
	}
}
