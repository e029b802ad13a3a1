package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/speedforce/internal/model"
)

func baseConfig() model.Config {
	return model.Config{
		Mode:       model.ModeTime,
		TimeLimit:  30,
		WordCount:  25,
		Difficulty: model.DifficultyMedium,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		cur        model.Config
		text       string
		req        model.ResetRequest
		wantMode   model.Mode
		wantAction Action
		wantStatus model.Status
		wantText   string
		wantWords  int
		wantReject int
	}{
		{
			name:       "custom text wins over every other field",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{CustomText: "my own words", NewMode: model.ModeWords, KeepText: true},
			wantMode:   model.ModeCustom,
			wantAction: ActionInstall,
			wantStatus: model.StatusIdle,
			wantText:   "my own words",
		},
		{
			name:       "keep text with unchanged mode",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{KeepText: true},
			wantMode:   model.ModeTime,
			wantAction: ActionReuse,
			wantStatus: model.StatusIdle,
			wantText:   "old text",
		},
		{
			name:       "keep text with changed mode fetches",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{KeepText: true, NewMode: model.ModeWords},
			wantMode:   model.ModeWords,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  25,
		},
		{
			name:       "keep text without any text fetches",
			cur:        baseConfig(),
			req:        model.ResetRequest{KeepText: true},
			wantMode:   model.ModeTime,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  DefaultTimeModeWords,
		},
		{
			name:       "time mode requests default length",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{},
			wantMode:   model.ModeTime,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  DefaultTimeModeWords,
		},
		{
			name:       "words mode requests new word count",
			cur:        baseConfig(),
			req:        model.ResetRequest{NewMode: model.ModeWords, NewWordCount: 50},
			wantMode:   model.ModeWords,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  50,
		},
		{
			name:       "custom mode keeps current text",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{NewMode: model.ModeCustom},
			wantMode:   model.ModeCustom,
			wantAction: ActionReuse,
			wantStatus: model.StatusIdle,
			wantText:   "old text",
		},
		{
			name:       "custom mode without text is rejected",
			cur:        baseConfig(),
			req:        model.ResetRequest{NewMode: model.ModeCustom},
			wantMode:   model.ModeTime,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  DefaultTimeModeWords,
			wantReject: 1,
		},
		{
			name:       "blank custom text is rejected",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{CustomText: "   \n"},
			wantMode:   model.ModeTime,
			wantAction: ActionFetch,
			wantStatus: model.StatusLoading,
			wantWords:  DefaultTimeModeWords,
			wantReject: 1,
		},
		{
			name:       "invalid numbers and names are rejected",
			cur:        baseConfig(),
			text:       "old text",
			req:        model.ResetRequest{NewTime: -5, NewWordCount: -1, NewDifficulty: "insane", NewMode: "zen", KeepText: true},
			wantMode:   model.ModeTime,
			wantAction: ActionReuse,
			wantStatus: model.StatusIdle,
			wantText:   "old text",
			wantReject: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(tt.cur, tt.text, tt.req)
			assert.Equal(t, tt.wantMode, d.Config.Mode)
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantText, d.Text)
			assert.Equal(t, tt.wantWords, d.FetchWords)
			assert.Len(t, d.Rejected, tt.wantReject)
		})
	}
}

func TestResolveUpdatesOnlyProvidedFields(t *testing.T) {
	cur := baseConfig()
	d := Resolve(cur, "text", model.ResetRequest{NewTime: 60})
	assert.Equal(t, 60, d.Config.TimeLimit)
	assert.Equal(t, cur.WordCount, d.Config.WordCount)
	assert.Equal(t, cur.Difficulty, d.Config.Difficulty)
	assert.Equal(t, cur.Mode, d.Config.Mode)

	d = Resolve(cur, "text", model.ResetRequest{NewDifficulty: model.DifficultyAdvanced, NewWordCount: 10})
	assert.Equal(t, model.DifficultyAdvanced, d.Config.Difficulty)
	assert.Equal(t, 10, d.Config.WordCount)
	assert.Equal(t, cur.TimeLimit, d.Config.TimeLimit)
}

func TestResolveRetainsPreviousOnInvalidValues(t *testing.T) {
	cur := baseConfig()
	d := Resolve(cur, "text", model.ResetRequest{NewTime: -30, NewWordCount: -10})
	assert.Equal(t, 30, d.Config.TimeLimit)
	assert.Equal(t, 25, d.Config.WordCount)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "fetch", ActionFetch.String())
	assert.Equal(t, "reuse", ActionReuse.String())
	assert.Equal(t, "install", ActionInstall.String())
}
