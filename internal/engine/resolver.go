package engine

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/speedforce/internal/model"
)

// DefaultTimeModeWords is the text length requested for Time mode.
const DefaultTimeModeWords = 100

// Action is what a reset does with the session text.
type Action int

// Reset actions.
const (
	// ActionReuse keeps the current text.
	ActionReuse Action = iota
	// ActionInstall installs a caller supplied custom text.
	ActionInstall
	// ActionFetch requests a fresh text from the provider.
	ActionFetch
)

func (a Action) String() string {
	switch a {
	case ActionReuse:
		return "reuse"
	case ActionInstall:
		return "install"
	case ActionFetch:
		return "fetch"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Decision is the outcome of resolving a reset request.
type Decision struct {
	Config     model.Config
	Action     Action
	Text       string
	Status     model.Status
	FetchWords int
	// Rejected lists request fields that were ignored as invalid.
	Rejected []string
}

// Resolve merges req into cur and decides how the next session gets its text.
// currentText is the text of the live session, possibly empty.
func Resolve(cur model.Config, currentText string, req model.ResetRequest) Decision {
	next := cur
	var rejected []string

	if req.NewTime != 0 {
		if req.NewTime > 0 {
			next.TimeLimit = req.NewTime
		} else {
			rejected = append(rejected, fmt.Sprintf("time=%d", req.NewTime))
		}
	}
	if req.NewWordCount != 0 {
		if req.NewWordCount > 0 {
			next.WordCount = req.NewWordCount
		} else {
			rejected = append(rejected, fmt.Sprintf("words=%d", req.NewWordCount))
		}
	}
	if req.NewDifficulty != "" {
		if req.NewDifficulty.Valid() {
			next.Difficulty = req.NewDifficulty
		} else {
			rejected = append(rejected, fmt.Sprintf("difficulty=%q", req.NewDifficulty))
		}
	}

	custom := req.CustomText
	if custom != "" && strings.TrimSpace(custom) == "" {
		rejected = append(rejected, "custom text is blank")
		custom = ""
	}
	if custom != "" {
		next.Mode = model.ModeCustom
		next.CustomText = custom
		return Decision{
			Config:   next,
			Action:   ActionInstall,
			Text:     custom,
			Status:   model.StatusIdle,
			Rejected: rejected,
		}
	}

	if req.NewMode != "" {
		switch {
		case !req.NewMode.Valid():
			rejected = append(rejected, fmt.Sprintf("mode=%q", req.NewMode))
		case req.NewMode == model.ModeCustom && currentText == "":
			rejected = append(rejected, "custom mode without text")
		default:
			next.Mode = req.NewMode
		}
	}

	reuse := currentText != "" &&
		((req.KeepText && next.Mode == cur.Mode) || next.Mode == model.ModeCustom)
	if reuse {
		return Decision{
			Config:   next,
			Action:   ActionReuse,
			Text:     currentText,
			Status:   model.StatusIdle,
			Rejected: rejected,
		}
	}

	if next.Mode == model.ModeCustom {
		// No text to reuse and none supplied.
		next.Mode = model.ModeTime
	}
	words := DefaultTimeModeWords
	if next.Mode == model.ModeWords {
		words = next.WordCount
	}
	return Decision{
		Config:     next,
		Action:     ActionFetch,
		Status:     model.StatusLoading,
		FetchWords: words,
		Rejected:   rejected,
	}
}
