package fsm

import "strings"

// Step is the controller's expectation for the next text message
// within an active flow.
type Step string

const (
	StepNone             Step = ""
	StepAwaitRating      Step = "await_rating"
	StepAwaitTag         Step = "await_tag"
	StepAwaitIndex       Step = "await_index"
	StepAwaitComboRating Step = "await_rating_tag_rating"
	StepAwaitComboTag    Step = "await_rating_tag_tag"
	StepAwaitCount       Step = "await_count"
)

// Mode is the filtering strategy chosen for the active flow.
type Mode string

const (
	ModeNone      Mode = ""
	ModeRating    Mode = "rating"
	ModeTag       Mode = "tag"
	ModeIndex     Mode = "index"
	ModeRatingTag Mode = "rating_tag"
)

const callbackPrefix = "mode_"

// ModeFromCallback parses a mode-selection button payload of the form
// "mode_<name>". Payloads outside the known set are rejected.
func ModeFromCallback(data string) (Mode, bool) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return ModeNone, false
	}
	switch m := Mode(strings.TrimPrefix(data, callbackPrefix)); m {
	case ModeRating, ModeTag, ModeIndex, ModeRatingTag:
		return m, true
	}
	return ModeNone, false
}

func (m Mode) CallbackData() string {
	return callbackPrefix + string(m)
}

// FirstStep returns the opening input step for the mode.
func (m Mode) FirstStep() Step {
	switch m {
	case ModeRating:
		return StepAwaitRating
	case ModeTag:
		return StepAwaitTag
	case ModeIndex:
		return StepAwaitIndex
	case ModeRatingTag:
		return StepAwaitComboRating
	}
	return StepNone
}
