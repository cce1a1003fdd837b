package fsm

import "testing"

func TestModeFromCallback(t *testing.T) {
	cases := []struct {
		data string
		mode Mode
		ok   bool
	}{
		{"mode_rating", ModeRating, true},
		{"mode_tag", ModeTag, true},
		{"mode_index", ModeIndex, true},
		{"mode_rating_tag", ModeRatingTag, true},
		{"mode_unknown", ModeNone, false},
		{"rating", ModeNone, false},
		{"", ModeNone, false},
	}

	for _, tc := range cases {
		mode, ok := ModeFromCallback(tc.data)
		if mode != tc.mode || ok != tc.ok {
			t.Errorf("ModeFromCallback(%q) = %q/%v, expected %q/%v", tc.data, mode, ok, tc.mode, tc.ok)
		}
	}
}

func TestCallbackDataRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeRating, ModeTag, ModeIndex, ModeRatingTag} {
		got, ok := ModeFromCallback(mode.CallbackData())
		if !ok || got != mode {
			t.Errorf("Round trip failed for %q: got %q/%v", mode, got, ok)
		}
	}
}

func TestFirstStep(t *testing.T) {
	cases := map[Mode]Step{
		ModeRating:    StepAwaitRating,
		ModeTag:       StepAwaitTag,
		ModeIndex:     StepAwaitIndex,
		ModeRatingTag: StepAwaitComboRating,
		ModeNone:      StepNone,
	}

	for mode, step := range cases {
		if got := mode.FirstStep(); got != step {
			t.Errorf("FirstStep(%q) = %q, expected %q", mode, got, step)
		}
	}
}
