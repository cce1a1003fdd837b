package models

import (
	"time"

	"github.com/ad/go-telegram-practice/internal/fsm"
)

// UserState is the durable conversation record for one chat. The zero
// step/mode pair means no flow is active. Filter params are only
// meaningful while a flow is in progress.
type UserState struct {
	ChatID      int64
	Step        fsm.Step
	Mode        fsm.Mode
	Rating      *int
	Tag         *string
	IndexLetter *string
	CreatedAt   time.Time
}

// ResetFlow clears step, mode and all filter params together.
func (s *UserState) ResetFlow() {
	s.Step = fsm.StepNone
	s.Mode = fsm.ModeNone
	s.Rating = nil
	s.Tag = nil
	s.IndexLetter = nil
}

// StartFlow begins a fresh flow for the given mode, discarding params
// left over from a previous one.
func (s *UserState) StartFlow(mode fsm.Mode) {
	s.ResetFlow()
	s.Mode = mode
	s.Step = mode.FirstStep()
}
