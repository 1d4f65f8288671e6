package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"joingate/internal/logger"
)

// Verdict говорит, продолжать ли обход конвейера после стадии.
type Verdict int

const (
	Stop Verdict = iota
	Continue
)

// Stage is one step of the update pipeline. Match must not have side effects.
type Stage struct {
	Name   string
	Match  func(u *tgbotapi.Update) bool
	Handle func(ctx context.Context, u *tgbotapi.Update) (Verdict, error)
}

// Pipeline runs matching stages in order until one returns Stop.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

func (p *Pipeline) Dispatch(ctx context.Context, u *tgbotapi.Update) error {
	ctx = logger.WithUpdateID(ctx, u.UpdateID)
	for _, st := range p.stages {
		if !st.Match(u) {
			continue
		}
		v, err := st.Handle(logger.WithStage(ctx, st.Name), u)
		if err != nil {
			return fmt.Errorf("stage %s: %w", st.Name, err)
		}
		if v == Stop {
			return nil
		}
	}
	return nil
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.Name
	}
	return names
}
