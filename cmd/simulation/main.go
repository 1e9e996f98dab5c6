// Offline walk of the whole pipeline against the in-memory store: one
// session is driven from pitch to finalized document with a revision loop
// on the gameplay stage. Useful for eyeballing the state machine without a
// database or a model server.
package main

import (
	"context"
	"log"

	"design-team-be/internal/constant"
	"design-team-be/internal/dto"
	"design-team-be/internal/pkg/logger"
	"design-team-be/internal/repository/memory"
	"design-team-be/internal/service"
	"design-team-be/pkg/contributor"
	"design-team-be/pkg/pipeline"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	store := memory.NewStore()
	uowFactory := memory.NewRepositoryFactory(store)
	plan := constant.DefaultDesignPlan()
	nop := logger.NewNopLogger()

	sessionService := service.NewSessionService(uowFactory, plan, nil, nop)
	sequencerService := service.NewSequencerService(uowFactory, plan, contributor.NewScripted(), nil, nop)

	userId := uuid.New()
	color.Cyan("Simulating design pipeline for user %s", userId)

	created, err := sessionService.Create(ctx, userId, &dto.CreateSessionRequest{
		Pitch: "A cozy roguelike about a lighthouse keeper mapping a sea that rearranges itself every night.",
	})
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	color.Green("Session created: %s", created.Id)

	revised := false
	for {
		status, err := sequencerService.Status(ctx, userId, created.Id)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		if status.Phase == string(pipeline.PhaseFinalized) {
			break
		}

		switch status.Phase {
		case string(pipeline.PhaseAwaitingInput):
			color.Yellow("[stage %d] %s drafting...", status.CurrentStageIndex, status.StageRole)
			res, err := sequencerService.RunStage(ctx, userId, created.Id)
			if err != nil {
				log.Fatalf("run stage %d: %v", status.CurrentStageIndex, err)
			}
			if res.AutoAdvanced {
				color.Green("[stage %d] committed automatically", res.StageIndex)
			}

		case string(pipeline.PhaseAwaitingGate):
			// Exercise the revision loop once on the gameplay stage.
			if status.CurrentStageIndex == 1 && !revised {
				revised = true
				color.Yellow("[stage %d] requesting revision", status.CurrentStageIndex)
				if _, err := sequencerService.Signal(ctx, userId, &dto.SignalRequest{
					SessionId: created.Id,
					Decision:  constant.GateDecisionRevision,
					Feedback:  "tighten the core loop, fewer systems",
				}); err != nil {
					log.Fatalf("revise stage %d: %v", status.CurrentStageIndex, err)
				}
				continue
			}
			color.Yellow("[stage %d] continuing past gate", status.CurrentStageIndex)
			if _, err := sequencerService.Signal(ctx, userId, &dto.SignalRequest{
				SessionId: created.Id,
				Decision:  constant.GateDecisionContinue,
			}); err != nil {
				log.Fatalf("continue stage %d: %v", status.CurrentStageIndex, err)
			}

		default:
			log.Fatalf("unexpected phase %q", status.Phase)
		}
	}

	doc, err := sequencerService.Document(ctx, userId, created.Id)
	if err != nil {
		log.Fatalf("document: %v", err)
	}
	color.Green("Pipeline finalized, document complete: %v", doc.Complete)
	color.Cyan("\n%s", doc.Rendered)
}
