package constant

import "design-team-be/pkg/pipeline"

// DefaultDesignPlan is the game design team pipeline: a lead designer
// drafts the overview, then gameplay, art/narrative, marketing and
// production each extend the document behind a human gate.
func DefaultDesignPlan() *pipeline.Plan {
	plan, err := pipeline.NewPlan([]pipeline.Stage{
		{
			Index: 0,
			Role:  "LeadGameDesigner",
			Name:  "Game Overview",
			Instruction: `You are a game design expert. Create a game design overview from the pitch.
Include: a two-sentence elevator pitch, game vision, genre, core fantasy,
target audience (player types and archetypes), and design pillars.`,
			Sections: []string{"Overview"},
			Gate:     pipeline.GateAutoAdvance,
		},
		{
			Index: 1,
			Role:  "GameplayDesigner",
			Name:  "Core Gameplay",
			Instruction: `You are a diligent gameplay designer and psychologist. Based on the game
overview, produce a detailed plan of the core loop, goals and progression
(short, medium, long term), all core systems, and other mechanics. Ground
mechanics in tried-and-true methods before innovating.`,
			Sections: []string{"Gameplay"},
			Gate:     pipeline.GateRequiresContinue,
		},
		{
			Index: 2,
			Role:  "ArtDirector",
			Name:  "Art & Narrative",
			Instruction: `You are a video game art director. Review the overview and gameplay plan
and generate a vision for the game world covering narrative, aesthetic
vision, and the desired user experience.`,
			Sections: []string{"ArtNarrative"},
			Gate:     pipeline.GateRequiresContinue,
		},
		{
			Index: 3,
			Role:  "MarketingDirector",
			Name:  "Marketing & Monetization",
			Instruction: `You are a video game marketing director. Create a business strategy
aligned with the game's vision and target audience, covering monetization
strategy and marketing plan.`,
			Sections: []string{"Marketing"},
			Gate:     pipeline.GateRequiresContinue,
		},
		{
			Index: 4,
			Role:  "Producer",
			Name:  "Production Plan",
			Instruction: `You are a meticulously organized video game producer. Use all prior
sections to generate a detailed project plan: task list, timeline,
milestones, and a conservative MVP definition.`,
			Sections: []string{"Production"},
			Gate:     pipeline.GateRequiresContinue,
		},
	})
	if err != nil {
		// The default plan is static; a validation failure is a programming error.
		panic(err)
	}
	return plan
}
