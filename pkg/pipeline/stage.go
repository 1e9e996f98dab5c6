package pipeline

import "fmt"

// GatePolicy decides what happens once a stage produced an output.
type GatePolicy string

const (
	// GateAutoAdvance commits the output immediately, no external signal.
	GateAutoAdvance GatePolicy = "auto_advance"
	// GateRequiresContinue suspends the pipeline until an explicit
	// continue / revise signal arrives from outside.
	GateRequiresContinue GatePolicy = "requires_continue"
)

// Stage is one ordered step of the pipeline. Stages are static
// configuration supplied at process start; the engine never creates them.
type Stage struct {
	Index       int
	Role        string
	Name        string
	Instruction string
	// Sections lists the document section paths this stage populates.
	// Each path is owned by exactly one stage.
	Sections []string
	Gate     GatePolicy
}

// Plan is the validated, ordered list of stages.
type Plan struct {
	stages []Stage
}

// NewPlan validates the stage list: indices dense from 0, every stage owns
// at least one section, and no section path is owned by two stages.
func NewPlan(stages []Stage) (*Plan, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline: plan needs at least one stage")
	}
	owners := make(map[string]int)
	for i, stage := range stages {
		if stage.Index != i {
			return nil, fmt.Errorf("pipeline: stage %q has index %d, want %d", stage.Role, stage.Index, i)
		}
		if stage.Role == "" {
			return nil, fmt.Errorf("pipeline: stage %d has no role", i)
		}
		if len(stage.Sections) == 0 {
			return nil, fmt.Errorf("pipeline: stage %d (%s) maps to no sections", i, stage.Role)
		}
		switch stage.Gate {
		case GateAutoAdvance, GateRequiresContinue:
		default:
			return nil, fmt.Errorf("pipeline: stage %d (%s) has unknown gate policy %q", i, stage.Role, stage.Gate)
		}
		for _, path := range stage.Sections {
			if path == "" {
				return nil, fmt.Errorf("pipeline: stage %d (%s) has an empty section path", i, stage.Role)
			}
			if owner, dup := owners[path]; dup {
				return nil, fmt.Errorf("pipeline: section %q owned by both stage %d and stage %d", path, owner, i)
			}
			owners[path] = i
		}
	}
	copied := make([]Stage, len(stages))
	copy(copied, stages)
	return &Plan{stages: copied}, nil
}

// Stage returns the stage at index i.
func (p *Plan) Stage(i int) (Stage, bool) {
	if i < 0 || i >= len(p.stages) {
		return Stage{}, false
	}
	return p.stages[i], true
}

// Len returns the number of stages.
func (p *Plan) Len() int {
	return len(p.stages)
}

// LastIndex returns the index of the terminal stage.
func (p *Plan) LastIndex() int {
	return len(p.stages) - 1
}

// Stages returns a copy of the ordered stage list.
func (p *Plan) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// SectionPaths returns every section path in plan order.
func (p *Plan) SectionPaths() []string {
	var paths []string
	for _, stage := range p.stages {
		paths = append(paths, stage.Sections...)
	}
	return paths
}
