package triage

// defaultFlows are the guided test sequences per subsystem category.
var defaultFlows = map[string][]string{
	"starting": {
		"Check battery voltage at rest (≥12.4V). Is it ≥12.4V?",
		"Does the starter crank strongly (not just a click)?",
		"Scan for DTCs. Any P0335/P0340 crank/cam sensor or P03xx misfire?",
		"Fuel pressure at key-on within spec? (gauge or PID)",
	},
	"braking": {
		"Is brake fluid between MIN–MAX?",
		"Any visible leaks at calipers/lines/master?",
		"With engine running, does the pedal sink slowly under steady pressure?",
		"ABS light on? Pull codes from ABS module.",
	},
	"fluids": {
		"Any visible leaks after overnight parking?",
		"Is coolant at the 'COLD' mark on expansion tank?",
		"Oil level between MIN–MAX on dipstick?",
		"Any white/blue smoke from exhaust?",
	},
	"electrical": {
		"Battery voltage at rest (≥12.4V). Is it ≥12.4V?",
		"Alternator output at idle (13.8–14.6V). In range?",
		"Any blown fuses for the affected circuit?",
		"Wiggle-test the harness. Does the symptom change?",
	},
	"drivetrain": {
		"Any gearbox warning lights or DTCs?",
		"Fluid level/condition OK (not burnt/black)?",
		"Symptom change with engine load vs road speed?",
		"CV joints/propshaft play or noises on full lock?",
	},
	"hvac": {
		"Does blower run on all speeds?",
		"A/C clutch engages with A/C ON?",
		"Cabin pollen filter clean and seated?",
		"Any DTCs in HVAC/Body module?",
	},
	"generic": {
		"Scan all modules for DTCs + freeze-frame.",
		"Check fuses/relays related to the circuit.",
		"Visual inspection: damage/loose connectors?",
		"Reproduce symptom in a controlled test.",
	},
}

// maxFlowSteps keeps a plan short enough to hold in a chat exchange.
const maxFlowSteps = 4

// planDone is returned by Next once every step has been answered.
const planDone = "That completes this test path. We can re-triage with your results or try another subsystem."

// Answer is the recorded outcome of one plan step.
type Answer int

const (
	Unanswered Answer = iota
	Yes
	No
)

// Plan walks a user through one test flow step by step, recording yes/no
// answers as it goes.
type Plan struct {
	Category string   `json:"category"`
	Steps    []string `json:"steps"`
	Answers  []Answer `json:"answers"`
	Step     int      `json:"step"`
}

// NewPlan builds a plan for category, preferring seedTests when supplied.
// Unknown categories fall back to the generic flow.
func NewPlan(category string, seedTests []string) *Plan {
	if category == "" {
		category = "generic"
	}
	steps := seedTests
	if len(steps) == 0 {
		flow, ok := defaultFlows[category]
		if !ok {
			flow = defaultFlows["generic"]
		}
		steps = flow
	}
	if len(steps) > maxFlowSteps {
		steps = steps[:maxFlowSteps]
	}
	copied := make([]string, len(steps))
	copy(copied, steps)
	return &Plan{
		Category: category,
		Steps:    copied,
		Answers:  make([]Answer, len(copied)),
	}
}

// Next returns the current question. done is true once the plan is
// exhausted, in which case the question is a wrap-up message.
func (p *Plan) Next() (question string, done bool) {
	if p.Step >= len(p.Steps) {
		return planDone, true
	}
	return p.Steps[p.Step], false
}

// Record stores the answer for the current step and advances the plan.
// Recording past the end is a no-op.
func (p *Plan) Record(yes bool) {
	if p.Step < 0 || p.Step >= len(p.Steps) {
		return
	}
	if yes {
		p.Answers[p.Step] = Yes
	} else {
		p.Answers[p.Step] = No
	}
	p.Step++
}
