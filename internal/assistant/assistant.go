// Package assistant orchestrates a diagnostic conversation: trouble-code
// decoding, the structured fault matcher, corpus retrieval, and the
// generative fallback, in that order of authority.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Basiic0110/Obdly/internal/chatlog"
	"github.com/Basiic0110/Obdly/internal/faults"
	"github.com/Basiic0110/Obdly/internal/index"
	"github.com/Basiic0110/Obdly/internal/insights"
	"github.com/Basiic0110/Obdly/internal/llm"
	"github.com/Basiic0110/Obdly/internal/obd"
	"github.com/Basiic0110/Obdly/internal/repair"
	"github.com/Basiic0110/Obdly/internal/triage"
	"github.com/Basiic0110/Obdly/internal/vehicle"
)

// Answer sources, most authoritative first.
const (
	SourceFaultDB = "fault_db"
	SourceLLM     = "llm"
	SourceLocal   = "local"
)

// Reply is the assistant's answer to one user message.
type Reply struct {
	Text       string             `json:"text"`
	Source     string             `json:"source"`
	Confidence int                `json:"confidence,omitempty"`
	CostUSD    float64            `json:"cost_usd,omitempty"`
	Match      *faults.Result     `json:"-"`
	Codes      []obd.Entry        `json:"codes,omitempty"`
	Candidates []triage.Candidate `json:"candidates,omitempty"`
	Plan       *triage.Plan       `json:"plan,omitempty"`
	Guide      *repair.Guide      `json:"guide,omitempty"`
}

// Assistant wires the diagnostic pipeline together.
type Assistant struct {
	provider llm.Provider
	model    string
	index    *index.Index
	table    faults.Table
	matcher  *faults.Matcher
	codes    *obd.DB
	log      *chatlog.Store
	insights *insights.Store
	topK     int
}

// Options configures New. Provider and Log may be nil: without a provider
// the assistant answers from local data only; without a log nothing is
// persisted.
type Options struct {
	Provider llm.Provider
	Model    string
	Index    *index.Index
	Table    faults.Table
	Matcher  *faults.Matcher
	Codes    *obd.DB
	Log      *chatlog.Store
	Insights *insights.Store
	TopK     int
}

// New creates an assistant from the given options.
func New(opts Options) *Assistant {
	if opts.Matcher == nil {
		opts.Matcher = faults.NewMatcher(0)
	}
	if opts.Codes == nil {
		opts.Codes = obd.NewDB(nil)
	}
	if opts.TopK < 1 {
		opts.TopK = 5
	}
	return &Assistant{
		provider: opts.Provider,
		model:    opts.Model,
		index:    opts.Index,
		table:    opts.Table,
		matcher:  opts.Matcher,
		codes:    opts.Codes,
		log:      opts.Log,
		insights: opts.Insights,
		topK:     opts.TopK,
	}
}

// Answer handles one user message. veh may be nil when no plate has been
// looked up. Answer never fails outright: provider errors degrade to a
// local answer.
func (a *Assistant) Answer(ctx context.Context, sessionID, query string, veh *vehicle.Record) *Reply {
	a.logTurn(ctx, sessionID, "user", query, nil)

	reply := a.answer(ctx, query, veh)

	meta := map[string]any{
		"source":     reply.Source,
		"confidence": reply.Confidence,
	}
	if reply.CostUSD > 0 {
		meta["cost_usd"] = reply.CostUSD
	}
	a.logTurn(ctx, sessionID, "assistant", reply.Text, meta)
	return reply
}

func (a *Assistant) answer(ctx context.Context, query string, veh *vehicle.Record) *Reply {
	reply := &Reply{}

	// Trouble codes first: explicit codes are the strongest signal the
	// user can give us.
	vehMake, vehModel := "", ""
	if veh != nil {
		vehMake, vehModel = veh.Make, veh.Model
	}
	for _, code := range obd.FindCodes(query) {
		entry := a.codes.Decode(code, vehMake, vehModel)
		entry.Description = obd.FilterForMake(entry.Description, vehMake)
		reply.Codes = append(reply.Codes, entry)
	}

	// Structured fault match against the curated table.
	if a.table != nil {
		rows, err := a.table.Rows()
		if err != nil {
			log.Printf("assistant: fault table unavailable: %v", err)
		} else if m := a.matcher.Match(query, rows); m.Matched {
			reply.Match = &m
			reply.Confidence = m.Confidence
		}
	}

	// Corpus retrieval for grounding context.
	var chunks []index.DocChunk
	if a.index != nil {
		chunks = a.index.Retrieve(ctx, retrievalQuery(query, veh), a.topK)
	}

	// A confident database hit answers directly; the generative layer is
	// only consulted for phrasing when available.
	if reply.Match != nil {
		reply.Source = SourceFaultDB
		reply.Text = renderMatch(reply.Match)
		if text, err := a.generate(ctx, query, veh, reply, chunks); err == nil {
			reply.Text = text
		}
		return reply
	}

	text, err := a.generate(ctx, query, veh, reply, chunks)
	if err != nil {
		log.Printf("assistant: falling back to local answer: %v", err)
		reply.Source = SourceLocal
		reply.Text = localAnswer(query, reply, chunks)
		return reply
	}
	reply.Source = SourceLLM
	reply.Text = text
	return reply
}

// Diagnose runs the non-conversational pipeline: ranked candidates, a
// guided test plan, and a DIY guide built from the best lead.
func (a *Assistant) Diagnose(ctx context.Context, symptoms string, veh *vehicle.Record) *Reply {
	vehMake, vehModel, vehYear := "", "", ""
	if veh != nil {
		vehMake, vehModel = veh.Make, veh.Model
		if veh.YearOfManufacture > 0 {
			vehYear = fmt.Sprintf("%d", veh.YearOfManufacture)
		}
	}

	reply := &Reply{Source: SourceLocal}
	if a.index != nil {
		reply.Candidates = triage.Rank(ctx, a.index, symptoms, vehMake, vehModel, vehYear)
	}
	reply.Plan = triage.NewPlan(triage.Category(symptoms), nil)
	for _, code := range obd.FindCodes(symptoms) {
		reply.Codes = append(reply.Codes, a.codes.Decode(code, vehMake, vehModel))
	}

	if a.table != nil {
		if rows, err := a.table.Rows(); err == nil {
			if m := a.matcher.Match(symptoms, rows); m.Matched {
				reply.Match = &m
				reply.Confidence = m.Confidence
				guide := repair.BuildGuide(m.Row.Fault, m.Row.SuggestedFix)
				reply.Guide = &guide
			}
		}
	}

	reply.Text = localAnswer(symptoms, reply, nil)
	return reply
}

// communityBlock loads approved community fixes for the vehicle as prompt
// context. Errors degrade to no block.
func (a *Assistant) communityBlock(ctx context.Context, veh *vehicle.Record) string {
	if a.insights == nil || veh == nil {
		return ""
	}
	subs, err := a.insights.ApprovedFor(ctx, veh.Make, veh.Model, 3)
	if err != nil {
		log.Printf("assistant: loading community insights: %v", err)
		return ""
	}
	return insights.PromptBlock(subs)
}

func (a *Assistant) generate(ctx context.Context, query string, veh *vehicle.Record, reply *Reply, chunks []index.DocChunk) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no provider configured")
	}
	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Model: a.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: buildPrompt(query, veh, reply, chunks, a.communityBlock(ctx, veh))},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}
	model := resp.Model
	if model == "" {
		model = a.model
	}
	reply.CostUSD = llm.EstimateCost(model, resp.InputTokens, resp.OutputTokens)
	return resp.Content, nil
}

func (a *Assistant) logTurn(ctx context.Context, sessionID, role, content string, meta map[string]any) {
	if a.log == nil || sessionID == "" {
		return
	}
	metadata := ""
	if meta != nil {
		if b, err := json.Marshal(meta); err == nil {
			metadata = string(b)
		}
	}
	err := a.log.Append(ctx, chatlog.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
	})
	if err != nil {
		log.Printf("assistant: logging chat turn: %v", err)
	}
}
