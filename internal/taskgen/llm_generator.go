package taskgen

import (
	"context"
	"fmt"

	"github.com/abhisek/clil/internal/llm"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/store"
)

// LLMGenerator implements Generator on top of an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	events   store.EventRepo
	log      *logger.Logger
}

// New creates a new LLMGenerator. events and log may be nil.
func New(provider llm.Provider, cfg Config, events store.EventRepo, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.Nop()
	}
	return &LLMGenerator{provider: provider, config: cfg, events: events, log: log}
}

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (Result, error) {
	req, err := req.Normalize()
	if err != nil {
		return Result{}, err
	}
	ctx = llm.WithPurpose(ctx, PurposeTaskSet)

	llmReq := g.request(BuildStructuredPrompt(req))
	if g.config.StructuredOutput {
		llmReq.Schema = TaskSetSchema
	}

	var res Result
	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		res = Result{
			Tasks:   FallbackTaskSet(req.Topic),
			Outcome: Fallback,
			Reason:  fmt.Sprintf("upstream: %v", err),
		}
	} else {
		res = Interpret(req.Topic, resp.Text)
	}

	if res.Outcome == Fallback {
		g.log.Warn("serving fallback tasks", "topic", req.Topic, "reason", res.Reason)
	}
	g.record(ctx, req, PurposeTaskSet, res.Outcome.String(), res.Reason)
	return res, nil
}

func (g *LLMGenerator) GenerateList(ctx context.Context, req Request) (TaskList, error) {
	req, err := req.Normalize()
	if err != nil {
		return TaskList{}, err
	}
	ctx = llm.WithPurpose(ctx, PurposeTaskList)

	resp, err := g.provider.Generate(ctx, g.request(BuildListPrompt(req)))
	if err != nil {
		g.record(ctx, req, PurposeTaskList, store.OutcomeFailed, err.Error())
		return TaskList{}, fmt.Errorf("generate task list: %w", err)
	}

	g.record(ctx, req, PurposeTaskList, store.OutcomeParsed, "")
	return NewTaskList(SplitTasks(resp.Text), g.config.PlaceholderAnswer), nil
}

func (g *LLMGenerator) request(prompt string) llm.Request {
	return llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
}

// record stores the generation outcome. Failures are logged, never
// surfaced; the client already has its answer.
func (g *LLMGenerator) record(ctx context.Context, req Request, variant, outcome, reason string) {
	if g.events == nil {
		return
	}
	err := g.events.AppendGeneration(context.WithoutCancel(ctx), store.GenerationEventData{
		Topic:   req.Topic,
		Subject: req.Subject,
		Level:   req.Level,
		Variant: variant,
		Outcome: outcome,
		Reason:  reason,
	})
	if err != nil {
		g.log.Warn("failed to record generation event", "error", err)
	}
}
