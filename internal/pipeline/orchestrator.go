package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ilhaam43/hr-copilot-sub001/internal/configs"
	"github.com/ilhaam43/hr-copilot-sub001/internal/entities"
	"github.com/ilhaam43/hr-copilot-sub001/internal/intents"
	"github.com/ilhaam43/hr-copilot-sub001/internal/llm"
	"github.com/ilhaam43/hr-copilot-sub001/internal/persistence"
	"github.com/ilhaam43/hr-copilot-sub001/internal/proclog"
	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
	"github.com/ilhaam43/hr-copilot-sub001/internal/sentiment"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/metrics"
	"github.com/ilhaam43/hr-copilot-sub001/internal/shared/telemetry"
	"github.com/ilhaam43/hr-copilot-sub001/internal/textproc"
)

// ErrEmptyText is the validation failure for empty or whitespace-only input.
var ErrEmptyText = errors.New("text is empty")

// Input is one analysis request.
type Input struct {
	Text       string
	SourceType string
	SourceID   string
}

// Capabilities reports which facets actually ran for a call, so callers can
// see degradation instead of guessing from empty fields.
type Capabilities struct {
	Preprocessing        bool `json:"preprocessing"`
	LanguageDetection    bool `json:"languageDetection"`
	Sentiment            bool `json:"sentiment"`
	EntityExtraction     bool `json:"entityExtraction"`
	IntentClassification bool `json:"intentClassification"`
	LLMEnhanced          bool `json:"llmEnhanced"`
}

// Outcome is one analysis plus its capability report.
type Outcome struct {
	Result       results.AnalysisResult
	Capabilities Capabilities
}

// Orchestrator composes the analyzers and the persistence layer into one
// analyze call. The LLM-backed variants of each analyzer are prebuilt; the
// active configuration picks per call whether they participate.
type Orchestrator struct {
	Configs *configs.Service
	Persist *persistence.Service
	Logger  *proclog.Logger
	Gateway *llm.Gateway

	sentimentBase *sentiment.Analyzer
	sentimentLLM  *sentiment.Analyzer
	entitiesBase  *entities.Chain
	entitiesLLM   *entities.Chain
	intentsBase   *intents.Classifier
	intentsLLM    *intents.Classifier

	Workers int
}

// NewOrchestrator wires the analyzer set. gateway may be permanently
// unavailable; the LLM variants then behave exactly like the base ones.
func NewOrchestrator(cfgSvc *configs.Service, persist *persistence.Service, logger *proclog.Logger, gateway *llm.Gateway, workers int) *Orchestrator {
	if workers <= 0 {
		workers = 4
	}
	return &Orchestrator{
		Configs: cfgSvc,
		Persist: persist,
		Logger:  logger,
		Gateway: gateway,

		sentimentBase: sentiment.NewAnalyzer(sentiment.LexiconScorer{}, sentiment.FrequencyScorer{}),
		sentimentLLM: sentiment.NewAnalyzer(
			sentiment.LexiconScorer{}, sentiment.FrequencyScorer{}, sentiment.LLMScorer{Gateway: gateway},
		),
		entitiesBase: entities.NewChain(
			entities.PatternExtractor{}, entities.LexicalTagger{}, entities.RuleExtractor{},
		),
		entitiesLLM: entities.NewChain(
			entities.PatternExtractor{}, entities.LexicalTagger{}, entities.RuleExtractor{},
			entities.LLMExtractor{Gateway: gateway},
		),
		intentsBase: intents.NewClassifier(nil, nil),
		intentsLLM:  intents.NewClassifier(nil, intents.GatewayClassifier{Gateway: gateway}),

		Workers: workers,
	}
}

// Analyze validates, runs the pipeline and persists the result. Oversized
// text is truncated and flagged, never rejected; empty text fails with
// ErrEmptyText and persists nothing. Analyzer failures degrade their facet
// only.
func (o *Orchestrator) Analyze(ctx context.Context, in Input) (Outcome, error) {
	metrics.IncAnalysisStarted()
	start := time.Now()

	outcome, err := o.run(ctx, in, start)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Outcome{}, err
	}

	saved, err := o.Persist.Save(ctx, outcome.Result)
	if err != nil {
		metrics.IncAnalysisFailed()
		return Outcome{}, fmt.Errorf("persist analysis: %w", err)
	}
	outcome.Result = saved

	o.finish(outcome, time.Since(start))
	return outcome, nil
}

// Probe runs the full pipeline on a canned input without persisting
// anything. Health checks use it to exercise every analyzer.
func (o *Orchestrator) Probe(ctx context.Context) (Outcome, error) {
	return o.run(ctx, Input{
		Text:       "Health check: the HR team responded quickly, thank you!",
		SourceType: results.SourceGeneral,
	}, time.Now())
}

// run executes the pipeline without persisting; the batch path uses it
// directly so it can bulk-insert.
func (o *Orchestrator) run(ctx context.Context, in Input, start time.Time) (Outcome, error) {
	if strings.TrimSpace(in.Text) == "" {
		return Outcome{}, ErrEmptyText
	}

	cfg := o.Configs.Active()

	text := in.Text
	truncated := false
	if cfg.MaxTextLength > 0 && len(text) > cfg.MaxTextLength {
		text = truncateUTF8(text, cfg.MaxTextLength)
		truncated = true
	}

	useLLM := cfg.EnableLLMEnhancement && o.Gateway != nil && o.Gateway.Available()
	caps := Capabilities{
		Preprocessing:        cfg.EnablePreprocessing,
		LanguageDetection:    true,
		Sentiment:            true,
		EntityExtraction:     cfg.EnableEntityExtraction,
		IntentClassification: cfg.EnableIntentClassification,
		LLMEnhanced:          useLLM,
	}

	processed := ""
	if cfg.EnablePreprocessing {
		processed = textproc.Preprocess(text, textproc.DefaultOptions())
	}

	language, langConfidence := textproc.DetectLanguage(text)

	sentimentAnalyzer := o.sentimentBase
	entityChain := o.entitiesBase
	intentClassifier := o.intentsBase
	if useLLM {
		sentimentAnalyzer = o.sentimentLLM
		entityChain = o.entitiesLLM
		intentClassifier = o.intentsLLM
	}

	// The three facets are independent; run them concurrently, each
	// isolated so a panic in one degrades that facet only.
	var (
		wg            sync.WaitGroup
		sentimentRes  sentiment.Result
		entityList    []results.Entity
		intentList    []results.Intent
		degradedCount int
		degradedMu    sync.Mutex
	)
	degrade := func(facet string, r any) {
		degradedMu.Lock()
		degradedCount++
		degradedMu.Unlock()
		telemetry.Error("pipeline.facet_panic", map[string]any{
			"facet": facet,
			"panic": fmt.Sprint(r),
		})
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				degrade("sentiment", r)
				sentimentRes = sentiment.Result{Label: results.SentimentNeutral}
			}
		}()
		sentimentRes = sentimentAnalyzer.Analyze(ctx, text, cfg.PositiveThreshold, cfg.NegativeThreshold)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				degrade("entities", r)
				entityList = nil
			}
		}()
		if cfg.EnableEntityExtraction {
			entityList = entityChain.Extract(ctx, text)
		}
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				degrade("intents", r)
				intentList = nil
			}
		}()
		if cfg.EnableIntentClassification {
			intentList = intentClassifier.Classify(ctx, text)
		}
	}()
	wg.Wait()

	if degradedCount > 0 {
		metrics.IncAnalysisDegraded()
	}

	readability := textproc.ReadabilityScore(text)
	result := results.AnalysisResult{
		TextContent:         text,
		ProcessedText:       processed,
		SourceType:          results.NormalizeSourceType(in.SourceType),
		SourceID:            in.SourceID,
		Language:            language,
		LanguageConfidence:  langConfidence,
		Sentiment:           sentimentRes.Label,
		SentimentScore:      sentimentRes.Score,
		SentimentConfidence: sentimentRes.Confidence,
		WordCount:           textproc.WordCount(text),
		SentenceCount:       textproc.SentenceCount(text),
		ReadabilityScore:    &readability,
		ProcessingTime:      time.Since(start).Seconds(),
		ConfigurationID:     cfg.ID,
		Truncated:           truncated,
		LLMEnhanced:         useLLM,
		Entities:            entityList,
		Intents:             intentList,
	}
	return Outcome{Result: result, Capabilities: caps}, nil
}

// truncateUTF8 cuts at max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	cut := s[:max]
	for len(cut) > 0 && !utf8.RuneStart(cut[len(cut)-1]) {
		cut = cut[:len(cut)-1]
	}
	if len(cut) > 0 {
		if r, _ := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError {
			cut = cut[:len(cut)-1]
		}
	}
	return cut
}

func (o *Orchestrator) finish(outcome Outcome, elapsed time.Duration) {
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))
	if o.Logger != nil {
		o.Logger.Info("analysis completed", outcome.Result.SourceType, outcome.Result.ID, map[string]any{
			"sentiment":  outcome.Result.Sentiment,
			"language":   outcome.Result.Language,
			"entities":   len(outcome.Result.Entities),
			"intents":    len(outcome.Result.Intents),
			"durationMs": elapsed.Milliseconds(),
		})
	}
}
