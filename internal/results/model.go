package results

import (
	"fmt"
	"time"
)

// Sentiment labels assigned by the analyzer under the active thresholds.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	// SentimentMixed is reserved for multi-signal disagreement and is never
	// derived automatically from the score.
	SentimentMixed = "mixed"
)

// Source types accepted for incoming text.
const (
	SourceFeedback = "feedback"
	SourceTicket   = "ticket"
	SourceNote     = "note"
	SourceGeneral  = "general"
	SourceBatch    = "batch"
)

// Document-store sync states for one result.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncFailed  = "sync_failed"
)

// EntityType is the closed vocabulary for extracted entities.
type EntityType string

const (
	EntityPerson     EntityType = "PERSON"
	EntityOrg        EntityType = "ORG"
	EntityGPE        EntityType = "GPE"
	EntityDate       EntityType = "DATE"
	EntityTime       EntityType = "TIME"
	EntityMoney      EntityType = "MONEY"
	EntityPercent    EntityType = "PERCENT"
	EntityEmail      EntityType = "EMAIL"
	EntityPhone      EntityType = "PHONE"
	EntitySkill      EntityType = "SKILL"
	EntityDepartment EntityType = "DEPARTMENT"
	EntityJobTitle   EntityType = "JOB_TITLE"
	EntityEmployeeID EntityType = "EMPLOYEE_ID"
	EntityOther      EntityType = "OTHER"
)

var validEntityTypes = map[EntityType]struct{}{
	EntityPerson: {}, EntityOrg: {}, EntityGPE: {}, EntityDate: {},
	EntityTime: {}, EntityMoney: {}, EntityPercent: {}, EntityEmail: {},
	EntityPhone: {}, EntitySkill: {}, EntityDepartment: {}, EntityJobTitle: {},
	EntityEmployeeID: {}, EntityOther: {},
}

// NormalizeEntityType maps unknown tags to OTHER rather than storing raw passthrough.
func NormalizeEntityType(t EntityType) EntityType {
	if _, ok := validEntityTypes[t]; ok {
		return t
	}
	return EntityOther
}

// Entity is one extracted named entity, owned by its result.
type Entity struct {
	ID            string     `json:"id,omitempty"`
	Text          string     `json:"text"`
	Type          EntityType `json:"type"`
	StartPosition int        `json:"startPosition"`
	EndPosition   int        `json:"endPosition"`
	Confidence    float64    `json:"confidence"`
}

// Validate enforces the span and confidence invariants against the owning text.
func (e Entity) Validate(textLen int) error {
	if e.StartPosition < 0 || e.StartPosition >= e.EndPosition || e.EndPosition > textLen {
		return fmt.Errorf("entity span [%d,%d) out of range for text length %d", e.StartPosition, e.EndPosition, textLen)
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return fmt.Errorf("entity confidence %v out of range [0,1]", e.Confidence)
	}
	if _, ok := validEntityTypes[e.Type]; !ok {
		return fmt.Errorf("unknown entity type %q", e.Type)
	}
	return nil
}

// Intent is one classified intent, owned by its result.
type Intent struct {
	ID         string  `json:"id,omitempty"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// AnalysisResult is one text analysis outcome, the unit persisted by the
// hybrid store. Entities and intents are created and deleted with it.
type AnalysisResult struct {
	ID                  string         `json:"id"`
	TextContent         string         `json:"textContent"`
	ProcessedText       string         `json:"processedText"`
	SourceType          string         `json:"sourceType"`
	SourceID            string         `json:"sourceId"`
	Language            string         `json:"language"`
	LanguageConfidence  float64        `json:"languageConfidence"`
	Sentiment           string         `json:"sentiment"`
	SentimentScore      float64        `json:"sentimentScore"`
	SentimentConfidence float64        `json:"sentimentConfidence"`
	WordCount           int            `json:"wordCount"`
	SentenceCount       int            `json:"sentenceCount"`
	ReadabilityScore    *float64       `json:"readabilityScore,omitempty"`
	ProcessingTime      float64        `json:"processingTime"`
	ConfigurationID     string         `json:"configurationId,omitempty"`
	Truncated           bool           `json:"truncated"`
	LLMEnhanced         bool           `json:"llmEnhanced"`
	SyncStatus          string         `json:"syncStatus,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	Entities            []Entity       `json:"entities"`
	Intents             []Intent       `json:"intents"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// Validate enforces the write-time invariants on the result and its children.
func (r AnalysisResult) Validate() error {
	if r.SentimentScore < -1 || r.SentimentScore > 1 {
		return fmt.Errorf("sentiment score %v out of range [-1,1]", r.SentimentScore)
	}
	if r.SentimentConfidence < 0 || r.SentimentConfidence > 1 {
		return fmt.Errorf("sentiment confidence %v out of range [0,1]", r.SentimentConfidence)
	}
	if r.LanguageConfidence < 0 || r.LanguageConfidence > 1 {
		return fmt.Errorf("language confidence %v out of range [0,1]", r.LanguageConfidence)
	}
	switch r.Sentiment {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
	default:
		return fmt.Errorf("unknown sentiment label %q", r.Sentiment)
	}
	textLen := len(r.TextContent)
	for _, e := range r.Entities {
		if err := e.Validate(textLen); err != nil {
			return err
		}
	}
	for i, in := range r.Intents {
		if in.Confidence < 0 || in.Confidence > 1 {
			return fmt.Errorf("intent confidence %v out of range [0,1]", in.Confidence)
		}
		if i > 0 && r.Intents[i-1].Confidence < in.Confidence {
			return fmt.Errorf("intents not sorted by descending confidence")
		}
	}
	return nil
}

// NormalizeSourceType coerces unknown source types to general.
func NormalizeSourceType(raw string) string {
	switch raw {
	case SourceFeedback, SourceTicket, SourceNote, SourceGeneral, SourceBatch:
		return raw
	default:
		return SourceGeneral
	}
}
