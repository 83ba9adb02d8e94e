package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/ilhaam43/hr-copilot-sub001/internal/results"
)

var (
	// ErrNotFound means the document does not exist in the store.
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable means the store could not be reached; callers fall
	// back to the relational store.
	ErrUnavailable = errors.New("document store unavailable")
)

// Document is the analytics/search projection of one analysis result. The
// relational id travels with it as a cross-reference.
type Document struct {
	RelationalID        string          `firestore:"relationalId"`
	TextContent         string          `firestore:"textContent"`
	ProcessedText       string          `firestore:"processedText"`
	SourceType          string          `firestore:"sourceType"`
	SourceID            string          `firestore:"sourceId"`
	Language            string          `firestore:"language"`
	LanguageConfidence  float64         `firestore:"languageConfidence"`
	Sentiment           string          `firestore:"sentiment"`
	SentimentScore      float64         `firestore:"sentimentScore"`
	SentimentConfidence float64         `firestore:"sentimentConfidence"`
	WordCount           int             `firestore:"wordCount"`
	SentenceCount       int             `firestore:"sentenceCount"`
	ProcessingTime      float64         `firestore:"processingTime"`
	ConfigurationID     string          `firestore:"configurationId"`
	Truncated           bool            `firestore:"truncated"`
	LLMEnhanced         bool            `firestore:"llmEnhanced"`
	Entities            []DocumentChild `firestore:"entities"`
	Intents             []DocumentChild `firestore:"intents"`
	CreatedAt           time.Time       `firestore:"createdAt"`
}

// DocumentChild flattens entities and intents for search queries.
type DocumentChild struct {
	Text       string  `firestore:"text,omitempty"`
	Type       string  `firestore:"type"`
	Start      int     `firestore:"start,omitempty"`
	End        int     `firestore:"end,omitempty"`
	Confidence float64 `firestore:"confidence"`
}

// Store is the document-side half of the hybrid persistence layer.
type Store interface {
	Put(ctx context.Context, doc Document) error
	// PutBatch mirrors one bulk insert; the returned slice is index-aligned
	// with docs, nil entries meaning success.
	PutBatch(ctx context.Context, docs []Document) []error
	Get(ctx context.Context, relationalID string) (Document, error)
	List(ctx context.Context, sourceType string, limit int) ([]Document, error)
	Delete(ctx context.Context, relationalID string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
	Ping(ctx context.Context) error
}

// FromResult builds the document projection of a result.
func FromResult(r results.AnalysisResult) Document {
	doc := Document{
		RelationalID:        r.ID,
		TextContent:         r.TextContent,
		ProcessedText:       r.ProcessedText,
		SourceType:          r.SourceType,
		SourceID:            r.SourceID,
		Language:            r.Language,
		LanguageConfidence:  r.LanguageConfidence,
		Sentiment:           r.Sentiment,
		SentimentScore:      r.SentimentScore,
		SentimentConfidence: r.SentimentConfidence,
		WordCount:           r.WordCount,
		SentenceCount:       r.SentenceCount,
		ProcessingTime:      r.ProcessingTime,
		ConfigurationID:     r.ConfigurationID,
		Truncated:           r.Truncated,
		LLMEnhanced:         r.LLMEnhanced,
		CreatedAt:           r.CreatedAt,
	}
	for _, e := range r.Entities {
		doc.Entities = append(doc.Entities, DocumentChild{
			Text:       e.Text,
			Type:       string(e.Type),
			Start:      e.StartPosition,
			End:        e.EndPosition,
			Confidence: e.Confidence,
		})
	}
	for _, in := range r.Intents {
		doc.Intents = append(doc.Intents, DocumentChild{
			Type:       in.Type,
			Confidence: in.Confidence,
		})
	}
	return doc
}

// ToResult rebuilds a result from its document projection for the
// document-first read path.
func (d Document) ToResult() results.AnalysisResult {
	r := results.AnalysisResult{
		ID:                  d.RelationalID,
		TextContent:         d.TextContent,
		ProcessedText:       d.ProcessedText,
		SourceType:          d.SourceType,
		SourceID:            d.SourceID,
		Language:            d.Language,
		LanguageConfidence:  d.LanguageConfidence,
		Sentiment:           d.Sentiment,
		SentimentScore:      d.SentimentScore,
		SentimentConfidence: d.SentimentConfidence,
		WordCount:           d.WordCount,
		SentenceCount:       d.SentenceCount,
		ProcessingTime:      d.ProcessingTime,
		ConfigurationID:     d.ConfigurationID,
		Truncated:           d.Truncated,
		LLMEnhanced:         d.LLMEnhanced,
		SyncStatus:          results.SyncSynced,
		CreatedAt:           d.CreatedAt,
	}
	for _, e := range d.Entities {
		r.Entities = append(r.Entities, results.Entity{
			Text:          e.Text,
			Type:          results.EntityType(e.Type),
			StartPosition: e.Start,
			EndPosition:   e.End,
			Confidence:    e.Confidence,
		})
	}
	for _, in := range d.Intents {
		r.Intents = append(r.Intents, results.Intent{
			Type:       in.Type,
			Confidence: in.Confidence,
		})
	}
	return r
}
