package docstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const resultsCollection = "analysis_results"

// FirestoreStore keeps the analytics projection in a Firestore collection,
// keyed by the relational id.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects using FIREBASE_CREDENTIALS (base64 service
// account JSON) when set, falling back to application-default credentials
// for the given project.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	var opts []option.ClientOption
	if encoded := os.Getenv("FIREBASE_CREDENTIALS"); encoded != "" {
		creds, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode firebase credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) Put(ctx context.Context, doc Document) error {
	_, err := s.client.Collection(resultsCollection).Doc(doc.RelationalID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// PutBatch mirrors a bulk insert through a BulkWriter. Failures are
// reported per document, index-aligned with the input.
func (s *FirestoreStore) PutBatch(ctx context.Context, docs []Document) []error {
	errs := make([]error, len(docs))
	bw := s.client.BulkWriter(ctx)

	jobs := make([]*firestore.BulkWriterJob, len(docs))
	for i, doc := range docs {
		job, err := bw.Set(s.client.Collection(resultsCollection).Doc(doc.RelationalID), doc)
		if err != nil {
			errs[i] = fmt.Errorf("%w: %v", ErrUnavailable, err)
			continue
		}
		jobs[i] = job
	}
	bw.End()

	for i, job := range jobs {
		if job == nil {
			continue
		}
		if _, err := job.Results(); err != nil {
			errs[i] = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return errs
}

func (s *FirestoreStore) Get(ctx context.Context, relationalID string) (Document, error) {
	snap, err := s.client.Collection(resultsCollection).Doc(relationalID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var doc Document
	if err := snap.DataTo(&doc); err != nil {
		return Document{}, fmt.Errorf("decode document %s: %w", relationalID, err)
	}
	return doc, nil
}

func (s *FirestoreStore) List(ctx context.Context, sourceType string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	q := s.client.Collection(resultsCollection).Query
	if sourceType != "" {
		q = q.Where("sourceType", "==", sourceType)
	}
	q = q.OrderBy("createdAt", firestore.Desc).Limit(limit)

	var out []Document
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		var doc Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, relationalID string) error {
	_, err := s.client.Collection(resultsCollection).Doc(relationalID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// DeleteOlderThan removes documents past the retention cutoff and reports
// how many were deleted.
func (s *FirestoreStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	iter := s.client.Collection(resultsCollection).
		Where("createdAt", "<", cutoff).
		Documents(ctx)
	defer iter.Stop()

	deleted := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return deleted, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		deleted++
	}
	return deleted, nil
}

// Ping runs a one-document query to verify connectivity.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	iter := s.client.Collection(resultsCollection).Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
