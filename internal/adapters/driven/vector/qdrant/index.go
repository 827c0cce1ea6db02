// Package qdrant provides a vector index adapter backed by a Qdrant
// instance reached over gRPC. Collections map to indexes; record
// metadata is stored as point payload fields.
package qdrant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultAddr         = "localhost:6334"
	DefaultReadyTimeout = 30 * time.Second
	DefaultPollInterval = time.Second
)

// payloadID is the payload field carrying the original record ID.
// Qdrant point IDs must be UUIDs or integers, so the record ID string
// is mapped to a derived UUID and kept verbatim in the payload.
const payloadID = "id"

// Config holds configuration for the Qdrant index adapter.
type Config struct {
	// Addr is the gRPC endpoint (default: localhost:6334).
	Addr string

	// CollectionName is the collection to provision and use.
	CollectionName string

	// Dimension is the vector size the collection is created with.
	Dimension int

	// Metric is the similarity metric the collection is created with.
	Metric domain.DistanceMetric

	// ReadyTimeout bounds how long EnsureReady waits for the collection
	// to report green status (default: 30s).
	ReadyTimeout time.Duration

	// PollInterval is the readiness polling cadence (default: 1s).
	PollInterval time.Duration
}

// Index is a Qdrant-backed vector index.
type Index struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient

	name         string
	dimension    int
	distance     qdrantclient.Distance
	readyTimeout time.Duration
	pollInterval time.Duration

	mu    sync.Mutex
	ready bool
}

// New connects to Qdrant and returns an index over the configured
// collection. The collection itself is provisioned lazily by EnsureReady.
func New(cfg Config) (*Index, error) {
	if cfg.CollectionName == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidConfig)
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrInvalidConfig, cfg.Dimension)
	}

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	readyTimeout := cfg.ReadyTimeout
	if readyTimeout <= 0 {
		readyTimeout = DefaultReadyTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s: %w", addr, err)
	}

	return &Index{
		conn:         conn,
		collections:  qdrantclient.NewCollectionsClient(conn),
		points:       qdrantclient.NewPointsClient(conn),
		name:         cfg.CollectionName,
		dimension:    cfg.Dimension,
		distance:     toDistance(cfg.Metric),
		readyTimeout: readyTimeout,
		pollInterval: pollInterval,
	}, nil
}

// EnsureReady creates the collection if it does not exist and polls until
// Qdrant reports green status, bounded by the ready timeout.
func (i *Index) EnsureReady(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ready {
		return nil
	}

	exists, err := i.collectionExists(ctx)
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", domain.ErrIndexProvisioning, err)
	}

	if !exists {
		logger.Info("Creating qdrant collection %q (dim %d)", i.name, i.dimension)
		_, err := i.collections.Create(ctx, &qdrantclient.CreateCollection{
			CollectionName: i.name,
			VectorsConfig: &qdrantclient.VectorsConfig{
				Config: &qdrantclient.VectorsConfig_Params{
					Params: &qdrantclient.VectorParams{
						Size:     uint64(i.dimension),
						Distance: i.distance,
					},
				},
			},
		})
		if err != nil && status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("%w: create collection %q: %w", domain.ErrIndexProvisioning, i.name, err)
		}
	}

	if err := i.waitReady(ctx); err != nil {
		return err
	}

	i.ready = true
	return nil
}

// waitReady polls collection status until it is green or the budget runs
// out. Caller holds the mutex.
func (i *Index) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(i.readyTimeout)
	for {
		info, err := i.collections.Get(ctx, &qdrantclient.GetCollectionInfoRequest{
			CollectionName: i.name,
		})
		if err != nil {
			return fmt.Errorf("%w: describe collection %q: %w", domain.ErrIndexProvisioning, i.name, err)
		}
		if info.GetResult().GetStatus() == qdrantclient.CollectionStatus_Green {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: collection %q after %s", domain.ErrReadyTimeout, i.name, i.readyTimeout)
		}
		logger.Debug("Collection %q not ready, polling", i.name)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(i.pollInterval):
		}
	}
}

// Upsert writes the records as points in one request. The record ID is
// mapped to a UUID point ID and kept in the payload for round-tripping.
func (i *Index) Upsert(ctx context.Context, records []domain.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	points := make([]*qdrantclient.PointStruct, 0, len(records))
	for _, r := range records {
		points = append(points, &qdrantclient.PointStruct{
			Id: pointID(r.ID),
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: r.Values},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				payloadID:             stringValue(r.ID),
				domain.MetaDocumentID: stringValue(r.Metadata.DocumentID),
				domain.MetaChunkIndex: intValue(r.Metadata.ChunkIndex),
				domain.MetaContent:    stringValue(r.Metadata.Content),
			},
		})
	}

	wait := true
	_, err := i.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: i.name,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return len(points), nil
}

// Query searches the collection and maps scored points back to matches.
// A missing collection yields an empty result, not an error.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, filter map[string]string) ([]domain.QueryMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	resp, err := i.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: i.name,
		Vector:         vector,
		Limit:          uint64(topK),
		Filter:         toFilter(filter),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("search collection %q: %w", i.name, err)
	}

	matches := make([]domain.QueryMatch, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		payload := point.GetPayload()
		matches = append(matches, domain.QueryMatch{
			ID:    payload[payloadID].GetStringValue(),
			Score: float64(point.GetScore()),
			Metadata: domain.RecordMetadata{
				DocumentID: payload[domain.MetaDocumentID].GetStringValue(),
				ChunkIndex: int(payload[domain.MetaChunkIndex].GetIntegerValue()),
				Content:    payload[domain.MetaContent].GetStringValue(),
			},
		})
	}
	return matches, nil
}

// Delete removes every point whose payload contains all the filter
// pairs. A missing collection is a successful no-op.
func (i *Index) Delete(ctx context.Context, filter map[string]string) error {
	wait := true
	_, err := i.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: i.name,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: toFilter(filter),
			},
		},
		Wait: &wait,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			logger.Debug("Collection %q absent, nothing to delete", i.name)
			return nil
		}
		return fmt.Errorf("delete from collection %q: %w", i.name, err)
	}
	return nil
}

// DeleteAll removes every point in the collection. An empty filter
// matches everything.
func (i *Index) DeleteAll(ctx context.Context) error {
	return i.Delete(ctx, nil)
}

// Name returns the collection name.
func (i *Index) Name() string {
	return i.name
}

// Close tears down the gRPC connection.
func (i *Index) Close() error {
	return i.conn.Close()
}

// collectionExists checks for the collection by name.
func (i *Index) collectionExists(ctx context.Context) (bool, error) {
	resp, err := i.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return false, err
	}
	for _, col := range resp.GetCollections() {
		if col.GetName() == i.name {
			return true, nil
		}
	}
	return false, nil
}

// pointID derives a stable UUID point ID from the record's string ID.
func pointID(id string) *qdrantclient.PointId {
	derived := uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: derived.String()},
	}
}

// toFilter builds a must-match-all payload filter. Nil input produces an
// empty filter, which matches every point.
func toFilter(filter map[string]string) *qdrantclient.Filter {
	if len(filter) == 0 {
		return &qdrantclient.Filter{}
	}

	conditions := make([]*qdrantclient.Condition, 0, len(filter))
	for key, value := range filter {
		conditions = append(conditions, &qdrantclient.Condition{
			ConditionOneOf: &qdrantclient.Condition_Field{
				Field: &qdrantclient.FieldCondition{
					Key: key,
					Match: &qdrantclient.Match{
						MatchValue: &qdrantclient.Match_Keyword{Keyword: value},
					},
				},
			},
		})
	}
	return &qdrantclient.Filter{Must: conditions}
}

// toDistance maps the domain metric onto Qdrant's distance enum.
func toDistance(metric domain.DistanceMetric) qdrantclient.Distance {
	switch metric {
	case domain.MetricDotProduct:
		return qdrantclient.Distance_Dot
	case domain.MetricEuclidean:
		return qdrantclient.Distance_Euclid
	default:
		return qdrantclient.Distance_Cosine
	}
}

func stringValue(s string) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: s}}
}

func intValue(n int) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(n)}}
}
