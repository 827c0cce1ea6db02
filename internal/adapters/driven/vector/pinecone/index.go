// Package pinecone provides a vector index adapter backed by the Pinecone
// serverless REST API. It talks to both planes: the control plane for
// index provisioning and the per-index data plane for vector operations.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultControlPlaneURL = "https://api.pinecone.io"
	DefaultIndexName       = "role-comparison-index"
	DefaultDimension       = 768
	DefaultMetric          = "cosine"
	DefaultCloud           = "aws"
	DefaultRegion          = "us-east-1"
	DefaultTimeout         = 30 * time.Second
	DefaultReadyTimeout    = 2 * time.Minute
	DefaultPollInterval    = time.Second
)

// apiVersion pins the REST API revision both planes are called with.
const apiVersion = "2025-01"

// upsertBatchSize caps vectors per upsert request. The API rejects
// oversized batches, so large documents are written in slices.
const upsertBatchSize = 100

// Config holds configuration for the Pinecone index adapter.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the index to provision and use (default: role-comparison-index).
	IndexName string

	// Dimension is the vector size the index is created with (default: 768).
	Dimension int

	// Metric is the similarity metric the index is created with (default: cosine).
	Metric string

	// Cloud and Region select the serverless deployment target
	// (default: aws / us-east-1).
	Cloud  string
	Region string

	// ControlPlaneURL is the provisioning endpoint (default: https://api.pinecone.io).
	ControlPlaneURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// ReadyTimeout bounds how long EnsureReady waits for a fresh index
	// to report ready (default: 2m).
	ReadyTimeout time.Duration

	// PollInterval is the readiness polling cadence (default: 1s).
	PollInterval time.Duration
}

// Index is a Pinecone-backed vector index.
type Index struct {
	client       *http.Client
	controlURL   string
	apiKey       string
	name         string
	dimension    int
	metric       string
	cloud        string
	region       string
	readyTimeout time.Duration
	pollInterval time.Duration

	mu   sync.Mutex
	host string // data plane base URL, cached once the index is ready
}

// indexModel is the control-plane description of an index.
type indexModel struct {
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Metric    string      `json:"metric"`
	Host      string      `json:"host"`
	Status    indexStatus `json:"status"`
}

// indexStatus reports provisioning progress.
type indexStatus struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
}

// createIndexRequest is the control-plane create payload.
type createIndexRequest struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	Spec      indexSpec `json:"spec"`
}

// indexSpec selects the serverless deployment shape.
type indexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

// serverlessSpec names the cloud and region the index lives in.
type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

// vector is the data-plane record format.
type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata recordMetadata `json:"metadata"`
}

// recordMetadata mirrors domain.RecordMetadata on the wire. ChunkIndex is
// a float64 because Pinecone stores all metadata numbers that way.
type recordMetadata struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex float64 `json:"chunk_index"`
	Content    string  `json:"content"`
}

// upsertRequest is the data-plane upsert payload.
type upsertRequest struct {
	Vectors []vector `json:"vectors"`
}

// upsertResponse reports how many vectors were written.
type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// queryRequest is the data-plane similarity search payload.
type queryRequest struct {
	Vector          []float32           `json:"vector"`
	TopK            int                 `json:"topK"`
	IncludeMetadata bool                `json:"includeMetadata"`
	Filter          map[string]eqFilter `json:"filter,omitempty"`
}

// eqFilter is the equality metadata filter clause.
type eqFilter struct {
	Eq string `json:"$eq"`
}

// queryResponse carries the ranked matches.
type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// queryMatch is one similarity hit.
type queryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata recordMetadata `json:"metadata"`
}

// deleteRequest is the data-plane delete payload. Exactly one of Filter
// and DeleteAll is set.
type deleteRequest struct {
	Filter    map[string]eqFilter `json:"filter,omitempty"`
	DeleteAll bool                `json:"deleteAll,omitempty"`
}

// NewIndex creates a new Pinecone index adapter.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.Metric == "" {
		cfg.Metric = DefaultMetric
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.ControlPlaneURL == "" {
		cfg.ControlPlaneURL = DefaultControlPlaneURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout == 0 {
		cfg.ReadyTimeout = DefaultReadyTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &Index{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		controlURL:   strings.TrimSuffix(cfg.ControlPlaneURL, "/"),
		apiKey:       cfg.APIKey,
		name:         cfg.IndexName,
		dimension:    cfg.Dimension,
		metric:       cfg.Metric,
		cloud:        cfg.Cloud,
		region:       cfg.Region,
		readyTimeout: cfg.ReadyTimeout,
		pollInterval: cfg.PollInterval,
	}, nil
}

// EnsureReady creates the index when it does not exist and waits until it
// reports ready. Once an index has been seen ready its data-plane host is
// cached and later calls return immediately.
func (x *Index) EnsureReady(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.host != "" {
		return nil
	}

	model, err := x.describeIndex(ctx)
	if err != nil {
		return fmt.Errorf("%w: describe index %q: %w", domain.ErrIndexProvisioning, x.name, err)
	}
	if model == nil {
		if err := x.createIndex(ctx); err != nil {
			return fmt.Errorf("%w: create index %q: %w", domain.ErrIndexProvisioning, x.name, err)
		}
	}

	deadline := time.Now().Add(x.readyTimeout)
	for {
		model, err = x.describeIndex(ctx)
		if err != nil {
			return fmt.Errorf("%w: describe index %q: %w", domain.ErrIndexProvisioning, x.name, err)
		}
		if model != nil && model.Status.Ready {
			x.host = model.Host
			return nil
		}

		state := "missing"
		if model != nil {
			state = model.Status.State
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: index %q still %s after %s", domain.ErrReadyTimeout, x.name, state, x.readyTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(x.pollInterval):
		}
	}
}

// Upsert writes the records in batches and returns how many landed.
func (x *Index) Upsert(ctx context.Context, records []domain.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	host, err := x.dataHost(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[start:end]
		reqBody := upsertRequest{Vectors: make([]vector, len(batch))}
		for i, rec := range batch {
			reqBody.Vectors[i] = vector{
				ID:     rec.ID,
				Values: rec.Values,
				Metadata: recordMetadata{
					DocumentID: rec.Metadata.DocumentID,
					ChunkIndex: float64(rec.Metadata.ChunkIndex),
					Content:    rec.Metadata.Content,
				},
			}
		}

		var upserted upsertResponse
		if _, err := x.do(ctx, http.MethodPost, host+"/vectors/upsert", reqBody, &upserted); err != nil {
			return total, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		total += upserted.UpsertedCount
	}

	return total, nil
}

// Query returns the topK nearest records, optionally restricted by a
// metadata equality filter.
func (x *Index) Query(ctx context.Context, vec []float32, topK int, filter map[string]string) ([]domain.QueryMatch, error) {
	host, err := x.dataHost(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := queryRequest{
		Vector:          vec,
		TopK:            topK,
		IncludeMetadata: true,
		Filter:          toEqFilter(filter),
	}

	var result queryResponse
	if _, err := x.do(ctx, http.MethodPost, host+"/query", reqBody, &result); err != nil {
		return nil, fmt.Errorf("query index %q: %w", x.name, err)
	}

	matches := make([]domain.QueryMatch, len(result.Matches))
	for i, m := range result.Matches {
		matches[i] = domain.QueryMatch{
			ID:    m.ID,
			Score: m.Score,
			Metadata: domain.RecordMetadata{
				DocumentID: m.Metadata.DocumentID,
				ChunkIndex: int(m.Metadata.ChunkIndex),
				Content:    m.Metadata.Content,
			},
		}
	}
	return matches, nil
}

// Delete removes every record matching the metadata filter. An index or
// namespace the backend reports missing deletes successfully.
func (x *Index) Delete(ctx context.Context, filter map[string]string) error {
	host, err := x.dataHost(ctx)
	if err != nil {
		return err
	}

	reqBody := deleteRequest{Filter: toEqFilter(filter)}
	status, err := x.do(ctx, http.MethodPost, host+"/vectors/delete", reqBody, nil)
	if status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete from index %q: %w", x.name, err)
	}
	return nil
}

// DeleteAll removes every record in the index.
func (x *Index) DeleteAll(ctx context.Context) error {
	host, err := x.dataHost(ctx)
	if err != nil {
		return err
	}

	reqBody := deleteRequest{DeleteAll: true}
	status, err := x.do(ctx, http.MethodPost, host+"/vectors/delete", reqBody, nil)
	if status == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete all from index %q: %w", x.name, err)
	}
	return nil
}

// Name returns the index name.
func (x *Index) Name() string {
	return x.name
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// describeIndex fetches the index description. A missing index returns
// (nil, nil) so callers can distinguish absence from failure.
func (x *Index) describeIndex(ctx context.Context) (*indexModel, error) {
	var model indexModel
	status, err := x.do(ctx, http.MethodGet, x.controlURL+"/indexes/"+x.name, nil, &model)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

// createIndex provisions a serverless index.
func (x *Index) createIndex(ctx context.Context) error {
	reqBody := createIndexRequest{
		Name:      x.name,
		Dimension: x.dimension,
		Metric:    x.metric,
		Spec: indexSpec{
			Serverless: serverlessSpec{
				Cloud:  x.cloud,
				Region: x.region,
			},
		},
	}
	_, err := x.do(ctx, http.MethodPost, x.controlURL+"/indexes", reqBody, nil)
	return err
}

// dataHost returns the data-plane base URL, provisioning the index first
// if this adapter has not seen it ready yet.
func (x *Index) dataHost(ctx context.Context) (string, error) {
	x.mu.Lock()
	host := x.host
	x.mu.Unlock()

	if host == "" {
		if err := x.EnsureReady(ctx); err != nil {
			return "", err
		}
		x.mu.Lock()
		host = x.host
		x.mu.Unlock()
	}
	return hostURL(host), nil
}

// do sends one JSON request and decodes the response into out when given.
// The HTTP status is returned alongside any error so callers can map
// not-found responses to idempotent no-ops.
func (x *Index) do(ctx context.Context, method, url string, in, out any) (int, error) {
	var body io.Reader = http.NoBody
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", x.apiKey)
	req.Header.Set("X-Pinecone-Api-Version", apiVersion)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("pinecone error (status %d): %s", resp.StatusCode, apiMessage(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// toEqFilter translates simple key/value pairs into the API's equality
// filter clauses. A nil or empty input stays nil so the field is omitted.
func toEqFilter(filter map[string]string) map[string]eqFilter {
	if len(filter) == 0 {
		return nil
	}
	out := make(map[string]eqFilter, len(filter))
	for k, v := range filter {
		out[k] = eqFilter{Eq: v}
	}
	return out
}

// apiMessage pulls a human-readable message out of either plane's error
// envelope, falling back to the raw body.
func apiMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return string(body)
}

// hostURL turns the describe response's host into a base URL. Pinecone
// returns bare hosts; an explicit scheme is kept as-is.
func hostURL(host string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
