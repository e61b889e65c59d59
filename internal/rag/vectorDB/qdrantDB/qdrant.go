package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rgia/raglab/internal/config"
	"github.com/rgia/raglab/internal/domain/ragModel"
	"github.com/rgia/raglab/pkg/logger_i"
)

// payload keys and the prefix under which open-ended document metadata is
// flattened into the point payload
const (
	payloadText       = "text"
	payloadSourcePath = "source_path"
	payloadHash       = "content_hash"
	metaPrefix        = "meta_"
)

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

func NewClient(cfg config.Config) (*ClientHolder, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}
	return &ClientHolder{
		qObj:   client,
		logger: logger_i.NewLogger("Qdrant"),
	}, nil
}

func (db *ClientHolder) Close() error {
	return db.qObj.Close()
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, name string, dim uint64) error {
	if name == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.qObj.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", name, err)
	}
	if exists {
		return nil
	}

	db.logger.Info("Collection does not exist, creating it", "collection", name, "dim", dim)
	err = db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		// a concurrent ensure can beat us to the create; that outcome is fine
		if s, ok := status.FromError(err); ok && s.Code() == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("creating collection %q: %w", name, err)
	}
	return nil
}

func (db *ClientHolder) Upsert(ctx context.Context, collection string, points []ragModel.Point) error {
	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		payload := map[string]any{
			payloadText:       p.Text,
			payloadSourcePath: p.Metadata.SourcePath,
			payloadHash:       p.ContentHash,
		}
		for k, v := range p.Metadata.Extra {
			payload[metaPrefix+k] = v
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	// Wait makes the write visible to searches before we report success
	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, collection string, vector []float32, limit uint64) ([]ragModel.SearchResult, error) {
	hits, err := db.qObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if s, ok := status.FromError(err); ok && s.Code() == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ragModel.ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	results := make([]ragModel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		meta := ragModel.Metadata{
			SourcePath: hit.Payload[payloadSourcePath].GetStringValue(),
		}
		for k, v := range hit.Payload {
			if strings.HasPrefix(k, metaPrefix) {
				if meta.Extra == nil {
					meta.Extra = make(map[string]string)
				}
				meta.Extra[strings.TrimPrefix(k, metaPrefix)] = v.GetStringValue()
			}
		}
		results = append(results, ragModel.SearchResult{
			Text:     hit.Payload[payloadText].GetStringValue(),
			Metadata: meta,
			Score:    hit.Score,
		})
	}
	return results, nil
}
