package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type QdrantClient struct {
	conn       *grpc.ClientConn
	collection string
	vectorSize uint64
	client     pb.CollectionsClient
	points     pb.PointsClient
}

// NewQdrantClient dials the gRPC endpoint. The connection is lazy: nothing is sent until
// the first call.
func NewQdrantClient(host string, port int, collection string, vectorSize uint64) (*QdrantClient, error) {
	addr := fmt.Sprintf("%s:%d", host, port)

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s: %w", addr, err)
	}

	return &QdrantClient{
		conn:       conn,
		collection: collection,
		vectorSize: vectorSize,
		client:     pb.NewCollectionsClient(conn),
		points:     pb.NewPointsClient(conn),
	}, nil
}

func (q *QdrantClient) Close() {
	if q.conn != nil {
		_ = q.conn.Close()
	}
}

// InitCollection creates the knowledge collection when it does not exist yet.
func (q *QdrantClient) InitCollection(ctx context.Context) error {
	// 1. already there
	exists, err := q.client.Get(ctx, &pb.GetCollectionInfoRequest{
		CollectionName: q.collection,
	})
	if err == nil && exists != nil {
		slog.Info("qdrant collection exists", "collection", q.collection)
		return nil
	}

	// 2. create it
	slog.Info("creating qdrant collection", "collection", q.collection, "dim", q.vectorSize)
	_, err = q.client.Create(ctx, &pb.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     q.vectorSize,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}
