package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/metrics"
)

const mongoTimeout = 2 * time.Second

// MetricsRepo keeps one document per (maze, algorithm) aggregate.
type MetricsRepo struct {
	collection *mongo.Collection
}

var _ metrics.Store = (*MetricsRepo)(nil)

type metricsDocument struct {
	ID        string                   `bson:"_id"`
	Maze      string                   `bson:"maze"`
	Algorithm game.Algorithm           `bson:"algorithm"`
	Metrics   metrics.AlgorithmMetrics `bson:"metrics"`
	UpdatedAt time.Time                `bson:"updatedAt"`
}

// NewMetricsRepo creates a new MetricsRepo with the given MongoDB client, database name, and collection name.
func NewMetricsRepo(client *mongo.Client, dbName, collectionName string) *MetricsRepo {
	return &MetricsRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// Load reads every aggregate.
func (r *MetricsRepo) Load(ctx context.Context) (metrics.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("finding metrics: %w", err)
	}

	var docs []metricsDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding metrics: %w", err)
	}

	table := make(metrics.Table)
	for _, d := range docs {
		if table[d.Maze] == nil {
			table[d.Maze] = make(map[game.Algorithm]metrics.AlgorithmMetrics)
		}
		table[d.Maze][d.Algorithm] = d.Metrics
	}
	return table, nil
}

// Save upserts every aggregate of t in one bulk write.
func (r *MetricsRepo) Save(ctx context.Context, t metrics.Table) error {
	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	now := time.Now()
	var models []mongo.WriteModel
	for maze, byAlgo := range t {
		for algo, m := range byAlgo {
			doc := metricsDocument{
				ID:        documentID(maze, algo),
				Maze:      maze,
				Algorithm: algo,
				Metrics:   m,
				UpdatedAt: now,
			}
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": doc.ID}).
				SetReplacement(doc).
				SetUpsert(true))
		}
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("saving metrics: %w", err)
	}
	return nil
}

func documentID(maze string, algo game.Algorithm) string {
	return maze + "/" + string(algo)
}
