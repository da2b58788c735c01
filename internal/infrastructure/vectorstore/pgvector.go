package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/flavorgraph/sous-chef/internal/domain/search"
	"github.com/flavorgraph/sous-chef/internal/ports/outbound"
	apperrors "github.com/flavorgraph/sous-chef/pkg/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgvectorStore implements outbound.VectorStoreClient using PostgreSQL with
// the pgvector extension, one table per fixed collection.
type PgvectorStore struct {
	pool       *pgxpool.Pool
	dimensions int
	logger     *zap.Logger
}

// NewPgvectorStore connects to connURL and provisions the eight fixed
// collection tables if they don't already exist.
func NewPgvectorStore(ctx context.Context, connURL string, dimensions int, logger *zap.Logger) (*PgvectorStore, error) {
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		return nil, fmt.Errorf("pgvector connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector ping: %w", err)
	}

	s := &PgvectorStore{pool: pool, dimensions: dimensions, logger: logger.Named("pgvector-store")}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgvector migrate: %w", err)
	}

	s.logger.Info("pgvector store initialized", zap.Int("dims", dimensions), zap.Int("collections", len(search.Names)))
	return s, nil
}

func tableName(collection string) string {
	return "recipe_vectors_" + strings.ReplaceAll(collection, "-", "_")
}

func (s *PgvectorStore) migrate(ctx context.Context) error {
	var sb strings.Builder
	sb.WriteString("CREATE EXTENSION IF NOT EXISTS vector;\n")
	for _, collection := range search.Names {
		table := tableName(collection)
		sb.WriteString(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				recipe_id           TEXT PRIMARY KEY,
				title               TEXT NOT NULL DEFAULT '',
				summary             TEXT NOT NULL DEFAULT '',
				ingredients_preview TEXT[] NOT NULL DEFAULT '{}',
				confidence          DOUBLE PRECISION NOT NULL DEFAULT 0,
				embedding           vector(%[2]d) NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_%[1]s_cosine ON %[1]s
				USING hnsw (embedding vector_cosine_ops);
		`, table, s.dimensions))
	}
	_, err := s.pool.Exec(ctx, sb.String())
	return err
}

// Upsert inserts or replaces one recipe's embedding within collection.
func (s *PgvectorStore) Upsert(ctx context.Context, collection, recipeID, title, summary string, ingredientsPreview []string, confidence float64, embedding []float32) error {
	if !search.IsValid(collection) {
		return apperrors.NewCollectionMissingError(collection)
	}
	table := tableName(collection)
	query := fmt.Sprintf(`
		INSERT INTO %s (recipe_id, title, summary, ingredients_preview, confidence, embedding)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (recipe_id) DO UPDATE SET
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			ingredients_preview = EXCLUDED.ingredients_preview,
			confidence = EXCLUDED.confidence,
			embedding = EXCLUDED.embedding
	`, table)
	_, err := s.pool.Exec(ctx, query, recipeID, title, summary, ingredientsPreview, confidence, pgvectorLiteral(embedding))
	return err
}

// Search returns up to k nearest neighbors of queryVector within collection
// by cosine distance, ordered descending by similarity (spec §4.2).
func (s *PgvectorStore) Search(ctx context.Context, collection string, queryVector []float32, k int) ([]outbound.VectorSearchResult, error) {
	if !search.IsValid(collection) {
		return nil, apperrors.NewCollectionMissingError(collection)
	}
	exists, err := s.CollectionExists(ctx, collection)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewCollectionMissingError(collection)
	}

	return retrySearch(ctx, collection, func() ([]outbound.VectorSearchResult, error) {
		return s.search(ctx, collection, queryVector, k)
	})
}

func (s *PgvectorStore) search(ctx context.Context, collection string, queryVector []float32, k int) ([]outbound.VectorSearchResult, error) {
	table := tableName(collection)
	query := fmt.Sprintf(`
		SELECT recipe_id, title, summary, ingredients_preview, confidence,
			1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, table)

	rows, err := s.pool.Query(ctx, query, pgvectorLiteral(queryVector), k)
	if err != nil {
		return nil, fmt.Errorf("pgvector search: %w", err)
	}
	defer rows.Close()

	var results []outbound.VectorSearchResult
	for rows.Next() {
		var r outbound.VectorSearchResult
		if err := rows.Scan(&r.RecipeID, &r.Title, &r.Summary, &r.IngredientsPreview, &r.Confidence, &r.Score); err != nil {
			return nil, fmt.Errorf("pgvector scan: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// CollectionExists reports whether collection is one of the fixed eight and
// its table has been provisioned.
func (s *PgvectorStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	if !search.IsValid(collection) {
		return false, nil
	}
	var exists bool
	err := s.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", tableName(collection)).Scan(&exists)
	return exists, err
}

// CollectionSize returns the row count for collection's table.
func (s *PgvectorStore) CollectionSize(ctx context.Context, collection string) (int, error) {
	if !search.IsValid(collection) {
		return 0, apperrors.NewCollectionMissingError(collection)
	}
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName(collection))
	err := s.pool.QueryRow(ctx, query).Scan(&count)
	return count, err
}

// HealthCheck pings the connection pool.
func (s *PgvectorStore) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool (fx OnStop hook, spec §4.8).
func (s *PgvectorStore) Close() {
	s.pool.Close()
}

// pgvectorLiteral renders a float32 vector in pgvector's text input format:
// [1,2,3].
func pgvectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%g", f)
	}
	sb.WriteByte(']')
	return sb.String()
}
