// Package pgvector backs memory.VectorStore with Postgres and the pgvector
// extension. The contract analyzer keeps its legal reference chunks here.
package pgvector

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/forgeai/agent-cookbook/memory"
)

// Store reads and writes one pgvector-backed table. Expected schema:
//
//	CREATE EXTENSION IF NOT EXISTS vector;
//	CREATE TABLE IF NOT EXISTS documents (
//	  id text PRIMARY KEY,
//	  content text NOT NULL,
//	  embedding vector(1536),
//	  meta jsonb
//	);
type Store struct {
	conn  *pgx.Conn
	table string
}

// New wraps an open connection. An empty table name means "documents".
func New(conn *pgx.Conn, table string) *Store {
	if table == "" {
		table = "documents"
	}
	return &Store{conn: conn, table: table}
}

// AddDocument upserts a chunk by id.
func (s *Store) AddDocument(ctx context.Context, id string, content string, embedding []float64) error {
	if len(embedding) == 0 {
		return errors.New("empty embedding")
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (id, content, embedding) VALUES ($1,$2,$3) "+
			"ON CONFLICT (id) DO UPDATE SET content=excluded.content, embedding=excluded.embedding",
		s.table)
	_, err := s.conn.Exec(ctx, q, id, content, embedding)
	return err
}

// QuerySimilar returns the limit nearest chunks by inner product distance,
// nearest first. Score carries the raw distance.
func (s *Store) QuerySimilar(ctx context.Context, queryEmbedding []float64, limit int) ([]memory.Document, error) {
	if limit <= 0 {
		limit = 5
	}
	q := fmt.Sprintf(
		"SELECT id, content, embedding <#> $1 AS score FROM %s ORDER BY embedding <#> $1 ASC LIMIT $2",
		s.table)
	rows, err := s.conn.Query(ctx, q, queryEmbedding, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]memory.Document, 0, limit)
	for rows.Next() {
		var doc memory.Document
		if err := rows.Scan(&doc.ID, &doc.Content, &doc.Score); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.conn.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", s.table), id)
	return err
}

func (s *Store) GetDocument(ctx context.Context, id string) (*memory.Document, error) {
	row := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT id, content FROM %s WHERE id=$1", s.table), id)
	var doc memory.Document
	if err := row.Scan(&doc.ID, &doc.Content); err != nil {
		return nil, err
	}
	return &doc, nil
}

var _ memory.VectorStore = (*Store)(nil)
