// Copyright 2026 The cedar-java Authors
// SPDX-License-Identifier: Apache-2.0

package policystore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/felixzheng98/cedar-java/lib/clock"
	"github.com/felixzheng98/cedar-java/lib/sqlitepool"
)

const schema = `
CREATE TABLE IF NOT EXISTS policies (
	digest    TEXT PRIMARY KEY,
	policy_id TEXT NOT NULL,
	document  TEXT NOT NULL,
	position  INTEGER NOT NULL,
	source    TEXT NOT NULL,
	stored_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS policies_by_document ON policies (document, position);
`

// Config holds the parameters for opening a Store.
type Config struct {
	// Path is the SQLite database file. Required.
	Path string

	// PoolSize is passed to sqlitepool. Zero selects its default.
	PoolSize int

	// Logger receives store messages. Nil discards them.
	Logger *slog.Logger

	// Clock stamps stored records. Nil uses the real clock.
	Clock clock.Clock
}

// Policy is one normalized policy to store.
type Policy struct {
	ID     string
	Source string
}

// Record is a stored policy.
type Record struct {
	Digest   Digest
	ID       string
	Document string
	Position int
	Source   string
	StoredAt time.Time
}

// Store persists normalized policies keyed by digest. The first
// document to store a given source owns its record; later stores of
// the same source leave the record unchanged.
type Store struct {
	pool   *sqlitepool.Pool
	logger *slog.Logger
	clock  clock.Clock
}

// Open opens or creates the store database.
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	storeClock := cfg.Clock
	if storeClock == nil {
		storeClock = clock.Real()
	}
	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: cfg.PoolSize,
		Logger:   logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("policystore: %w", err)
	}
	return &Store{pool: pool, logger: logger, clock: storeClock}, nil
}

// Close closes the underlying pool, waiting for borrowed connections.
func (s *Store) Close() error {
	return s.pool.Close()
}

// PutSet stores the policies of one document in a single IMMEDIATE
// transaction and returns their digests in input order.
func (s *Store) PutSet(ctx context.Context, document string, policies []Policy) (digests []Digest, err error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("policystore: put %s: %w", document, err)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return nil, fmt.Errorf("policystore: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	storedAt := s.clock.Now().UnixNano()
	digests = make([]Digest, 0, len(policies))
	inserted := 0
	for position, policy := range policies {
		digest := DigestSource(policy.Source)
		err = sqlitex.Execute(conn, `
			INSERT INTO policies (digest, policy_id, document, position, source, stored_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (digest) DO NOTHING`, &sqlitex.ExecOptions{
			Args: []any{digest.String(), policy.ID, document, position, policy.Source, storedAt},
		})
		if err != nil {
			return nil, fmt.Errorf("policystore: insert %s: %w", policy.ID, err)
		}
		inserted += conn.Changes()
		digests = append(digests, digest)
	}

	s.logger.Debug("policy set stored",
		"document", document,
		"policies", len(policies),
		"inserted", inserted,
	)
	return digests, nil
}

// Get returns the record for digest. The boolean is false when no
// policy with that digest is stored.
func (s *Store) Get(ctx context.Context, digest Digest) (Record, bool, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return Record{}, false, fmt.Errorf("policystore: get %s: %w", digest, err)
	}
	defer s.pool.Put(conn)

	var record Record
	found := false
	err = sqlitex.Execute(conn, `
		SELECT policy_id, document, position, source, stored_at
		FROM policies WHERE digest = ?`, &sqlitex.ExecOptions{
		Args: []any{digest.String()},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			record = scanRecord(digest, stmt)
			found = true
			return nil
		},
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("policystore: get %s: %w", digest, err)
	}
	return record, found, nil
}

// List returns the records owned by document, in document order.
func (s *Store) List(ctx context.Context, document string) ([]Record, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("policystore: list %s: %w", document, err)
	}
	defer s.pool.Put(conn)

	var records []Record
	err = sqlitex.Execute(conn, `
		SELECT policy_id, document, position, source, stored_at, digest
		FROM policies WHERE document = ? ORDER BY position`, &sqlitex.ExecOptions{
		Args: []any{document},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			digest, err := ParseDigest(stmt.ColumnText(5))
			if err != nil {
				return err
			}
			records = append(records, scanRecord(digest, stmt))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("policystore: list %s: %w", document, err)
	}
	return records, nil
}

// scanRecord reads the leading policy_id, document, position, source,
// stored_at columns.
func scanRecord(digest Digest, stmt *sqlite.Stmt) Record {
	return Record{
		Digest:   digest,
		ID:       stmt.ColumnText(0),
		Document: stmt.ColumnText(1),
		Position: int(stmt.ColumnInt64(2)),
		Source:   stmt.ColumnText(3),
		StoredAt: time.Unix(0, stmt.ColumnInt64(4)).UTC(),
	}
}
