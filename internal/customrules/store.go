package customrules

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"feedcheck/internal/models"
)

// Store loads user-defined rules from Postgres. Rules are edited out of band
// (merchant dashboard); this service only reads them.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to Postgres and ensures the custom_rules table exists.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open custom rules database: %w", err)
	}

	createSQL := `
	CREATE TABLE IF NOT EXISTS custom_rules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		field TEXT NOT NULL,
		rule_type TEXT NOT NULL,
		min_length INT NOT NULL DEFAULT 0,
		max_length INT NOT NULL DEFAULT 0,
		pattern TEXT NOT NULL DEFAULT '',
		words TEXT NOT NULL DEFAULT '',
		priority INT NOT NULL DEFAULT 0,
		enabled BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);
	`
	if _, err := db.Exec(createSQL); err != nil {
		return nil, fmt.Errorf("failed to create custom_rules table: %w", err)
	}

	return &Store{db: db}, nil
}

// LoadEnabled returns the enabled rules ordered by priority.
func (s *Store) LoadEnabled(ctx context.Context) ([]models.CustomRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, field, rule_type, min_length, max_length, pattern, words, priority, enabled
		 FROM custom_rules
		 WHERE enabled = true
		 ORDER BY priority ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom rules: %w", err)
	}
	defer rows.Close()

	var rules []models.CustomRule
	for rows.Next() {
		var rule models.CustomRule
		var words string
		if err := rows.Scan(&rule.ID, &rule.Field, &rule.Type, &rule.MinLength,
			&rule.MaxLength, &rule.Pattern, &words, &rule.Priority, &rule.Enabled); err != nil {
			return nil, fmt.Errorf("failed to scan custom rule: %w", err)
		}
		if words != "" {
			rule.Words = strings.Split(words, ",")
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read custom rules: %w", err)
	}

	return rules, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
