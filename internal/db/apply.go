// Package db provides database clients used to apply generated DDL.
package db

import (
	"context"
	"fmt"
)

// Execer executes a single SQL statement.
type Execer interface {
	Exec(ctx context.Context, stmt string) error
}

// Apply executes DDL statements in order, stopping at the first failure.
func Apply(ctx context.Context, e Execer, statements []string) error {
	for i, stmt := range statements {
		if err := e.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute statement %d: %w", i+1, err)
		}
	}
	return nil
}
