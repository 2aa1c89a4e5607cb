package builtin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/smilemakc/flowcore/pkg/skill"
)

// DatabaseOperator executes a configured SQL statement against a Postgres
// DSN using bun/pgdialect/pgdriver. Without a configured DSN it returns a
// stub result set, since the core's non-goal is durable persistence of
// workflows/executions, not what a database skill does as its declared
// job (SPEC_FULL.md §6). Grounded on the teacher's root go.mod Postgres
// stack — this is the one skill in the library allowed to touch Postgres.
type DatabaseOperator struct {
	skill.BaseSkill
}

func NewDatabaseOperator() *DatabaseOperator { return &DatabaseOperator{} }

func (s *DatabaseOperator) Definition() skill.Definition {
	return skill.Definition{
		ID:          "database_operator",
		Name:        "Database Operator",
		Description: "Executes a SQL statement against a configured Postgres database.",
		Category:    skill.CategoryIntegration,
		Parameters: []skill.Parameter{
			{Name: "query", Type: "string", Required: true, Description: "SQL statement to execute"},
			{Name: "dsn", Type: "string", Required: false, Description: "Postgres DSN; a stub result is returned when absent"},
		},
		Outputs: []skill.Output{
			{Name: "rows", Type: "array"},
			{Name: "row_count", Type: "number"},
		},
		TimeoutSeconds: 30,
		Icon:           "database",
		Color:          "#0f766e",
	}
}

func (s *DatabaseOperator) ValidateInputs(inputs map[string]any) []string {
	return skill.ValidateRequired(s.Definition(), inputs)
}

func (s *DatabaseOperator) Execute(ctx context.Context, ic *skill.InvocationContext) skill.Result {
	start := time.Now()
	query, _ := s.GetString(ic.Inputs, "query")
	if query == "" {
		r := skill.Failed(errors.New(`missing required parameter "query"`))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	dsn, hasDSN := s.GetString(ic.Inputs, "dsn")
	if !hasDSN || dsn == "" {
		res := skill.Succeeded(map[string]any{"rows": []any{}, "row_count": 0}, "no dsn configured, stub result")
		res.DurationMs = time.Since(start).Milliseconds()
		return res
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	defer sqldb.Close()
	db := bun.NewDB(sqldb, pgdialect.New())

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		r := skill.Failed(fmt.Errorf("query failed: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		r := skill.Failed(fmt.Errorf("failed to read columns: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	var out []any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			r := skill.Failed(fmt.Errorf("failed to scan row: %w", err))
			r.DurationMs = time.Since(start).Milliseconds()
			return r
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r := skill.Failed(fmt.Errorf("row iteration failed: %w", err))
		r.DurationMs = time.Since(start).Milliseconds()
		return r
	}

	res := skill.Succeeded(map[string]any{"rows": out, "row_count": len(out)}, fmt.Sprintf("query returned %d row(s)", len(out)))
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}
