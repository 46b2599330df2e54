package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/willyosu/willybot/willybot/logger"
)

// Table describes one physical table. Attributes is the whitelist of
// mutable columns. Only the key and whitelisted columns ever reach a
// statement.
type Table struct {
	Name       string
	Entity     string
	Key        string
	NameColumn string
	Attributes []string
}

func (t Table) key() string {
	if t.Key == "" {
		return "id"
	}
	return t.Key
}

// Has reports whether attr is a writable column of the table.
func (t Table) Has(attr string) bool {
	for _, a := range t.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// check rejects any attribute outside the whitelist.
func (t Table) check(attrs ...string) error {
	for _, a := range attrs {
		if !t.Has(a) {
			return &NotFoundError{Entity: t.Entity, Key: "attribute", ID: a}
		}
	}
	return nil
}

// checkLookup is check, with the primary key also accepted.
func (t Table) checkLookup(attrs ...string) error {
	for _, a := range attrs {
		if a != t.key() && !t.Has(a) {
			return &NotFoundError{Entity: t.Entity, Key: "attribute", ID: a}
		}
	}
	return nil
}

// Gateway issues every statement against the store. Each call is a single
// auto-committed statement. Statements run under the caller's context and
// carry no deadline of their own.
type Gateway struct {
	db *bun.DB
}

func NewGateway(db *bun.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) DB() *bun.DB {
	return g.db
}

func (g *Gateway) run(ctx context.Context, operation string, t Table, id any, fn func(context.Context) error) error {
	start := time.Now()
	err := translate(operation, t.Entity, id, fn(ctx))
	logged := err
	if IsNotFound(err) {
		logged = nil
	}
	logger.LogQuery(operation, t.Name, time.Since(start), logged)
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Create inserts one row.
func (g *Gateway) Create(ctx context.Context, t Table, attrs []string, values []any) error {
	if len(attrs) == 0 || len(attrs) != len(values) {
		return NewValidationError("values", "%d attributes for %d values", len(attrs), len(values))
	}
	if err := t.checkLookup(attrs...); err != nil {
		return err
	}

	args := make([]any, 0, 1+2*len(attrs))
	args = append(args, bun.Ident(t.Name))
	for _, a := range attrs {
		args = append(args, bun.Ident(a))
	}
	args = append(args, values...)
	query := "INSERT INTO ? (" + placeholders(len(attrs)) + ") VALUES (" + placeholders(len(values)) + ")"

	return g.run(ctx, "create", t, nil, func(ctx context.Context) error {
		_, err := g.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Get fetches the row whose key column equals id. An empty key means the
// table's primary key.
func (g *Gateway) Get(ctx context.Context, t Table, dest any, id any, key string) error {
	if key == "" {
		key = t.key()
	}
	if err := t.checkLookup(key); err != nil {
		return err
	}
	return g.run(ctx, "get", t, id, func(ctx context.Context) error {
		return g.db.NewSelect().
			Model(dest).
			Where("? = ?", bun.Ident(key), id).
			Limit(1).
			Scan(ctx)
	})
}

// GetSpecific fetches one row matching every attrs[i] = values[i].
func (g *Gateway) GetSpecific(ctx context.Context, t Table, dest any, attrs []string, values []any) error {
	if len(attrs) == 0 || len(attrs) != len(values) {
		return NewValidationError("values", "%d attributes for %d values", len(attrs), len(values))
	}
	if err := t.checkLookup(attrs...); err != nil {
		return err
	}
	return g.run(ctx, "get_specific", t, values, func(ctx context.Context) error {
		q := g.db.NewSelect().Model(dest)
		for i, a := range attrs {
			q = q.Where("? = ?", bun.Ident(a), values[i])
		}
		return q.OrderExpr("? ASC", bun.Ident(t.key())).Limit(1).Scan(ctx)
	})
}

// Search resolves an identifier to a single row. Numeric identifiers match
// the key exactly. Names match case-insensitively, either exactly (strict) or
// as a substring. Several matches resolve to the one with the lowest key.
func (g *Gateway) Search(ctx context.Context, t Table, dest any, ident Identifier, strict bool) error {
	q := g.db.NewSelect().Model(dest)
	switch {
	case ident.IsID():
		q = q.Where("? = ?", bun.Ident(t.key()), ident.ID())
	case t.NameColumn == "":
		return &NotFoundError{Entity: t.Entity, Key: "name", ID: ident.Name()}
	case strict:
		q = q.Where("LOWER(?) = LOWER(?)", bun.Ident(t.NameColumn), ident.Name())
	default:
		pattern := "%" + escapeLike(strings.ToLower(ident.Name())) + "%"
		q = q.Where("LOWER(?) LIKE ? ESCAPE '!'", bun.Ident(t.NameColumn), pattern)
	}

	return g.run(ctx, "search", t, ident.String(), func(ctx context.Context) error {
		return q.OrderExpr("? ASC", bun.Ident(t.key())).Limit(1).Scan(ctx)
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// Update sets one whitelisted column on the row whose key equals id.
func (g *Gateway) Update(ctx context.Context, t Table, attr string, id, value any) error {
	if err := t.check(attr); err != nil {
		return err
	}
	key := t.key()
	return g.run(ctx, "update", t, id, func(ctx context.Context) error {
		res, err := g.db.ExecContext(ctx, "UPDATE ? SET ? = ? WHERE ? = ?",
			bun.Ident(t.Name), bun.Ident(attr), value, bun.Ident(key), id)
		return requireRows(res, err)
	})
}

// Increment adds delta to a numeric column in a single statement.
func (g *Gateway) Increment(ctx context.Context, t Table, attr string, id any, delta int64) error {
	if err := t.check(attr); err != nil {
		return err
	}
	return g.run(ctx, "increment", t, id, func(ctx context.Context) error {
		res, err := g.db.ExecContext(ctx, "UPDATE ? SET ? = ? + ? WHERE ? = ?",
			bun.Ident(t.Name), bun.Ident(attr), bun.Ident(attr), delta, bun.Ident(t.key()), id)
		return requireRows(res, err)
	})
}

func requireRows(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the row with the given primary key and reports how many
// rows went away.
func (g *Gateway) Delete(ctx context.Context, t Table, id any) (int64, error) {
	return g.DeleteSpecific(ctx, t, []string{t.key()}, []any{id})
}

// DeleteSpecific removes every row matching attrs[i] = values[i].
func (g *Gateway) DeleteSpecific(ctx context.Context, t Table, attrs []string, values []any) (int64, error) {
	if len(attrs) == 0 || len(attrs) != len(values) {
		return 0, NewValidationError("values", "%d attributes for %d values", len(attrs), len(values))
	}
	if err := t.checkLookup(attrs...); err != nil {
		return 0, err
	}

	conds := make([]string, len(attrs))
	args := []any{bun.Ident(t.Name)}
	for i, a := range attrs {
		conds[i] = "? = ?"
		args = append(args, bun.Ident(a), values[i])
	}
	query := "DELETE FROM ? WHERE " + strings.Join(conds, " AND ")

	var affected int64
	err := g.run(ctx, "delete", t, values, func(ctx context.Context) error {
		res, err := g.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

// Count returns the number of rows, or of distinct values of key.
func (g *Gateway) Count(ctx context.Context, t Table, key string, distinct bool) (int64, error) {
	if key == "" {
		key = t.key()
	}
	if err := t.checkLookup(key); err != nil {
		return 0, err
	}
	expr := "SELECT COUNT(?) FROM ?"
	if distinct {
		expr = "SELECT COUNT(DISTINCT ?) FROM ?"
	}

	var n int64
	err := g.run(ctx, "count", t, nil, func(ctx context.Context) error {
		return g.db.NewRaw(expr, bun.Ident(key), bun.Ident(t.Name)).Scan(ctx, &n)
	})
	return n, err
}

// Query runs a read-only statement built by a repository and scans the
// result into dest.
func (g *Gateway) Query(ctx context.Context, operation string, t Table, dest any, query string, args ...any) error {
	return g.run(ctx, operation, t, nil, func(ctx context.Context) error {
		return g.db.NewRaw(query, args...).Scan(ctx, dest)
	})
}

// Exec runs a write statement built by a repository and returns the number
// of affected rows.
func (g *Gateway) Exec(ctx context.Context, operation string, t Table, query string, args ...any) (int64, error) {
	var affected int64
	err := g.run(ctx, operation, t, nil, func(ctx context.Context) error {
		res, err := g.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}
