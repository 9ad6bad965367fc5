package storage

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/sleepdiary/internal"
)

const notifyChannel = "realtime_nodes"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is the subset of *pgxpool.Pool the database uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// listener delivers the parent path of every changed row.
type listener interface {
	Wait(ctx context.Context) (string, error)
	Close()
}

// PostgresDatabase stores the realtime tree one row per child and relies on a
// trigger (see migrations) to NOTIFY the parent path on every write.
type PostgresDatabase struct {
	db     querier
	listen func(ctx context.Context) (listener, error)
	close  func()
	newID  func() string
	logger internal.Logger
}

func NewPostgresDatabase(ctx context.Context, dsn string, logger internal.Logger) (*PostgresDatabase, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Errorf("failed to ping postgres: %v", err)
		pool.Close()
		return nil, err
	}

	d := newPostgresDatabase(pool, logger)
	d.listen = func(ctx context.Context) (listener, error) { return listenPool(ctx, pool) }
	d.close = pool.Close
	return d, nil
}

func newPostgresDatabase(db querier, logger internal.Logger) *PostgresDatabase {
	return &PostgresDatabase{
		db:     db,
		close:  func() {},
		newID:  uuid.NewString,
		logger: logger,
	}
}

func (p *PostgresDatabase) Push(ctx context.Context, path string, value any) (string, error) {
	id := p.newID()
	if err := p.Set(ctx, cleanPath(path)+"/"+id, value); err != nil {
		return "", err
	}
	return id, nil
}

func (p *PostgresDatabase) Set(ctx context.Context, path string, value any) error {
	parent, key, err := splitPath(path)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", path, err)
	}

	query, args, err := psql.Insert("realtime_nodes").
		Columns("parent", "key", "value").
		Values(parent, key, string(raw)).
		Suffix("ON CONFLICT (parent, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("storage: build insert: %w", err)
	}

	if _, err := p.db.Exec(ctx, query, args...); err != nil {
		p.logger.Errorf("failed to write %s: %v", path, err)
		return fmt.Errorf("storage: set %s: %w", path, err)
	}
	return nil
}

func (p *PostgresDatabase) Get(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	query, args, err := psql.Select("key", "value").
		From("realtime_nodes").
		Where(sq.Eq{"parent": cleanPath(path)}).
		OrderBy("key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("storage: build select: %w", err)
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		p.logger.Errorf("failed to query %s: %v", path, err)
		return nil, fmt.Errorf("storage: get %s: %w", path, err)
	}
	defer rows.Close()

	children := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			p.logger.Errorf("failed to scan %s: %v", path, err)
			return nil, fmt.Errorf("storage: scan %s: %w", path, err)
		}
		children[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", path, err)
	}
	return children, nil
}

func (p *PostgresDatabase) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	if p.listen == nil {
		return nil, fmt.Errorf("storage: subscriptions unavailable")
	}
	path = cleanPath(path)

	l, err := p.listen(ctx)
	if err != nil {
		p.logger.Errorf("failed to listen on %s: %v", notifyChannel, err)
		return nil, fmt.Errorf("storage: listen: %w", err)
	}
	initial, err := p.Get(ctx, path)
	if err != nil {
		l.Close()
		return nil, err
	}

	out := make(chan Snapshot, 1)
	out <- Snapshot{Path: path, Children: initial}

	go func() {
		defer close(out)
		defer l.Close()
		for {
			parent, err := l.Wait(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Warnf("subscription on %s ended: %v", path, err)
				}
				return
			}
			if parent != path {
				continue
			}
			children, err := p.Get(ctx, path)
			if err != nil {
				return
			}
			select {
			case out <- Snapshot{Path: path, Children: children}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (p *PostgresDatabase) Close() error {
	p.close()
	return nil
}

type poolListener struct {
	conn *pgxpool.Conn
}

func listenPool(ctx context.Context, pool *pgxpool.Pool) (listener, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}
	return &poolListener{conn: conn}, nil
}

func (l *poolListener) Wait(ctx context.Context) (string, error) {
	n, err := l.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return "", err
	}
	return n.Payload, nil
}

func (l *poolListener) Close() {
	// the connection goes back to the pool, so drop the LISTEN first
	_, _ = l.conn.Exec(context.Background(), "UNLISTEN "+notifyChannel)
	l.conn.Release()
}

var _ Database = (*PostgresDatabase)(nil)
