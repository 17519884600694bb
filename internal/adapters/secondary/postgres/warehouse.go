package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/adapters/secondary/warehouse"
	apperrors "github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/errors"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/core/ports"
)

// Config holds the pool settings for the warehouse connection.
type Config struct {
	URL             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// Warehouse is the Postgres-backed reporting store.
type Warehouse struct {
	pool     *pgxpool.Pool
	tm       *TransactionManager
	epics    *EpicRepository
	subTasks *SubTaskRepository
	tickets  *TicketRepository
}

var _ ports.Warehouse = (*Warehouse)(nil)

// Open connects to the warehouse and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Warehouse, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperrors.NewConnectionError(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperrors.NewConnectionError(err)
	}

	return NewWarehouse(pool, cfg.QueryTimeout), nil
}

// NewWarehouse wraps an existing pool. A zero timeout leaves queries
// bounded only by the caller's context.
func NewWarehouse(pool *pgxpool.Pool, queryTimeout time.Duration) *Warehouse {
	tm := NewTransactionManager(pool)
	q := querier{pool: pool, timeout: queryTimeout}
	return &Warehouse{
		pool:     pool,
		tm:       tm,
		epics:    &EpicRepository{q: q, tm: tm},
		subTasks: &SubTaskRepository{q: q},
		tickets:  &TicketRepository{q: q},
	}
}

func (w *Warehouse) Epics() ports.EpicRepository       { return w.epics }
func (w *Warehouse) SubTasks() ports.SubTaskRepository { return w.subTasks }
func (w *Warehouse) Tickets() ports.TicketRepository   { return w.tickets }

func (w *Warehouse) Ping(ctx context.Context) error {
	return w.pool.Ping(ctx)
}

func (w *Warehouse) Close() error {
	w.pool.Close()
	return nil
}

// Pool exposes the underlying pool for health checks and migrations.
func (w *Warehouse) Pool() *pgxpool.Pool {
	return w.pool
}

// querier runs shared warehouse queries against the pool or the
// transaction carried by the context.
type querier struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func (q querier) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, q.timeout)
}

func (q querier) count(ctx context.Context, op string, query warehouse.Query) (int, error) {
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var n int64
	if err := GetDBTX(ctx, q.pool).QueryRow(ctx, Rebind(query.SQL), query.Args...).Scan(&n); err != nil {
		return 0, apperrors.WrapQuery(op, err)
	}
	return int(n), nil
}

// Rebind rewrites '?' placeholders as $1..$n, leaving quoted literals alone.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 16)

	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
