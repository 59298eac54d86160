package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresCfg struct {
	Host     string `env:"POSTGRES_HOST"      env-default:"postgres"`
	Port     string `env:"POSTGRES_PORT"      env-default:"5432"`
	User     string `env:"POSTGRES_USER"      env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"  env-default:"postgres"`
	DBName   string `env:"POSTGRES_DB"        env-default:"postgres"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

// DSN returns the connection string shared by the server and the migrate command.
func (cfg PostgresCfg) DSN() string {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		cfg.User, cfg.Password, addr, cfg.DBName)
}

type Repository struct {
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewRepository(cfg PostgresCfg) (*Repository, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create new pool: %w", err)
	}

	if err = pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repository{
		pool:    pool,
		builder: newBuilder(),
	}, nil
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func wrapDBError(err error, context string) error {
	return fmt.Errorf("database: %s: %w", context, err)
}

// classifyPgError turns constraint violations into business errors and
// wraps everything else as a database error.
func classifyPgError(err error, entity, context string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s unique violation", entity)
		case "23503":
			return errors.New("foreign key violation: referenced row not found")
		case "23514", "22P02":
			return fmt.Errorf("invalid %s: %s", entity, pgErr.Message)
		}
	}
	return wrapDBError(err, context)
}

func (r *Repository) CloseConnection() {
	r.pool.Close()
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return wrapDBError(err, "Ping")
	}
	return nil
}

func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, wrapDBError(err, "BeginTx")
	}

	return tx, nil
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn runs on tx when one is given and on the pool otherwise.
func (r *Repository) conn(tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return r.pool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere in the text.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// nullable maps an empty string to NULL.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
