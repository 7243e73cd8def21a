package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"meddir/internal/domain"
)

const errDuplicateEntry = 1062

// Admins is a domain.CredentialStore over the admins table.
type Admins struct{ db *sql.DB }

func New(db *sql.DB) *Admins { return &Admins{db: db} }

// Open connects with dsn and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// Migrate creates the admins table if it does not exist.
func (r *Admins) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createAdminsSQL)
	return err
}

func (r *Admins) Create(ctx context.Context, a domain.Admin, hash []byte) error {
	_, err := r.db.ExecContext(ctx, insertAdminSQL,
		a.Username,
		a.Email,
		a.FullName,
		a.Position,
		a.RegisteredAt,
		hash,
	)
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == errDuplicateEntry {
		return domain.Conflict("admin %s already registered", a.Username)
	}
	return err
}

func (r *Admins) Get(ctx context.Context, username string) (domain.Admin, []byte, error) {
	var a domain.Admin
	var hash []byte
	err := r.db.QueryRowContext(ctx, getAdminSQL, username).Scan(
		&a.Username,
		&a.Email,
		&a.FullName,
		&a.Position,
		&a.RegisteredAt,
		&hash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, nil, domain.NotFound("admin %s", username)
	}
	if err != nil {
		return domain.Admin{}, nil, err
	}
	return a, hash, nil
}
