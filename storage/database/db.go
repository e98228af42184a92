// Package database opens, provisions and migrates the PostgreSQL database.
package database

import (
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/trezcool/rekodi/core"
	appfs "github.com/trezcool/rekodi/fs"
)

const (
	pingAttempts = 30
	pingBackoff  = 100 * time.Millisecond
)

// dsn is the connection URL of dbName, as the admin user if asked and configured.
func dsn(dbName string, admin bool, dbc core.DatabaseConfig) string {
	usr := url.UserPassword(dbc.User, dbc.Password)
	if admin && dbc.AdminUser != "" {
		usr = url.UserPassword(dbc.AdminUser, dbc.AdminPassword)
	}

	q := url.Values{"timezone": {"utc"}, "sslmode": {"require"}}
	if dbc.DisableTLS {
		q.Set("sslmode", "disable")
	}
	u := url.URL{Scheme: "postgres", User: usr, Host: dbc.Address(), Path: dbc.Name, RawQuery: q.Encode()}
	if dbName != "" {
		u.Path = dbName
	}
	return u.String()
}

// Open opens the records database without connecting; see Ping.
func Open(conf *core.Config) (*sql.DB, error) {
	return sql.Open("postgres", dsn("", false, conf.Database))
}

// Ping retries until the database answers, backing off linearly.
func Ping(db *sql.DB) error {
	var err error
	for i := 1; i <= pingAttempts; i++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(i) * pingBackoff)
	}
	return errors.Wrap(err, "DB ping timeout")
}

// exists runs a "SELECT EXISTS" query.
func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	err := db.Get(&found, query, args...)
	return found, err
}

func createRole(db *sqlx.DB, dbc core.DatabaseConfig) error {
	found, err := exists(db, `SELECT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = $1)`, dbc.User)
	if err != nil || found {
		return errors.Wrap(err, "checking app user")
	}
	_, err = db.Exec("CREATE USER " + pq.QuoteIdentifier(dbc.User) + " CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(dbc.Password))
	return errors.Wrap(err, "creating app user")
}

func createDB(db *sqlx.DB, dbc core.DatabaseConfig) error {
	found, err := exists(db, `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, dbc.Name)
	if err != nil || found {
		return errors.Wrap(err, "checking database")
	}
	_, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbc.Name))
	return errors.Wrap(err, "creating database")
}

// CreateIfNotExist provisions the app user (as the admin user), then the records database (as the app user).
func CreateIfNotExist(conf *core.Config) error {
	dbc := conf.Database
	if dbc.User != "" {
		admin, err := sqlx.Open("postgres", dsn("postgres", true, dbc))
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() { _ = admin.Close() }()
		if err := Ping(admin.DB); err != nil {
			return err
		}
		if err := createRole(admin, dbc); err != nil {
			return err
		}
	}

	db, err := sqlx.Open("postgres", dsn("postgres", false, dbc))
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()
	if err := Ping(db.DB); err != nil {
		return err
	}
	return createDB(db, dbc)
}

// Migrate applies the embedded migrations.
func Migrate(db *sql.DB) error {
	return errors.Wrap(goose.RunFS("up", db, appfs.FS, "migrations"), "migrating database")
}
