package repo

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := Migrations()
	if err != nil {
		t.Fatalf("Migrations: %v", err)
	}
	if len(names) == 0 || names[0] != "migrations/0001_init.sql" {
		t.Fatalf("unexpected migrations: %v", names)
	}

	sql, err := migrationFiles.ReadFile(names[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, table := range []string{"graphs", "runs"} {
		if !strings.Contains(string(sql), "CREATE TABLE IF NOT EXISTS "+table) {
			t.Errorf("0001_init.sql does not create %s", table)
		}
	}
}

func TestPoolConfigFromEnv(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_MAX_CONNS", "")

	cfg := PoolConfigFromEnv()
	if cfg.DSN != DefaultDSN || cfg.MaxConns != 10 {
		t.Errorf("defaults = %+v", cfg)
	}

	t.Setenv("DB_URL", "postgres://db/x")
	t.Setenv("DB_MAX_CONNS", "25")

	cfg = PoolConfigFromEnv()
	if cfg.DSN != "postgres://db/x" || cfg.MaxConns != 25 {
		t.Errorf("from env = %+v", cfg)
	}

	t.Setenv("DB_MAX_CONNS", "-3")
	if PoolConfigFromEnv().MaxConns != 10 {
		t.Error("negative DB_MAX_CONNS should be ignored")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 should be a unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("23503 is a foreign key violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain error is not a unique violation")
	}
}

func TestNullHelpers(t *testing.T) {
	if nullString("") != nil {
		t.Error(`nullString("") should be nil`)
	}
	if s := nullString("x"); s == nil || *s != "x" {
		t.Errorf("nullString(x) = %v", s)
	}

	b, err := marshalResult(nil)
	if err != nil || b != nil {
		t.Errorf("marshalResult(nil) = %s, %v", b, err)
	}
}
