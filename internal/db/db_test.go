package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestConnectPostgres(t *testing.T) {
	t.Run("missing DATABASE_URL is an error", func(t *testing.T) {
		if _, err := ConnectPostgres(context.Background(), ""); err == nil {
			t.Fatalf("expected error for empty dsn")
		}
	})

	t.Run("valid DATABASE_URL connects and creates schema", func(t *testing.T) {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			t.Skip("DATABASE_URL not set, skipping integration test")
		}

		pool, err := ConnectPostgres(context.Background(), dsn)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		defer pool.Close()

		err = WithTx(context.Background(), pool, func(tx pgx.Tx) error {
			var n int
			return tx.QueryRow(context.Background(), `SELECT count(*) FROM tickets`).Scan(&n)
		})
		if err != nil {
			t.Fatalf("tickets table not usable: %v", err)
		}
	})
}

func TestConnectFirestoreNeedsProject(t *testing.T) {
	if _, err := ConnectFirestore(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty project id")
	}
}
