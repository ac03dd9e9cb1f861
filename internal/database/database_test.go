package database

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
)

func testDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	return dsn
}

func TestMigrateIsIdempotent(t *testing.T) {
	dsn := testDSN(t)

	if err := Migrate(dsn); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := Migrate(dsn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	version, dirty, err := Version(dsn)
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if version < 1 || dirty {
		t.Errorf("version = %d dirty = %v", version, dirty)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	dsn := testDSN(t)
	if err := Migrate(dsn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	pool, err := Connect(ctx, dsn, PoolConfig{MaxConns: 2})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()

	tx := NewTransactor(pool)
	boom := errors.New("boom")
	const student = "tx-rollback-test"
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM student_streaks WHERE student_id = $1`, student)
	})

	err = tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO student_streaks (student_id) VALUES ($1)`, student); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx err = %v, want boom", err)
	}

	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_streaks WHERE student_id = $1`, student).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rolled back insert is visible (%d rows)", n)
	}
}

func TestWithinTxJoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	dsn := testDSN(t)
	if err := Migrate(dsn); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	pool, err := Connect(ctx, dsn, PoolConfig{MaxConns: 2})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer pool.Close()

	tx := NewTransactor(pool)
	boom := errors.New("boom")
	const student = "tx-join-test"
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM student_streaks WHERE student_id = $1`, student)
	})

	err = tx.WithinTx(ctx, func(ctx context.Context, outer pgx.Tx) error {
		innerErr := tx.WithinTx(ctx, func(ctx context.Context, inner pgx.Tx) error {
			if inner != outer {
				t.Error("inner WithinTx opened a new transaction")
			}
			_, err := inner.Exec(ctx, `INSERT INTO student_streaks (student_id) VALUES ($1)`, student)
			return err
		})
		if innerErr != nil {
			return innerErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithinTx err = %v, want boom", err)
	}

	var n int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM student_streaks WHERE student_id = $1`, student).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("inner insert survived the outer rollback (%d rows)", n)
	}
}

func TestTxFromContextEmpty(t *testing.T) {
	if _, ok := TxFromContext(context.Background()); ok {
		t.Error("TxFromContext found a transaction in a bare context")
	}
}
