package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeDatabase struct {
	configured bool
}

func (f *fakeDatabase) Exec(ctx context.Context, sql string, args ...any) error { return nil }
func (f *fakeDatabase) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (f *fakeDatabase) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (f *fakeDatabase) Health(ctx context.Context) error                              { return nil }
func (f *fakeDatabase) IsConfigured() bool                                            { return f.configured }

func TestNewPicksImplementation(t *testing.T) {
	if _, ok := New(&fakeDatabase{configured: false}).(*InMemoryStore); !ok {
		t.Error("unconfigured db should yield in-memory store")
	}
	if _, ok := New(&fakeDatabase{configured: true}).(*PostgresStore); !ok {
		t.Error("configured db should yield postgres store")
	}
}
