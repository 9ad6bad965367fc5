package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/sleepdiary/internal"
)

func newMockDatabase(t *testing.T) (*PostgresDatabase, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	d := newPostgresDatabase(mock, internal.NewNopLogger())
	d.newID = func() string { return "id-1" }
	return d, mock
}

func TestPostgresDatabase_Set(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectExec(`INSERT INTO realtime_nodes`).
		WithArgs("users", "u1", `{"name":"Sam"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := d.Set(context.Background(), "users/u1", map[string]string{"name": "Sam"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDatabase_Push(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectExec(`INSERT INTO realtime_nodes`).
		WithArgs("sleepFactors", "id-1", `{"name":"CBD","category":"chemical"}`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := d.Push(context.Background(), "sleepFactors", internal.SleepFactor{Name: "CBD", Category: internal.CategoryChemical})
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDatabase_SetError(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectExec(`INSERT INTO realtime_nodes`).
		WithArgs("users", "u1", `1`).
		WillReturnError(errors.New("permission denied"))

	err := d.Set(context.Background(), "users/u1", 1)
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDatabase_Get(t *testing.T) {
	d, mock := newMockDatabase(t)

	rows := pgxmock.NewRows([]string{"key", "value"}).
		AddRow("a", []byte(`{"name":"caffeine"}`)).
		AddRow("b", []byte(`{"name":"napped"}`))
	mock.ExpectQuery(`SELECT key, value FROM realtime_nodes`).
		WithArgs("sleepFactors").
		WillReturnRows(rows)

	children, err := d.Get(context.Background(), "/sleepFactors")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.JSONEq(t, `{"name":"napped"}`, string(children["b"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeListener struct {
	payloads chan string
	closed   chan struct{}
}

func (f *fakeListener) Wait(ctx context.Context) (string, error) {
	select {
	case p := <-f.payloads:
		return p, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *fakeListener) Close() { close(f.closed) }

func TestPostgresDatabase_Subscribe(t *testing.T) {
	d, mock := newMockDatabase(t)
	l := &fakeListener{payloads: make(chan string, 2), closed: make(chan struct{})}
	d.listen = func(ctx context.Context) (listener, error) { return l, nil }

	mock.ExpectQuery(`SELECT key, value FROM realtime_nodes`).
		WithArgs("sleepFactors").
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}))
	mock.ExpectQuery(`SELECT key, value FROM realtime_nodes`).
		WithArgs("sleepFactors").
		WillReturnRows(pgxmock.NewRows([]string{"key", "value"}).AddRow("a", []byte(`{"name":"alcohol"}`)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := d.Subscribe(ctx, "sleepFactors")
	require.NoError(t, err)

	first := recv(t, ch)
	assert.Empty(t, first.Children)

	l.payloads <- "users"
	l.payloads <- "sleepFactors"
	second := recv(t, ch)
	assert.Len(t, second.Children, 1)

	cancel()
	select {
	case <-l.closed:
	case <-time.After(time.Second):
		t.Fatal("listener not released")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDatabase_SubscribeWithoutListener(t *testing.T) {
	d, _ := newMockDatabase(t)
	_, err := d.Subscribe(context.Background(), "sleepFactors")
	assert.Error(t, err)
}
