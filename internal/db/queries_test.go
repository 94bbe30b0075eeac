package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/document"
)

// fakeDB answers QueryRow from a queue of rows and records every statement.
type fakeDB struct {
	rows  []fakeRow
	tag   pgconn.CommandTag
	execs []string
	args  [][]interface{}
}

type fakeRow struct {
	vals []interface{}
	err  error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.vals[i].(string)
		case *int:
			*p = r.vals[i].(int)
		case *bool:
			*p = r.vals[i].(bool)
		case *time.Time:
			*p = r.vals[i].(time.Time)
		}
	}
	return nil
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return f.tag, nil
}

func (f *fakeDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r
}

const svg = `<svg viewBox="0 0 10 10"></svg>`

func docRow(id string, version int) fakeRow {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return fakeRow{vals: []interface{}{id, "name", svg, version, now, now}}
}

func TestQueries_GetMapsNoRows(t *testing.T) {
	q := New(&fakeDB{rows: []fakeRow{{err: pgx.ErrNoRows}}})
	_, err := q.Get(context.Background(), "svgdoc_x")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestQueries_Create(t *testing.T) {
	f := &fakeDB{rows: []fakeRow{docRow("svgdoc_a", 1)}}
	d, err := New(f).Create(context.Background(), "name", svg)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Version)
	assert.True(t, strings.HasPrefix(f.args[0][0].(string), "svgdoc_"))

	_, err = New(&fakeDB{}).Create(context.Background(), "bad", "<p/>")
	assert.ErrorIs(t, err, document.ErrInvalidContent)
}

func TestQueries_SaveVersionClash(t *testing.T) {
	f := &fakeDB{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{vals: []interface{}{true}},
	}}
	_, err := New(f).Save(context.Background(), "svgdoc_a", svg, 3)
	assert.ErrorIs(t, err, document.ErrVersionClash)
	assert.Equal(t, 3, f.args[0][2])
}

func TestQueries_SaveMissing(t *testing.T) {
	f := &fakeDB{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{vals: []interface{}{false}},
	}}
	_, err := New(f).Save(context.Background(), "svgdoc_a", svg, 3)
	assert.ErrorIs(t, err, document.ErrNotFound)

	f = &fakeDB{rows: []fakeRow{{err: pgx.ErrNoRows}}}
	_, err = New(f).Save(context.Background(), "svgdoc_a", svg, 0)
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestQueries_Save(t *testing.T) {
	f := &fakeDB{rows: []fakeRow{docRow("svgdoc_a", 4)}}
	d, err := New(f).Save(context.Background(), "svgdoc_a", svg, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Version)
	assert.True(t, strings.HasPrefix(f.args[0][3].(string), "ver_"))
}

func TestQueries_Delete(t *testing.T) {
	f := &fakeDB{tag: pgconn.NewCommandTag("DELETE 0")}
	assert.ErrorIs(t, New(f).Delete(context.Background(), "svgdoc_a"), document.ErrNotFound)

	f = &fakeDB{tag: pgconn.NewCommandTag("DELETE 1")}
	assert.NoError(t, New(f).Delete(context.Background(), "svgdoc_a"))
}

func TestMigrate(t *testing.T) {
	f := &fakeDB{}
	require.NoError(t, Migrate(context.Background(), f))
	require.Len(t, f.execs, 1)
	assert.Contains(t, f.execs[0], "CREATE TABLE IF NOT EXISTS documents")
}
