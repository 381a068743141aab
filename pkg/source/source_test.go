package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/org"
)

var wantUnits = []org.UnitRecord{
	{ID: 1, Name: "HQ", Abbrev: "HQ", UnitType: "Command"},
	{ID: 2, Name: "1st Corps", Abbrev: "1C", UnitType: "Corps", ParentID: org.ParentOf(1)},
	{ID: 3, Name: "Support Group", UnitType: "Group", ParentID: org.ParentOf(1)},
}

func openUnits(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "units.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE units (id INTEGER PRIMARY KEY, name TEXT NOT NULL, abbrev TEXT, unit_type TEXT NOT NULL, parent_id INTEGER)`,
		`INSERT INTO units VALUES (3, 'Support Group', NULL, 'Group', 1)`,
		`INSERT INTO units VALUES (1, 'HQ', 'HQ', 'Command', NULL)`,
		`INSERT INTO units VALUES (2, '1st Corps', '1C', 'Corps', 1)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}
	return db
}

func TestSQLFetch(t *testing.T) {
	s := &SQL{DB: openUnits(t), Target: "test"}
	got, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff(wantUnits, got); diff != "" {
		t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLFetchEmptyTable(t *testing.T) {
	db := openUnits(t)
	if _, err := db.Exec(`DELETE FROM units`); err != nil {
		t.Fatal(err)
	}
	got, err := (&SQL{DB: db}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d records, want 0", len(got))
	}
}

func TestSQLFetchErrors(t *testing.T) {
	db := openUnits(t)
	tests := []struct {
		name  string
		table string
		db    Querier
		code  errors.Code
	}{
		{"missing table", "battalions", db, errors.ErrCodeFetchFailure},
		{"injected table", "units; DROP TABLE units", db, errors.ErrCodeInvalidInput},
		{"no connection", "units", nil, errors.ErrCodeFetchFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&SQL{DB: tt.db, Table: tt.table}).Fetch(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSQLQuery(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"", "SELECT id, name, abbrev, unit_type, parent_id FROM units ORDER BY id"},
		{"army.units", "SELECT id, name, abbrev, unit_type, parent_id FROM army.units ORDER BY id"},
	}
	for _, tt := range tests {
		if got := (&SQL{Table: tt.table}).Query(); got != tt.want {
			t.Errorf("Query() = %q, want %q", got, tt.want)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://svc:hunter2@db:5432/usarmy?sslmode=disable", "postgres://svc:xxxxx@db:5432/usarmy?sslmode=disable"},
		{"postgres://svc@db/usarmy", "postgres://svc@db/usarmy"},
		{"host=db user=svc password=hunter2", "****"},
		{"/var/lib/units.db", "/var/lib/units.db"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.json")
	data := `[
		{"id": 1, "name": "HQ", "abbrev": "HQ", "unit_type": "Command", "parent_id": null},
		{"id": 2, "name": "1st Corps", "abbrev": "1C", "unit_type": "Corps", "parent_id": 1},
		{"id": 3, "name": "Support Group", "unit_type": "Group", "parent_id": 1}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := (&File{Path: path}).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if diff := cmp.Diff(wantUnits, got); diff != "" {
		t.Errorf("Fetch mismatch (-want +got):\n%s", diff)
	}
}

func TestFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"id": 1}`), 0o644)

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFetchFailure},
		{"not an array", bad, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&File{Path: tt.path}).Fetch(context.Background())
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	calls := 0
	inner := Func(func(context.Context) ([]org.UnitRecord, error) {
		calls++
		return wantUnits, nil
	})
	s := &Cached{Source: inner, Cache: c}

	for i := 0; i < 3; i++ {
		got, err := s.Fetch(ctx)
		if err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
		if diff := cmp.Diff(wantUnits, got); diff != "" {
			t.Errorf("Fetch #%d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if calls != 1 {
		t.Errorf("inner source called %d times, want 1", calls)
	}
}

func TestCachedSkipsEmptyAndErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := cache.NewFileCache(t.TempDir())

	calls := 0
	inner := Func(func(context.Context) ([]org.UnitRecord, error) {
		calls++
		if calls == 1 {
			return nil, errors.New(errors.ErrCodeFetchFailure, "down")
		}
		return nil, nil
	})
	s := &Cached{Source: inner, Cache: c, Key: "k"}

	if _, err := s.Fetch(ctx); !errors.Is(err, errors.ErrCodeFetchFailure) {
		t.Errorf("err = %v, want FETCH_FAILURE", err)
	}
	_, _ = s.Fetch(ctx)
	_, _ = s.Fetch(ctx)
	if calls != 3 {
		t.Errorf("inner source called %d times, want 3", calls)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty record sets should not be cached")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		s    Source
		want string
	}{
		{&SQL{Target: "db:5432/usarmy"}, "sql:db:5432/usarmy/units"},
		{&File{Path: "units.json"}, "file:units.json"},
		{&Cached{Source: &File{Path: "units.json"}}, "file:units.json"},
		{Func(nil), "source"},
	}
	for _, tt := range tests {
		if got := Describe(tt.s); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
