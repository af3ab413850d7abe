package migrations

import (
	"io/fs"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func TestPendingOrderAndVersion(t *testing.T) {
	files := fstest.MapFS{
		"002_indexes.sql": {Data: []byte("SELECT 1;")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("notes")},
	}
	got, err := Pending(files)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"001_init.sql", "002_indexes.sql"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("pending = %v", got)
	}
	if v := Version("001_init.sql"); v != "001" {
		t.Fatalf("version = %s", v)
	}
}

func TestEmbeddedSchema(t *testing.T) {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		t.Fatal(err)
	}
	files, err := Pending(sub)
	if err != nil || len(files) == 0 {
		t.Fatalf("no embedded migrations: %v", err)
	}
	body, err := fs.ReadFile(sub, files[0])
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"students_email_key", "START WITH 101", "courses_enrolled_count_check", "ON DELETE CASCADE"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("initial migration missing %q", want)
		}
	}
}
