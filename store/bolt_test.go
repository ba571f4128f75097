package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/saqibullah/diagnosify/config"
)

func openTestBolt(t *testing.T) *Bolt {
	t.Helper()
	s, err := OpenBolt(filepath.Join(t.TempDir(), "datasets.db"))
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltSaveGet(t *testing.T) {
	s := openTestBolt(t)
	ctx := context.Background()

	d := &Dataset{
		Name:        "Diabetes",
		Description: "Pima indians",
		Filename:    "diabetes.csv",
		Rows:        768,
		Columns:     []string{"Pregnancies", "Glucose", "Outcome"},
	}
	if err := s.Save(ctx, d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if d.ID == "" {
		t.Fatal("Save did not assign an ID")
	}
	if d.UploadedAt.IsZero() {
		t.Fatal("Save did not set the upload time")
	}

	got, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != d.Name || got.Rows != d.Rows || !reflect.DeepEqual(got.Columns, d.Columns) {
		t.Errorf("Get = %+v, want %+v", got, d)
	}
	if !got.UploadedAt.Equal(d.UploadedAt) {
		t.Errorf("uploaded at = %v, want %v", got.UploadedAt, d.UploadedAt)
	}
}

func TestBoltGetMissing(t *testing.T) {
	s := openTestBolt(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestBoltListOrder(t *testing.T) {
	s := openTestBolt(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"third", "first", "second"} {
		offset := map[string]time.Duration{"first": 0, "second": time.Hour, "third": 2 * time.Hour}[name]
		d := &Dataset{ID: string(rune('a' + i)), Name: name, Filename: name + ".csv", UploadedAt: base.Add(offset)}
		if err := s.Save(ctx, d); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, d := range list {
		names = append(names, d.Name)
	}
	if !reflect.DeepEqual(names, []string{"first", "second", "third"}) {
		t.Errorf("List order = %v", names)
	}
}

func TestBoltReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.db")
	s, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt: %v", err)
	}
	d := &Dataset{Name: "Heart", Filename: "heart.csv", Rows: 303}
	if err := s.Save(context.Background(), d); err != nil {
		t.Fatalf("Save: %v", err)
	}
	s.Close()

	s, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.Get(context.Background(), d.ID); err != nil {
		t.Errorf("Get after reopen: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "mongo"}}
	if _, err := Open(cfg); err == nil {
		t.Error("expected error for unknown driver")
	}
}
