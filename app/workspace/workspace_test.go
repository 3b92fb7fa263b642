package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gridline/app/fileloader"
)

func TestCreateAppendsExtension(t *testing.T) {
	dir := t.TempDir()
	svc := NewService()
	if err := svc.Create(filepath.Join(dir, "case42")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := filepath.Join(dir, "case42"+Extension)
	if svc.Path() != want {
		t.Errorf("path = %q, want %q", svc.Path(), want)
	}
	if svc.Name() != "case42" {
		t.Errorf("name = %q", svc.Name())
	}
	if !svc.IsOpen() {
		t.Error("workspace should be open after Create")
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("workspace file missing: %v", err)
	}
}

func TestPutSaveOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	svc := NewService()
	if err := svc.Create(filepath.Join(dir, "case")); err != nil {
		t.Fatal(err)
	}

	entry := File{
		Path:        "/data/auth.csv",
		Fingerprint: "deadbeef",
		Options:     fileloader.Options{Pattern: "*.csv"},
		Query:       "door !exit",
		Sort:        "width:desc",
		Marks:       []int{3, 17},
		Description: "auth events",
	}
	svc.Put(entry)
	if err := svc.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened := NewService()
	if err := reopened.Open(svc.Path()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, ok := reopened.Lookup("/data/auth.csv", fileloader.Options{Pattern: "*.csv"})
	if !ok {
		t.Fatal("entry lost in round trip")
	}
	if !reflect.DeepEqual(got, entry) {
		t.Errorf("round trip = %+v, want %+v", got, entry)
	}
}

func TestSamePathDifferentOptions(t *testing.T) {
	svc := NewService()
	a := File{Path: "/data/events.json", Options: fileloader.Options{JPath: "$.rows"}}
	b := File{Path: "/data/events.json", Options: fileloader.Options{JPath: "$.errors"}}
	svc.Put(a)
	svc.Put(b)

	if got := len(svc.Files()); got != 2 {
		t.Fatalf("entries = %d, want 2 (distinct options)", got)
	}
	if _, ok := svc.Lookup("/data/events.json", fileloader.Options{JPath: "$.rows"}); !ok {
		t.Error("first options variant missing")
	}
}

func TestPutUpdatesInPlace(t *testing.T) {
	svc := NewService()
	svc.Put(File{Path: "/a.csv", Query: "old"})
	svc.Put(File{Path: "/b.csv"})
	svc.Put(File{Path: "/a.csv", Query: "new"})

	files := svc.Files()
	if len(files) != 2 {
		t.Fatalf("entries = %d", len(files))
	}
	if files[0].Path != "/a.csv" || files[0].Query != "new" {
		t.Errorf("update should keep position: %+v", files[0])
	}
}

func TestRemove(t *testing.T) {
	svc := NewService()
	svc.Put(File{Path: "/a.csv"})

	if !svc.Remove("/a.csv", fileloader.Options{}) {
		t.Error("Remove should report the entry existed")
	}
	if svc.Remove("/a.csv", fileloader.Options{}) {
		t.Error("second Remove should report absence")
	}
	if len(svc.Files()) != 0 {
		t.Error("entry still listed after Remove")
	}
}

func TestSaveWithoutOpenWorkspace(t *testing.T) {
	svc := NewService()
	svc.Put(File{Path: "/a.csv"})
	if err := svc.Save(); err == nil {
		t.Error("Save without an open workspace should fail")
	}
}

func TestOpenMissingFile(t *testing.T) {
	svc := NewService()
	if err := svc.Open(filepath.Join(t.TempDir(), "nope"+Extension)); err == nil {
		t.Error("Open should fail on a missing file")
	}
}

func TestCloseForgetsState(t *testing.T) {
	dir := t.TempDir()
	svc := NewService()
	if err := svc.Create(filepath.Join(dir, "case")); err != nil {
		t.Fatal(err)
	}
	svc.Put(File{Path: "/a.csv"})
	svc.Close()

	if svc.IsOpen() || len(svc.Files()) != 0 || svc.Name() != "" {
		t.Error("Close should clear path and entries")
	}
}
