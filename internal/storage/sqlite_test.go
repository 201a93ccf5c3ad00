package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/girder/internal/puzzle"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.RecordCompletion(Completion{PackID: "builtin", LevelID: "01", Moves: 5}); err != nil {
		t.Fatalf("RecordCompletion() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	best, err := store.BestCompletion("builtin", "01")
	if err != nil || best == nil {
		t.Fatalf("BestCompletion() = %v, %v; want the stored run", best, err)
	}
}

func TestStoreBestCompletion(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestCompletion("builtin", "01")
	if err != nil {
		t.Fatalf("BestCompletion() failed: %v", err)
	}
	if best != nil {
		t.Errorf("BestCompletion() of an unsolved level = %+v, want nil", best)
	}

	runs := []Completion{
		{PackID: "builtin", LevelID: "01", Moves: 9, Duration: 3 * time.Second},
		{PackID: "builtin", LevelID: "01", Moves: 5, Undos: 2, Duration: 8 * time.Second},
		{PackID: "builtin", LevelID: "01", Moves: 5, Duration: 4 * time.Second},
		{PackID: "builtin", LevelID: "02", Moves: 1},
		{PackID: "local", LevelID: "01", Moves: 2},
	}
	for _, c := range runs {
		if _, err := store.RecordCompletion(c); err != nil {
			t.Fatalf("RecordCompletion() failed: %v", err)
		}
	}

	best, err = store.BestCompletion("builtin", "01")
	if err != nil {
		t.Fatalf("BestCompletion() failed: %v", err)
	}
	if best.Moves != 5 || best.Duration != 4*time.Second || best.Undos != 0 {
		t.Errorf("BestCompletion() = %+v, want 5 moves in 4s", best)
	}
	if best.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestStoreRecordCompletionNeedsIDs(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.RecordCompletion(Completion{LevelID: "01"}); err == nil {
		t.Error("RecordCompletion() without a pack ID should fail")
	}
}

func TestStoreCompletionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 5; i++ {
		store.RecordCompletion(Completion{PackID: "p", LevelID: "l", Moves: i}) //nolint:errcheck
	}

	got, err := store.Completions("p", "l", 3)
	if err != nil {
		t.Fatalf("Completions() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 completions with limit, got %d", len(got))
	}
	// Newest first
	if got[0].Moves != 5 || got[1].Moves != 4 || got[2].Moves != 3 {
		t.Errorf("Completions not in expected order: %v", got)
	}
}

func TestStoreAllProgressAndClear(t *testing.T) {
	store := openTestStore(t)

	store.RecordCompletion(Completion{PackID: "builtin", LevelID: "02", Moves: 7, Duration: 2 * time.Second}) //nolint:errcheck
	store.RecordCompletion(Completion{PackID: "builtin", LevelID: "02", Moves: 6, Duration: 5 * time.Second}) //nolint:errcheck
	store.RecordCompletion(Completion{PackID: "builtin", LevelID: "01", Moves: 5})                            //nolint:errcheck
	store.RecordCompletion(Completion{PackID: "local", LevelID: "x", Moves: 3})                                //nolint:errcheck

	progress, err := store.AllProgress()
	if err != nil {
		t.Fatalf("AllProgress() failed: %v", err)
	}
	if len(progress) != 3 {
		t.Fatalf("Expected 3 progress rows, got %d", len(progress))
	}
	if progress[0].LevelID != "01" || progress[1].LevelID != "02" || progress[2].PackID != "local" {
		t.Errorf("progress not ordered by pack then level: %+v", progress)
	}
	p := progress[1]
	if p.Solves != 2 || p.BestMoves != 6 || p.BestTime != 2*time.Second {
		t.Errorf("progress[1] = %+v, want 2 solves, best 6 moves, best 2s", p)
	}

	if err := store.ClearProgress("builtin"); err != nil {
		t.Fatalf("ClearProgress() failed: %v", err)
	}
	progress, _ = store.AllProgress()
	if len(progress) != 1 || progress[0].PackID != "local" {
		t.Errorf("ClearProgress should only affect its pack, left %+v", progress)
	}
}

func TestStoreSuspendedRoundTrip(t *testing.T) {
	store := openTestStore(t)

	state := puzzle.Snapshot{
		CarrierPos:      puzzle.C(2, 1),
		CarrierFacing:   puzzle.South,
		Carrying:        true,
		BeamRoot:        puzzle.C(2, 2),
		BeamOrientation: puzzle.South,
	}
	id, err := store.SaveSuspended(Suspended{PackID: "builtin", LevelID: "03", State: state, Moves: 4, Undos: 1})
	if err != nil {
		t.Fatalf("SaveSuspended() failed: %v", err)
	}
	if id == "" {
		t.Fatal("SaveSuspended() returned an empty ID")
	}

	got, err := store.LoadSuspended("builtin", "03")
	if err != nil || got == nil {
		t.Fatalf("LoadSuspended() = %v, %v", got, err)
	}
	if got.ID != id || got.State != state || got.Moves != 4 || got.Undos != 1 {
		t.Errorf("LoadSuspended() = %+v, want id %s state %+v", got, id, state)
	}

	// Saving the same level again replaces the row and keeps its ID.
	state.Carrying = false
	id2, err := store.SaveSuspended(Suspended{PackID: "builtin", LevelID: "03", State: state, Moves: 6})
	if err != nil {
		t.Fatalf("second SaveSuspended() failed: %v", err)
	}
	if id2 != id {
		t.Errorf("resave ID = %s, want %s", id2, id)
	}
	all, err := store.ListSuspended()
	if err != nil {
		t.Fatalf("ListSuspended() failed: %v", err)
	}
	if len(all) != 1 || all[0].State.Carrying || all[0].Moves != 6 {
		t.Errorf("ListSuspended() = %+v, want the single updated row", all)
	}

	if err := store.DeleteSuspended("builtin", "03"); err != nil {
		t.Fatalf("DeleteSuspended() failed: %v", err)
	}
	got, err = store.LoadSuspended("builtin", "03")
	if err != nil || got != nil {
		t.Errorf("LoadSuspended() after delete = %v, %v; want nil", got, err)
	}
}

func TestStoreSuspendedNeedsIDs(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveSuspended(Suspended{PackID: "builtin"}); err == nil {
		t.Error("SaveSuspended() without a level ID should fail")
	}
}
