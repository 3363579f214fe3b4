package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/blockfall/internal/replay"
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

func testLog(id, gameID string, score int, created time.Time) *replay.Log {
	return &replay.Log{
		ID:       id,
		GameID:   gameID,
		Seed:     42,
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Ticks:    600,
		Frames: []replay.Frame{
			{Tick: 3, Actions: []string{"Left"}},
			{Tick: 10, Actions: []string{"Jump"}},
		},
		Final:     replay.Result{Score: score, GameOver: true},
		CreatedAt: created,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadRun(t *testing.T) {
	store := openTestStore(t)
	log := testLog("run-1", "blockfall", 300, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	if err := store.SaveRun(log); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.LoadRun("run-1")
	if err != nil {
		t.Fatalf("LoadRun() failed: %v", err)
	}
	if got.GameID != "blockfall" || got.Seed != 42 || got.Ticks != 600 {
		t.Errorf("Loaded log header mismatch: %+v", got)
	}
	if len(got.Frames) != 2 || got.Frames[1].Actions[0] != "Jump" {
		t.Errorf("Loaded frames mismatch: %+v", got.Frames)
	}
	if got.Final.Score != 300 || !got.Final.GameOver {
		t.Errorf("Loaded result mismatch: %+v", got.Final)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	runs := []*replay.Log{
		testLog("a", "blockfall", 100, base),
		testLog("b", "blockfall", 800, base.Add(time.Minute)),
		testLog("c", "blockfall_narrow", 500, base.Add(2*time.Minute)),
		testLog("d", "blockfall", 0, base.Add(3*time.Minute)),
	}
	for _, l := range runs {
		if err := store.SaveRun(l); err != nil {
			t.Fatalf("SaveRun(%s) failed: %v", l.ID, err)
		}
	}

	entries, err := store.RecentRuns("blockfall", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(entries))
	}
	// Newest first
	wantIDs := []string{"d", "b", "a"}
	for i, e := range entries {
		if e.ID != wantIDs[i] {
			t.Errorf("entries[%d].ID = %s, expected %s", i, e.ID, wantIDs[i])
		}
	}
	if entries[1].Score != 800 || !entries[1].GameOver || entries[1].Ticks != 600 || entries[1].TickRate != 60 {
		t.Errorf("Entry fields mismatch: %+v", entries[1])
	}
	if !entries[0].CreatedAt.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("CreatedAt = %v, expected %v", entries[0].CreatedAt, base.Add(3*time.Minute))
	}

	all, err := store.RecentRuns("", 2)
	if err != nil {
		t.Fatalf("RecentRuns(all) failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "d" || all[1].ID != "c" {
		t.Errorf("RecentRuns(all, 2) = %+v", all)
	}
}

func TestStoreSaveRunReplaces(t *testing.T) {
	store := openTestStore(t)
	log := testLog("same", "blockfall", 100, time.Now().UTC())

	if err := store.SaveRun(log); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	log.Final.Score = 900
	if err := store.SaveRun(log); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	entries, err := store.RecentRuns("blockfall", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 900 {
		t.Errorf("Expected a single replaced entry with score 900, got %+v", entries)
	}
}

func TestStoreDeleteRun(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveRun(testLog("x", "blockfall", 100, time.Now().UTC())); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	if err := store.DeleteRun("x"); err != nil {
		t.Fatalf("DeleteRun() failed: %v", err)
	}
	if _, err := store.LoadRun("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadRun after delete: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteRun("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Second DeleteRun: expected ErrNotFound, got %v", err)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)
	now := time.Now().UTC()
	for _, l := range []*replay.Log{
		testLog("1", "blockfall", 1, now),
		testLog("2", "blockfall_narrow", 2, now),
	} {
		if err := store.SaveRun(l); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	if err := store.ClearRuns("blockfall"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	entries, _ := store.RecentRuns("", 10)
	if len(entries) != 1 || entries[0].GameID != "blockfall_narrow" {
		t.Errorf("Only the narrow run should remain, got %+v", entries)
	}

	if err := store.ClearRuns(""); err != nil {
		t.Fatalf("ClearRuns(all) failed: %v", err)
	}
	entries, _ = store.RecentRuns("", 10)
	if len(entries) != 0 {
		t.Errorf("Expected no runs, got %d", len(entries))
	}
}

func TestStoreEmpty(t *testing.T) {
	store := openTestStore(t)

	entries, err := store.RecentRuns("blockfall", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected 0 runs, got %d", len(entries))
	}
}

func TestRunEntryDuration(t *testing.T) {
	e := RunEntry{Ticks: 180, TickRate: 60}
	if d := e.Duration(); d != 3*time.Second {
		t.Errorf("Duration() = %v, expected 3s", d)
	}
	e.TickRate = 0
	if d := e.Duration(); d != 0 {
		t.Errorf("Duration() with no tick rate = %v, expected 0", d)
	}
}
