package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"shortsmith/internal/store"
	"shortsmith/internal/testsupport"
)

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video := testsupport.NewVideo(t, st, "dQw4w9WgXcQ", "Sample Talk")
	if video.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
	if video.State != store.StateCreated {
		t.Fatalf("state = %q", video.State)
	}
	if video.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}

	fetched, err := st.Get(ctx, video.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched == nil || fetched.SourceID != "dQw4w9WgXcQ" || fetched.DisplayTitle() != "Sample Talk" {
		t.Fatalf("unexpected video %#v", fetched)
	}

	missing, err := st.Get(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil for missing id, got %#v, %v", missing, err)
	}
}

func TestCreateRequiresSourceID(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.Create(context.Background(), "  ", "x"); err == nil {
		t.Fatal("expected error for blank source id")
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	video := testsupport.NewVideo(t, st, "src", "")

	video.Stem = "short_src_1"
	video.SourcePath = "temp/src.mp4"
	video.BasePath = "shorts/short_src_1.mp4"
	video.CurrentPath = "shorts/short_src_1_filter_sepia.mp4"
	video.State = store.StateFiltered
	video.FilterName = "sepia"
	video.StartSecond = 12
	video.LastError = "boom"
	video.ErrorKind = "processing"
	if err := st.Update(ctx, video); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fetched, err := st.Get(ctx, video.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.BasePath != video.BasePath || fetched.CurrentPath != video.CurrentPath ||
		fetched.State != store.StateFiltered || fetched.FilterName != "sepia" ||
		fetched.StartSecond != 12 || fetched.ErrorKind != "processing" || fetched.Captioned {
		t.Fatalf("round trip mismatch: %#v", fetched)
	}
	if fetched.DisplayTitle() != "src" {
		t.Fatalf("display title should fall back to source id, got %q", fetched.DisplayTitle())
	}

	fetched.LastError = ""
	fetched.Captioned = true
	if err := st.Update(ctx, fetched); err != nil {
		t.Fatalf("Update: %v", err)
	}
	again, _ := st.Get(ctx, video.ID)
	if again.LastError != "" || !again.Captioned {
		t.Fatalf("expected cleared error and captioned flag: %#v", again)
	}

	ghost := &store.Video{ID: 12345, State: store.StateCreated}
	if err := st.Update(ctx, ghost); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for missing row, got %v", err)
	}
}

func TestListFiltersByState(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	a := testsupport.NewVideo(t, st, "a", "")
	testsupport.NewVideo(t, st, "b", "")
	a.State = store.StateReformatted
	if err := st.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all, err := st.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("List all = %d, %v", len(all), err)
	}
	if all[0].ID > all[1].ID {
		t.Fatal("expected ascending ids")
	}
	reformatted, err := st.List(ctx, store.StateReformatted, store.StateFiltered)
	if err != nil || len(reformatted) != 1 || reformatted[0].ID != a.ID {
		t.Fatalf("List reformatted = %#v, %v", reformatted, err)
	}

	removed, err := st.Delete(ctx, a.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, _ = st.Delete(ctx, a.ID)
	if removed {
		t.Fatal("second delete should report nothing removed")
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	video, err := st.Create(context.Background(), "persist", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	st.Close()

	reopened := testsupport.MustOpenStore(t, cfg)
	fetched, err := reopened.Get(context.Background(), video.ID)
	if err != nil || fetched == nil {
		t.Fatalf("expected persisted video, got %#v, %v", fetched, err)
	}
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to store.State
		want     bool
	}{
		{store.StateCreated, store.StateTrimmed, true},
		{store.StateCreated, store.StateReformatted, false},
		{store.StateTrimmed, store.StateReformatted, true},
		{store.StateReformatted, store.StateFiltered, true},
		{store.StateReformatted, store.StateCaptioned, true},
		{store.StateFiltered, store.StateFiltered, true},
		{store.StateFiltered, store.StateCaptioned, true},
		{store.StateFiltered, store.StateTrimmed, false},
		{store.StateCaptioned, store.StateFiltered, false},
		{store.StateCaptioned, store.StateCaptioned, false},
		{store.State("bogus"), store.StateTrimmed, false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !store.StateCaptioned.Terminal() || store.StateFiltered.Terminal() || store.State("x").Valid() {
		t.Fatal("unexpected terminal/valid classification")
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	path := st.Path()
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
}
