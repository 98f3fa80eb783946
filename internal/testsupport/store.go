package testsupport

import (
	"context"
	"testing"

	"shortsmith/internal/config"
	"shortsmith/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewVideo creates a video record for tests using the provided store.
func NewVideo(t testing.TB, st *store.Store, sourceID, title string) *store.Video {
	t.Helper()

	video, err := st.Create(context.Background(), sourceID, title)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return video
}
