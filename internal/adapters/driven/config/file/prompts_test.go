package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scout-cli/internal/core/ports/driven"
)

const testPrompt = "Find {{.Query}} events near {{.Date}}"

func newTestPromptStore(t *testing.T, dir string) *PromptStore {
	t.Helper()
	store, err := NewPromptStore(dir, map[string]string{driven.PromptEventSearch: testPrompt})
	require.NoError(t, err)
	return store
}

func TestNewPromptStore_WithCustomDir(t *testing.T) {
	dir := t.TempDir()

	store := newTestPromptStore(t, dir)

	assert.Equal(t, dir, store.Dir())
}

func TestNewPromptStore_DefaultDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	store := newTestPromptStore(t, "")

	assert.Equal(t, filepath.Join(dir, "prompts"), store.Dir())
}

func TestPromptStore_Load_CreatesDefaultFiles(t *testing.T) {
	dir := t.TempDir()
	store := newTestPromptStore(t, dir)

	_, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)

	for _, f := range []string{"event_search.txt", "README.md"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, "expected file %s to exist", f)
	}
}

func TestPromptStore_Load_ReturnsDefaultContent(t *testing.T) {
	store := newTestPromptStore(t, t.TempDir())

	prompt, err := store.Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, testPrompt, prompt)
}

func TestPromptStore_Load_ReturnsCustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "Custom search for {{.Query}}"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte(custom), 0o600))

	prompt, err := newTestPromptStore(t, dir).Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, custom, prompt)
}

func TestPromptStore_Load_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	store := newTestPromptStore(t, dir)

	_, _ = store.Load(driven.PromptEventSearch)
	require.NoError(t, os.Remove(filepath.Join(dir, "event_search.txt")))
	store.Reload()

	prompt, err := store.Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, testPrompt, prompt)
}

func TestPromptStore_Load_EmptyFileFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte("  \n"), 0o600))

	prompt, err := newTestPromptStore(t, dir).Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, testPrompt, prompt)
}

func TestPromptStore_Load_UnknownPrompt(t *testing.T) {
	store := newTestPromptStore(t, t.TempDir())

	_, err := store.Load("nonexistent_prompt")

	assert.ErrorContains(t, err, "nonexistent_prompt")
}

func TestPromptStore_Load_CachesResults(t *testing.T) {
	dir := t.TempDir()
	store := newTestPromptStore(t, dir)

	first, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte("modified"), 0o600))

	second, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPromptStore_Reload_ClearsCache(t *testing.T) {
	dir := t.TempDir()
	store := newTestPromptStore(t, dir)

	_, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte("modified {{.Query}}"), 0o600))

	store.Reload()
	prompt, err := store.Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, "modified {{.Query}}", prompt)
}

func TestPromptStore_Load_ConcurrentAccess(t *testing.T) {
	store := newTestPromptStore(t, t.TempDir())

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]string, goroutines)
	errs := make([]error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.Load(driven.PromptEventSearch)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, testPrompt, results[i])
	}
}

func TestPromptStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := "pre-existing custom prompt"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte(custom), 0o600))

	_, _ = newTestPromptStore(t, dir).Load(driven.PromptEventSearch)

	data, err := os.ReadFile(filepath.Join(dir, "event_search.txt"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestPromptStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte("\n\n  prompt content  \n\n"), 0o600))

	prompt, err := newTestPromptStore(t, dir).Load(driven.PromptEventSearch)

	require.NoError(t, err)
	assert.Equal(t, "prompt content", prompt)
}

func TestPromptStore_HandleEvent(t *testing.T) {
	store := newTestPromptStore(t, t.TempDir())

	tests := []struct {
		name    string
		event   fsnotify.Event
		want    string
		changed bool
	}{
		{name: "write", event: fsnotify.Event{Name: "/p/event_search.txt", Op: fsnotify.Write}, want: "event_search", changed: true},
		{name: "create", event: fsnotify.Event{Name: "/p/other.txt", Op: fsnotify.Create}, want: "other", changed: true},
		{name: "remove", event: fsnotify.Event{Name: "/p/event_search.txt", Op: fsnotify.Remove}, want: "event_search", changed: true},
		{name: "chmod only", event: fsnotify.Event{Name: "/p/event_search.txt", Op: fsnotify.Chmod}},
		{name: "readme", event: fsnotify.Event{Name: "/p/README.md", Op: fsnotify.Write}},
		{name: "hidden swap file", event: fsnotify.Event{Name: "/p/.event_search.txt", Op: fsnotify.Write}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, changed := store.handleEvent(tt.event)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestPromptStore_Watch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	store := newTestPromptStore(t, dir)

	_, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_search.txt"), []byte("edited {{.Query}}"), 0o600))

	select {
	case name := <-changes:
		assert.Equal(t, driven.PromptEventSearch, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	prompt, err := store.Load(driven.PromptEventSearch)
	require.NoError(t, err)
	assert.Equal(t, "edited {{.Query}}", prompt)

	cancel()
	assert.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 10*time.Millisecond)
}
