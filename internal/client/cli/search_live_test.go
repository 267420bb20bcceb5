package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/ddanilov/daybook/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Rapid edits arriving inside the quiet period must collapse into one
// request for the last term, not one request per line.
func TestLiveSearch_RapidEditsCollapse(t *testing.T) {
	entries := &fakeEntrySvc{}
	app := &App{
		config:  &config.Config{PageSize: 5, Debounce: 30 * time.Millisecond},
		entries: entries,
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- app.runLiveSearch(context.Background(), pr, listOptions{})
	}()

	_, err := io.WriteString(pw, "bea\nbeach\nbeach trip\n")
	require.NoError(t, err)

	// let the quiet period elapse before ending the session, otherwise
	// the pending request is cancelled along with the loop
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, pw.Close())
	require.NoError(t, <-done)

	entries.mu.Lock()
	defer entries.mu.Unlock()
	require.Len(t, entries.listOpts, 1)
	assert.Equal(t, "beach trip", entries.listOpts[0].Query)
}

// Quitting before the quiet period elapses cancels the pending request.
func TestLiveSearch_QuitCancelsPending(t *testing.T) {
	entries := &fakeEntrySvc{}
	app := &App{
		config:  &config.Config{PageSize: 5, Debounce: time.Hour},
		entries: entries,
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- app.runLiveSearch(context.Background(), pr, listOptions{})
	}()

	_, err := io.WriteString(pw, "beach\n\n")
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.NoError(t, pw.Close())

	entries.mu.Lock()
	defer entries.mu.Unlock()
	assert.Empty(t, entries.listOpts)
}
