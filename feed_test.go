package mboardweb_test

import (
	"testing"
	"time"

	mboardweb "github.com/mboardhq/go-mboard-web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_SeededTimeline(t *testing.T) {
	feed := mboardweb.NewFeed()

	threads := feed.Threads()
	require.Len(t, threads, 1)
	assert.Equal(t, int64(1), threads[0].ID)
	assert.Equal(t, "admin", threads[0].Author.Username)
}

func TestFeed_AddAndLookup(t *testing.T) {
	feed := mboardweb.NewFeed()

	thread := feed.Add("birb", "first post")
	assert.Equal(t, int64(2), thread.ID)
	assert.Equal(t, "birb", thread.Author.Username)
	assert.Equal(t, "first post", thread.Content)

	loaded, ok := feed.Thread(thread.ID)
	require.True(t, ok)
	assert.Equal(t, thread.Content, loaded.Content)

	_, ok = feed.Thread(999)
	assert.False(t, ok)
}

func TestFeed_ThreadsNewestFirst(t *testing.T) {
	feed := mboardweb.NewFeed()

	feed.Add("birb", "older")
	time.Sleep(time.Millisecond)
	newest := feed.Add("birb", "newer")

	threads := feed.Threads()
	require.Len(t, threads, 3)
	assert.Equal(t, newest.ID, threads[0].ID)
}
