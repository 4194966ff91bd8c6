package mboardweb

import (
	"sort"
	"sync"
	"time"
)

// ThreadAuthor is the display identity attached to a thread.
type ThreadAuthor struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// Thread is one message on the board timeline.
type Thread struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	Author    ThreadAuthor `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
	Likes     int          `json:"likes"`
	Reposts   int          `json:"retweets"`
	Replies   int          `json:"replies"`
}

// Feed holds the board timeline. The backing data is an in-memory mock
// until the threads API ships; the surface is what the pages consume.
type Feed struct {
	mu      sync.RWMutex
	threads []Thread
	nextID  int64
}

// NewFeed seeds the timeline with the launch placeholder post.
func NewFeed() *Feed {
	return &Feed{
		threads: []Thread{
			{
				ID:      1,
				Content: "Message BIRB :))",
				Author: ThreadAuthor{
					Username:    "admin",
					DisplayName: "mBoard Admin",
					Avatar:      "https://api.dicebear.com/7.x/avataaars/svg?seed=admin",
				},
				CreatedAt: time.Now(),
			},
		},
		nextID: 2,
	}
}

// Threads returns the timeline, newest first.
func (f *Feed) Threads() []Thread {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Thread, len(f.threads))
	copy(out, f.threads)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

// Thread returns one thread by id.
func (f *Feed) Thread(id int64) (Thread, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, t := range f.threads {
		if t.ID == id {
			return t, true
		}
	}
	return Thread{}, false
}

// Add appends a new thread authored by the given username.
func (f *Feed) Add(username, content string) Thread {
	f.mu.Lock()
	defer f.mu.Unlock()

	thread := Thread{
		ID:      f.nextID,
		Content: content,
		Author: ThreadAuthor{
			Username:    username,
			DisplayName: username,
			Avatar:      "https://api.dicebear.com/7.x/avataaars/svg?seed=" + username,
		},
		CreatedAt: time.Now(),
	}

	f.nextID++
	f.threads = append(f.threads, thread)
	return thread
}
