package timeline

import "time"

type User struct {
	ID   string `json:"id"`
	Name string `json:"userName"`
}

// Post is a stored post hash.
type Post struct {
	ID     string    `json:"id"`
	UserID string    `json:"userId"`
	Body   string    `json:"body"`
	Time   time.Time `json:"time"`
}

// RenderedPost is a post resolved for display, author name included.
type RenderedPost struct {
	PostID   string    `json:"postId"`
	UserID   string    `json:"userId"`
	UserName string    `json:"userName"`
	Body     string    `json:"body"`
	Time     time.Time `json:"time"`
}
