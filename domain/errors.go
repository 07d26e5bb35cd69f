package domain

import "errors"

var (
	// ErrNotSignedIn indicates a mutation was attempted without a session.
	// It is raised before any remote call.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrRemoteRead indicates a one-shot read failed. The mutation that
	// needed it is aborted without a lasting optimistic change.
	ErrRemoteRead = errors.New("remote read failed")

	// ErrRemoteWrite indicates the store rejected or timed out a write.
	// The optimistic change is rolled back.
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrEmptyComment indicates the user submitted an empty comment.
	ErrEmptyComment = errors.New("comment cannot be empty")

	// ErrEmptyPost indicates a post with no content and no media.
	ErrEmptyPost = errors.New("post cannot be empty")

	// ErrEmptyTitle indicates a community or event without a title.
	ErrEmptyTitle = errors.New("title cannot be empty")
)
