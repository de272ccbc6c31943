package store

import "errors"

// Errors returned by the article store. Callers distinguish them with
// errors.Is: validation (ErrEmptyText), not-found (ErrArticleNotFound,
// ErrCommentNotFound), authorization (ErrNotOwner, ErrUnknownAuthor) and
// conflict (ErrConflict). Anything else coming out of the store wraps a
// persistence failure.
var (
	// ErrEmptyText rejects article or comment text that is empty after trimming.
	ErrEmptyText = errors.New("text is required")

	// ErrArticleNotFound means the sequential article id resolves to nothing.
	ErrArticleNotFound = errors.New("article not found")

	// ErrCommentNotFound means the comment id does not exist within the
	// targeted article. Distinct from an authorization failure.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotOwner means the acting principal does not own the target.
	ErrNotOwner = errors.New("principal is not the owner")

	// ErrUnknownAuthor means the article's stored author display name could
	// not be resolved back to an account. Treated as an authorization
	// failure, never a crash.
	ErrUnknownAuthor = errors.New("article author cannot be resolved")

	// ErrConflict means the optimistic version check failed repeatedly:
	// another writer kept modifying the article between our read and write.
	ErrConflict = errors.New("article was modified concurrently")
)

// IsAuthorization reports whether err is one of the ownership failures.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrNotOwner) || errors.Is(err, ErrUnknownAuthor)
}
