package port

import "context"

// FileSelector returns the chosen path, or "" when the user cancels.
type FileSelector interface {
	SelectVideo(ctx context.Context) (string, error)
}
