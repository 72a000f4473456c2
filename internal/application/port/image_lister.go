package port

import "context"

// ImageLister discovers candidate wallpaper images.
type ImageLister interface {
	// ListImages returns image paths under dir in lexical order.
	ListImages(ctx context.Context, dir string, recursive bool) ([]string, error)
}
