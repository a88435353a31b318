package download

import (
	"net/url"
	"path"
	"strings"

	"github.com/flytam/filenamify"
)

const (
	// FallbackBase names files whose url has no usable path segment.
	FallbackBase = "downloaded_image"

	// FallbackExt is the extension given to files named after FallbackBase.
	FallbackExt = ".jpg"
)

// Filename returns the local filename used to save content with the given hash
// retrieved from u. The name is the last segment of the url path with the
// hash spliced in before the extension (e.g., cat.png --> cat_<hash>.png), so
// distinct images sharing a name do not collide. If the url path ends without
// a segment, the name is synthesized as downloaded_image_<hash>.jpg.
func Filename(u *url.URL, hash string) (string, error) {
	seg := u.Path[strings.LastIndex(u.Path, "/")+1:]
	if seg == "" {
		return FallbackBase + "_" + hash + FallbackExt, nil
	}

	safe, err := filenamify.Filenamify(seg, filenamify.Options{Replacement: "_"})
	if err != nil {
		return "", err
	}

	ext := path.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	if base == "" {
		base = FallbackBase
	}

	return base + "_" + hash + ext, nil
}
