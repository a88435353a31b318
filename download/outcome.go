package download

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Kind classifies the result of processing a single url.
type Kind int

const (
	Stored           Kind = iota // Image written to disk.
	DuplicateSkipped             // Identical content already stored; nothing written.
	InvalidURL                   // URL lacks a scheme or host.
	ConnectionError              // Network, DNS or timeout failure.
	HTTPError                    // Non-2xx response status.
	NotAnImage                   // Content-Type absent or not image/*.
	TooLarge                     // Declared or decompressed size exceeds the limit.
	UnexpectedError              // Anything else, e.g., a filesystem failure.
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{
	Stored,
	DuplicateSkipped,
	InvalidURL,
	ConnectionError,
	HTTPError,
	NotAnImage,
	TooLarge,
	UnexpectedError,
}

var kindNames = map[Kind]string{
	Stored:           "stored",
	DuplicateSkipped: "duplicate_skipped",
	InvalidURL:       "invalid_url",
	ConnectionError:  "connection_error",
	HTTPError:        "http_error",
	NotAnImage:       "not_an_image",
	TooLarge:         "too_large",
	UnexpectedError:  "unexpected_error",
}

// String returns the kind's stable snake_case name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsFailure returns true for kinds that represent an error. A skipped
// duplicate is a policy decision, not a failure.
func (k Kind) IsFailure() bool {
	return k != Stored && k != DuplicateSkipped
}

// Outcome is the terminal result of processing one url.
type Outcome struct {
	Kind     Kind
	URL      string
	Filename string // Stored: name of the new file.
	Path     string // Stored: path of the new file. DuplicateSkipped: path of the existing copy.
	Hash     string // Content hash, once the body has been read.
	Size     int64  // Body size, or the declared Content-Length for TooLarge.
	Err      error  // Underlying cause for failure kinds.
}

// String renders the outcome as a single human-readable status line.
func (o Outcome) String() string {
	switch o.Kind {
	case Stored:
		return fmt.Sprintf("saved %s (%s) to %s", o.Filename, humanize.IBytes(uint64(o.Size)), o.Path)
	case DuplicateSkipped:
		return fmt.Sprintf("skipping duplicate: %s matches %s", o.URL, o.Path)
	case InvalidURL:
		return fmt.Sprintf("invalid url: %s", o.URL)
	case NotAnImage:
		return fmt.Sprintf("not an image: %s: %v", o.URL, o.Err)
	case TooLarge:
		return fmt.Sprintf("too large: %s (%s)", o.URL, humanize.IBytes(uint64(o.Size)))
	case ConnectionError:
		return fmt.Sprintf("connection error: %s: %v", o.URL, o.Err)
	case HTTPError:
		return fmt.Sprintf("http error: %s: %v", o.URL, o.Err)
	default:
		return fmt.Sprintf("unexpected error: %s: %v", o.URL, o.Err)
	}
}
