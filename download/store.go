package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ccollins476ad/imgfetch/fileutil"
	"github.com/segmentio/ksuid"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds each http request, including the body read.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxSize is the largest Content-Length accepted (10 MiB).
	DefaultMaxSize int64 = 10 * 1024 * 1024
)

var hashFile = fileutil.HashFile

// Store downloads images into a single destination directory. It keeps no
// state between calls to Process(): every duplicate check rescans the
// directory. It is not safe for concurrent use.
type Store struct {
	destDir string // constant

	hc *http.Client

	Timeout time.Duration // Per-request timeout.
	MaxSize int64         // Largest accepted Content-Length, in bytes.
}

func NewStore(destDir string) *Store {
	return &Store{
		destDir: destDir,
		hc:      NewHTTPClient(),
		Timeout: DefaultTimeout,
		MaxSize: DefaultMaxSize,
	}
}

// DestDir returns the store's destination directory.
func (s *Store) DestDir() string {
	return s.destDir
}

// HTTPClient returns the store's http client.
func (s *Store) HTTPClient() *http.Client {
	return s.hc
}

// SetHTTPClient replaces the store's http client.
func (s *Store) SetHTTPClient(hc *http.Client) {
	s.hc = hc
}

// Process downloads the image at url=u and saves it to the destination
// directory, unless a file with identical content is already there. It never
// returns an error; failures are reported through the outcome's Kind and Err
// fields.
func (s *Store) Process(ctx context.Context, u string) Outcome {
	entry := log.WithFields(log.Fields{
		"req": ksuid.New().String(),
		"url": u,
	})

	o := s.process(ctx, entry, u)
	o.URL = u

	if o.Kind.IsFailure() {
		entry.WithError(o.Err).Debugf("download failed: kind=%s", o.Kind)
	} else {
		entry.Debugf("download finished: kind=%s path=%s", o.Kind, o.Path)
	}

	return o
}

func (s *Store) process(ctx context.Context, entry *log.Entry, u string) Outcome {
	pu, err := url.Parse(u)
	if err != nil {
		return Outcome{Kind: InvalidURL, Err: err}
	}
	if pu.Scheme == "" || pu.Host == "" {
		return Outcome{Kind: InvalidURL, Err: fmt.Errorf("url lacks scheme or host")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	rsp, err := Fetch(ctx, s.hc, u, nil)
	if err != nil {
		return Outcome{Kind: ConnectionError, Err: err}
	}
	defer rsp.Body.Close()

	// Reject based on headers before touching the body.
	if !IsImage(rsp) {
		return Outcome{
			Kind: NotAnImage,
			Err:  fmt.Errorf("content type is %q", rsp.Header.Get("Content-Type")),
		}
	}
	if rsp.ContentLength > s.MaxSize {
		return Outcome{
			Kind: TooLarge,
			Size: rsp.ContentLength,
			Err:  fmt.Errorf("content length exceeds limit: have=%d max=%d", rsp.ContentLength, s.MaxSize),
		}
	}

	err = CheckStatus(rsp)
	if err != nil {
		return Outcome{Kind: HTTPError, Err: err}
	}

	// A transparently decompressed body has no trustworthy declared length,
	// so its size is enforced while reading.
	limit := int64(-1)
	if rsp.Uncompressed {
		limit = s.MaxSize
	}

	b, err := ReadBody(rsp, limit)
	if errors.Is(err, ErrBodyTooLarge) {
		return Outcome{Kind: TooLarge, Size: int64(len(b)), Err: err}
	}
	if err != nil {
		return Outcome{Kind: ConnectionError, Err: err}
	}

	hash := fileutil.HashBytes(b)
	size := int64(len(b))
	entry.Debugf("read body: size=%d hash=%s", size, hash)

	dup, err := s.FindDuplicate(hash)
	if err != nil {
		return Outcome{Kind: UnexpectedError, Hash: hash, Size: size, Err: err}
	}
	if dup != "" {
		return Outcome{Kind: DuplicateSkipped, Path: dup, Hash: hash, Size: size}
	}

	filename, err := Filename(pu, hash)
	if err != nil {
		return Outcome{
			Kind: UnexpectedError,
			Hash: hash,
			Size: size,
			Err:  fmt.Errorf("failed to convert url to filename: %w", err),
		}
	}

	destPath, err := s.SaveFile(filename, b)
	if err != nil {
		return Outcome{Kind: UnexpectedError, Hash: hash, Size: size, Err: err}
	}

	return Outcome{
		Kind:     Stored,
		Filename: filename,
		Path:     destPath,
		Hash:     hash,
		Size:     size,
	}
}

// FindDuplicate scans every file in the destination directory, including
// subdirectories, and returns the path of the first one whose content hash
// equals hash. It returns the empty string if there is no such file. Files
// that cannot be read are logged and skipped.
func (s *Store) FindDuplicate(hash string) (string, error) {
	return fileutil.FindFileIf(s.destDir, func(path string) (bool, error) {
		h, err := hashFile(path)
		if err != nil {
			log.WithError(err).Warnf("skipping unreadable file: path=%s", path)
			return false, nil
		}
		return h == hash, nil
	})
}

// SaveFile writes b to the given path, relative to the destination
// directory, creating the directory if necessary. It returns the full path of
// the written file.
func (s *Store) SaveFile(relPath string, b []byte) (string, error) {
	destPath := filepath.Join(s.destDir, relPath)

	err := os.MkdirAll(filepath.Dir(destPath), 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create directory: path=%s err=%w", filepath.Dir(destPath), err)
	}

	log.Debugf("saving %s", destPath)
	err = fileutil.WriteFileAtomic(destPath, b, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to save http response: %w", err)
	}

	return destPath, nil
}
