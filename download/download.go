package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrBodyTooLarge indicates a response body longer than the permitted size.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// NewHTTPClient returns a client that does not request compressed responses.
// Transparent decompression drops the Content-Length header, and with it the
// declared size of the image.
func NewHTTPClient() *http.Client {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	return &http.Client{Transport: t}
}

// Fetch performs an http GET with url=u using the supplied client and header.
// It does not inspect the response status; see CheckStatus(). The caller must
// close the response body.
func Fetch(ctx context.Context, hc *http.Client, u string, header http.Header) (*http.Response, error) {
	log.Debugf("get: %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rsp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return rsp, nil
}

// CheckStatus returns an error if the response status is not 2xx.
func CheckStatus(rsp *http.Response) error {
	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return fmt.Errorf("error status: %s", rsp.Status)
	}
	return nil
}

// IsImage reports whether the response declares an image media type.
func IsImage(rsp *http.Response) bool {
	ct := strings.ToLower(strings.TrimSpace(rsp.Header.Get("Content-Type")))
	return strings.HasPrefix(ct, "image/")
}

// ReadBody reads the full response body. It does not close the body. If limit
// is non-negative, it reads at most limit+1 bytes and returns ErrBodyTooLarge
// along with the bytes read when the body is longer than limit.
func ReadBody(rsp *http.Response, limit int64) ([]byte, error) {
	r := io.Reader(rsp.Body)
	if limit >= 0 {
		r = io.LimitReader(rsp.Body, limit+1)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if limit >= 0 && int64(len(b)) > limit {
		return b, fmt.Errorf("%w: max=%d", ErrBodyTooLarge, limit)
	}
	return b, nil
}
