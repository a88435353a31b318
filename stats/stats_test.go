package stats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder()
	assert.Equal(t, "nothing processed", r.Summary())

	n, err := r.Count(download.Stored)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecorderObserve(t *testing.T) {
	r := NewRecorder()

	r.Observe(download.Outcome{Kind: download.Stored, Size: 100})
	r.Observe(download.Outcome{Kind: download.Stored, Size: 50})
	r.Observe(download.Outcome{Kind: download.DuplicateSkipped, Size: 100})
	r.Observe(download.Outcome{Kind: download.InvalidURL, Err: errors.New("bad")})

	n, err := r.Count(download.Stored)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, float64(150), testutil.ToFloat64(r.storedBytes))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.outcomes.WithLabelValues("duplicate_skipped")))

	assert.Equal(t, "stored=2 duplicate_skipped=1 invalid_url=1", r.Summary())
}

func TestRecordersAreIndependent(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()

	a.Observe(download.Outcome{Kind: download.TooLarge})

	assert.Equal(t, "too_large=1", a.Summary())
	assert.Equal(t, "nothing processed", b.Summary())
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(download.Outcome{Kind: download.HTTPError})

	path := filepath.Join(t.TempDir(), "imgfetch.prom")
	require.NoError(t, r.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `imgfetch_outcomes_total{kind="http_error"} 1`)
	assert.Contains(t, string(b), `imgfetch_outcomes_total{kind="stored"} 0`)
	assert.Contains(t, string(b), "imgfetch_stored_bytes_total 0")
}
