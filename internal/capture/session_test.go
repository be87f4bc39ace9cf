package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAdmit(t *testing.T) {
	s := NewSession("run-1")

	first, ok := s.Admit(ExtractedPage{Fingerprint: "fp-1", ImageBytes: []byte("one"), Format: "png", Width: 800, Height: 1200})
	require.True(t, ok)
	assert.Equal(t, 1, first.SequenceIndex)

	second, ok := s.Admit(ExtractedPage{Fingerprint: "fp-2", ImageBytes: []byte("two"), Format: "png", Width: 800, Height: 1200})
	require.True(t, ok)
	assert.Equal(t, 2, second.SequenceIndex)

	_, ok = s.Admit(ExtractedPage{Fingerprint: "fp-1", ImageBytes: []byte("one again")})
	assert.False(t, ok, "duplicate fingerprint must be rejected")
	assert.Equal(t, 2, s.Len(), "duplicates must not consume sequence indexes")

	third, ok := s.Admit(ExtractedPage{Fingerprint: "fp-3", ImageBytes: []byte("three"), Format: "jpg", Width: 900, Height: 1300})
	require.True(t, ok)
	assert.Equal(t, 3, third.SequenceIndex, "index continues past rejected duplicates")
}

func TestSessionSeen(t *testing.T) {
	s := NewSession("run-1")
	assert.False(t, s.Seen("fp-1"))

	_, ok := s.Admit(ExtractedPage{Fingerprint: "fp-1", ImageBytes: []byte("one")})
	require.True(t, ok)
	assert.True(t, s.Seen("fp-1"))
	assert.False(t, s.Seen("fp-2"))
}

func TestSessionResult(t *testing.T) {
	s := NewSession("run-7")
	for _, fp := range []string{"a", "b", "c"} {
		_, ok := s.Admit(ExtractedPage{Fingerprint: fp, ImageBytes: []byte(fp)})
		require.True(t, ok)
	}
	s.MarkSkipped()
	s.MarkIncomplete()

	result := s.Result()
	assert.Equal(t, "run-7", result.RunID)
	assert.True(t, result.Incomplete)
	assert.Equal(t, 1, result.SkippedPositions)

	require.Len(t, result.Pages, 3)
	for i, page := range result.Pages {
		assert.Equal(t, i+1, page.SequenceIndex, "pages must be contiguous and in first-seen order")
	}

	// The result is a snapshot, not a view of the session.
	_, ok := s.Admit(ExtractedPage{Fingerprint: "d", ImageBytes: []byte("d")})
	require.True(t, ok)
	assert.Len(t, result.Pages, 3)
}
