package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	doc := []byte("%PDF-1.4 resume")
	got := Fingerprint(doc)

	assert.Equal(t, got, Fingerprint(doc))
	assert.Len(t, got, 12)
	assert.Regexp(t, `^[0-9a-f]+$`, got)
	assert.NotEqual(t, got, Fingerprint([]byte("other")))
}
