package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContent_Deterministic(t *testing.T) {
	t.Parallel()

	data := []byte("package p\nfunc Hello() string { return \"hi\" }\n")
	h1 := Content(data)
	h2 := Content(data)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1.Hex(), 64)
}

func TestContent_DiffersOnByteChange(t *testing.T) {
	t.Parallel()

	a := ContentHex([]byte("hello"))
	b := ContentHex([]byte("hellp"))
	assert.NotEqual(t, a, b)
}

func TestContent_EmptyInput(t *testing.T) {
	t.Parallel()

	// SHA-256 of the empty string is a well-known constant.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ContentHex(nil))
	assert.Equal(t, ContentHex(nil), ContentHex([]byte{}))
}
