package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GoFunctionScenario(t *testing.T) {
	t.Parallel()

	source := "package p\nfunc Hello() string { return \"hi\" }\n"
	r := NewRegistry()

	chunks, err := r.ChunkFile("a.go", []byte(source), 150)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello", chunks[0].Symbol)
	assert.Equal(t, 2, chunks[0].StartLine)
	assert.Equal(t, 2, chunks[0].EndLine)
	assert.Nil(t, chunks[0].Summary)
}

func TestRegistry_GoTypeConstVarDeclarationsKeepTheirName(t *testing.T) {
	t.Parallel()

	source := "package p\n\ntype Config struct {\n\tName string\n}\n\nconst MaxRetries = 3\n\nvar DefaultTimeout = 30\n"
	r := NewRegistry()

	chunks, err := r.ChunkFile("d.go", []byte(source), 150)
	require.NoError(t, err)

	var symbols []string
	for _, c := range chunks {
		symbols = append(symbols, c.Symbol)
	}
	assert.Contains(t, symbols, "Config")
	assert.Contains(t, symbols, "MaxRetries")
	assert.Contains(t, symbols, "DefaultTimeout")
}

func TestRegistry_RustDocComment(t *testing.T) {
	t.Parallel()

	source := "/// Adds two numbers.\npub fn add(a: i32, b: i32) -> i32 { a + b }\n"
	r := NewRegistry()

	chunks, err := r.ChunkFile("b.rs", []byte(source), 150)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "add", chunks[0].Symbol)
	require.NotNil(t, chunks[0].Summary)
	assert.Equal(t, "Adds two numbers.", *chunks[0].Summary)
}

func TestRegistry_PythonDocstring(t *testing.T) {
	t.Parallel()

	source := "def greet(name):\n    \"\"\"Say hello to name.\"\"\"\n    return f\"hi {name}\"\n"
	r := NewRegistry()

	chunks, err := r.ChunkFile("c.py", []byte(source), 150)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "greet", chunks[0].Symbol)
	require.NotNil(t, chunks[0].Summary)
	assert.Equal(t, "Say hello to name.", *chunks[0].Summary)
}

func TestRegistry_RustImplUnwrapsToMethodsOnly(t *testing.T) {
	t.Parallel()

	source := "struct Point { x: i32, y: i32 }\n\nimpl Point {\n    fn new() -> Point { Point { x: 0, y: 0 } }\n}\n"
	r := NewRegistry()

	chunks, err := r.ChunkFile("point.rs", []byte(source), 150)
	require.NoError(t, err)

	var symbols []string
	for _, c := range chunks {
		symbols = append(symbols, c.Symbol)
	}
	assert.Contains(t, symbols, "Point")
	assert.Contains(t, symbols, "Point::new")
}

func TestRegistry_UnregisteredExtensionYieldsZeroChunks(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	chunks, err := r.ChunkFile("notes.fs", []byte("let x = 1"), 150)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
