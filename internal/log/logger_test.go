package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sqlgram.log")

	logger, err := New(path, WithoutConsole())
	require.NoError(t, err)

	logger.Printf("query %d ran\n", 1)
	logger.Println("done")
	logger.Errorf("persist failed: %s", "quota")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "query 1 ran\n")
	assert.Contains(t, content, "done\n")
	assert.Contains(t, content, "persist failed: quota")
}

func TestGlobalLogger_InitAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlgram.log")

	require.NoError(t, Init(path, WithoutConsole()))
	Errorf("ledger: %s", "boom")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ledger: boom")

	// Closing twice is harmless.
	assert.NoError(t, Close())
}
