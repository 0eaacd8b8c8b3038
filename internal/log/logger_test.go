// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The logger is configured once per process, so every test shares this buffer.
var logBuf bytes.Buffer

func TestMain(m *testing.M) {
	Configure(Config{Level: "debug", Output: &logBuf, Service: "test-bot"})
	os.Exit(m.Run())
}

func lastEntry(t *testing.T) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(logBuf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestConfigureOnce(t *testing.T) {
	// A second Configure call must not replace the writer or service name.
	Configure(Config{Service: "other"})

	logger := WithComponent("unit")
	logger.Info().Str("event", "test").Msg("hello")

	entry := lastEntry(t)
	assert.Equal(t, "test-bot", entry["service"])
	assert.Equal(t, "unit", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestWithContextFields(t *testing.T) {
	ctx := ContextWithChatID(context.Background(), 42)
	ctx = ContextWithUserID(ctx, 7)
	ctx = ContextWithUpdateID(ctx, 1001)

	logger := WithComponentFromContext(ctx, "dispatch")
	logger.Info().Msg("update")

	entry := lastEntry(t)
	assert.EqualValues(t, 42, entry[FieldChatID])
	assert.EqualValues(t, 7, entry[FieldUserID])
	assert.EqualValues(t, 1001, entry[FieldUpdateID])
}

func TestWithContextNoFields(t *testing.T) {
	base := Base()
	got := WithContext(context.Background(), base)
	assert.Equal(t, base, got)
}
