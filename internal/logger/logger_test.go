package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "warn", Format: "json"}, &buf)
	t.Cleanup(func() { InitWithWriter(Config{Level: "info"}, &bytes.Buffer{}) })

	Info().Msg("被过滤")
	Warn().Str("k", "v").Msg("保留")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "保留", entry["message"])
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	InitWithWriter(Config{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, Logger.GetLevel())
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(Config{Level: "debug", Format: "json"}, &buf)
	t.Cleanup(func() { InitWithWriter(Config{Level: "info"}, &bytes.Buffer{}) })

	ctx := WithRequestID(context.Background(), "req-1")
	Ctx(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}

func TestCtxWithoutLoggerFallsBack(t *testing.T) {
	assert.Same(t, &Logger, Ctx(context.Background()))
}

func TestHertzLevel(t *testing.T) {
	assert.Equal(t, hlog.LevelDebug, hertzLevel(zerolog.DebugLevel))
	assert.Equal(t, hlog.LevelWarn, hertzLevel(zerolog.WarnLevel))
	assert.Equal(t, hlog.LevelInfo, hertzLevel(zerolog.InfoLevel))
	assert.Equal(t, hlog.LevelFatal, hertzLevel(zerolog.PanicLevel))
}
