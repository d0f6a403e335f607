package observability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chetan079bca005-code/ck-protocol/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeLogger(t *testing.T) {
	t.Run("json console output", func(t *testing.T) {
		ResetForTest()
		defer ResetForTest()

		var buf bytes.Buffer
		Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "site"}, zapcore.AddSync(&buf))
		GetLogger().Info("hello", zap.Int("n", 3))
		Sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "site", entry["logger"])
		assert.Equal(t, "hello", entry["msg"])
		assert.EqualValues(t, 3, entry["n"])
	})

	t.Run("level filters", func(t *testing.T) {
		ResetForTest()
		defer ResetForTest()

		var buf bytes.Buffer
		Initialize(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(&buf))
		GetLogger().Info("quiet")
		GetLogger().Warn("loud")
		Sync()

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})

	t.Run("only first initialize wins", func(t *testing.T) {
		ResetForTest()
		defer ResetForTest()

		var first, second bytes.Buffer
		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
		Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
		GetLogger().Info("once")
		Sync()

		assert.Contains(t, first.String(), "once")
		assert.Empty(t, second.String())
	})

	t.Run("file sink", func(t *testing.T) {
		ResetForTest()
		defer ResetForTest()

		path := filepath.Join(t.TempDir(), "site.log")
		var buf bytes.Buffer
		Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&buf))
		GetLogger().Info("to file")
		Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file"`)
	})
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}

func TestGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(GinLogger(zap.New(core)), GinRecovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	for _, path := range []string{"/ok", "/missing", "/panic"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	levels := map[string]zapcore.Level{}
	for _, e := range entries {
		if e.Message == "request" {
			levels[e.ContextMap()["path"].(string)] = e.Level
		}
	}
	assert.Equal(t, zapcore.DebugLevel, levels["/ok"])
	assert.Equal(t, zapcore.WarnLevel, levels["/missing"])
	assert.Equal(t, zapcore.ErrorLevel, levels["/panic"])

	var recovered bool
	for _, e := range entries {
		if strings.Contains(e.Message, "panic recovered") {
			recovered = true
		}
	}
	assert.True(t, recovered)
}
