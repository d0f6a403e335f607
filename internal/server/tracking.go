package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/chetan079bca005-code/ck-protocol/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var untrackedPrefixes = []string{"/static/", "/api/", "/admin", "/favicon", "/healthz"}

// hashIP hashes a client address with the per-process salt. The same address
// maps to the same value for the life of the process only.
func hashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// visitorTracking records successful page views with hashed addresses. It
// honours Do Not Track and skips assets, APIs and admin pages.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				return
			}
		}
		if c.Request.Method != "GET" || c.Writer.Status() >= 400 || c.GetHeader("DNT") == "1" {
			return
		}

		v := store.Visit{
			HashedIP:  hashIP(c.ClientIP(), s.salt),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.visits.Record(ctx, v); err != nil {
				s.logger.Warn("Error recording visitor", zap.Error(err))
			}
		}()
	}
}
