package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

func (s *Server) validAdminToken(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

// adminAuth accepts the token as a bearer header or as the login cookie.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !s.validAdminToken(token) {
			token, _ = c.Cookie(adminCookie)
		}
		if !s.validAdminToken(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		client := hashIP(c.ClientIP(), s.salt)
		if !s.validAdminToken(c.PostForm("token")) {
			s.logger.Warn("Failed admin login attempt", zap.String("client", client))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{"error": "Invalid credentials"})
			return
		}
		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		s.logger.Info("Admin login successful", zap.String("client", client))
		c.Redirect(http.StatusFound, "/admin/api/stats")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", gin.Mode() == gin.ReleaseMode, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin/api", s.adminAuth())

	admin.GET("/stats", func(c *gin.Context) {
		if s.visits == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking disabled"})
			return
		}
		stats, err := s.visits.Stats(c.Request.Context(), time.Now(), 50)
		if err != nil {
			s.logger.Error("Error loading admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/streams", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"active": s.streams.Len()})
	})

	admin.POST("/cleanup", func(c *gin.Context) {
		if s.visits == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "visitor tracking disabled"})
			return
		}
		n, err := s.visits.Cleanup(c.Request.Context(), time.Now().Add(-s.cfg.Store.Retention))
		if err != nil {
			s.logger.Error("Error cleaning up visitor data", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}
