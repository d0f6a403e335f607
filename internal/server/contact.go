package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contactForm struct {
	Name    string `form:"name" json:"name" binding:"required,max=120"`
	Email   string `form:"email" json:"email" binding:"required,email,max=254"`
	Message string `form:"message" json:"message" binding:"required,max=5000"`
}

// handleContact pretends to transmit the message: it validates, waits the
// configured delay and reports success. Nothing is sent or stored.
func (s *Server) handleContact(c *gin.Context) {
	client := hashIP(c.ClientIP(), s.salt)

	// Validation runs first so a typo does not spend the client's burst.
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.logger.Debug("Rejected contact form", zap.String("client", client), zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": "Please fill in your name, a valid email and a message.",
		})
		return
	}

	if !s.contact.Allow(client) {
		c.HTML(http.StatusTooManyRequests, "contact-error.html", gin.H{
			"error": "Too many transmissions. Please wait a moment and try again.",
		})
		return
	}

	timer := time.NewTimer(s.cfg.Contact.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-c.Request.Context().Done():
		s.logger.Debug("Contact form abandoned", zap.String("client", client))
		return
	}

	s.logger.Info("Contact transmission simulated",
		zap.String("client", client),
		zap.Int("message_len", len(form.Message)),
	)
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": "Your message has been encrypted and sent.",
		"resetMs": 5000,
	})
}
