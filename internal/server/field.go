package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/chetan079bca005-code/ck-protocol/internal/particles"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var ErrSessionNotFound = errors.New("field session not found")

// fieldSession is one mounted background: a private field plus the pointer
// limiter for its input endpoint.
type fieldSession struct {
	id      string
	field   *particles.Field
	limiter *rate.Limiter
}

type streamRegistry struct {
	sem *semaphore.Weighted

	mu       sync.Mutex
	sessions map[string]*fieldSession
}

func newStreamRegistry(limit int64) *streamRegistry {
	return &streamRegistry{
		sem:      semaphore.NewWeighted(limit),
		sessions: make(map[string]*fieldSession),
	}
}

func (r *streamRegistry) open(f *particles.Field, lim *rate.Limiter) *fieldSession {
	sess := &fieldSession{id: uuid.NewString(), field: f, limiter: lim}
	r.mu.Lock()
	r.sessions[sess.id] = sess
	r.mu.Unlock()
	return sess
}

func (r *streamRegistry) close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *streamRegistry) get(id string) (*fieldSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Len is the number of mounted streams.
func (r *streamRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type fieldInit struct {
	ID     string     `json:"id"`
	Count  int        `json:"count"`
	FPS    int        `json:"fps"`
	Bounds [3]float64 `json:"bounds"`
	// Colors is flat RGB per particle; they never change after init.
	Colors []float32 `json:"colors"`
}

type fieldFrame struct {
	T float64 `json:"t"`
	// P is flat XYZ per particle.
	P []float32 `json:"p"`
	// L is seven values per line: both endpoints then the fade.
	L []float32 `json:"l"`
}

// encode fills fr from a simulator frame, reusing its slices.
func (fr *fieldFrame) encode(f particles.Frame, elapsed time.Duration) {
	fr.T = elapsed.Seconds()
	fr.P = fr.P[:0]
	for _, p := range f.Positions {
		fr.P = append(fr.P, float32(p.X), float32(p.Y), float32(p.Z))
	}
	fr.L = fr.L[:0]
	for _, seg := range f.Lines[:f.LineCount] {
		// Line color is cyan scaled by the fade and cyan's blue channel is
		// one, so B is the fade itself.
		fr.L = append(fr.L,
			float32(seg.A.X), float32(seg.A.Y), float32(seg.A.Z),
			float32(seg.B.X), float32(seg.B.Y), float32(seg.B.Z),
			float32(seg.ColorA.B),
		)
	}
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// handleFieldStream mounts a field for the connection and streams frames as
// server-sent events until the client goes away.
func (s *Server) handleFieldStream(c *gin.Context) {
	fc := s.cfg.Field
	count, err := queryInt(c, "count", fc.Count)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
		return
	}
	count = min(max(count, 0), fc.MaxCount)

	if !s.streams.sem.TryAcquire(1) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many field streams"})
		return
	}
	defer s.streams.sem.Release(1)

	pcfg := particles.DefaultConfig()
	pcfg.Count = count
	pcfg.Seed = fc.Seed
	sess := s.streams.open(particles.New(pcfg), rate.NewLimiter(rate.Limit(fc.PointerRate), fc.PointerBurst))
	defer s.streams.close(sess.id)

	if w, err := queryInt(c, "width", 0); err == nil && w > 0 {
		if h, err := queryInt(c, "height", 0); err == nil && h > 0 {
			sess.field.Pointer().Resize(float64(w), float64(h))
		}
	}

	log := s.logger.With(zap.String("session", sess.id), zap.Int("count", count))
	log.Debug("Field stream mounted")
	defer log.Debug("Field stream unmounted")

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	b := pcfg.Bounds
	colors := make([]float32, 0, count*3)
	for i := 0; i < sess.field.Len(); i++ {
		col := sess.field.Color(i)
		colors = append(colors, float32(col.R), float32(col.G), float32(col.B))
	}
	hello := fieldInit{ID: sess.id, Count: count, FPS: fc.FPS, Bounds: [3]float64{b.X, b.Y, b.Z}, Colors: colors}
	if err := sse.Encode(c.Writer, sse.Event{Event: "init", Data: hello}); err != nil {
		log.Debug("Field stream closed before init", zap.Error(err))
		return
	}
	c.Writer.Flush()

	var frame fieldFrame
	loop := &particles.Loop{
		Interval: fc.FrameInterval(),
		Render: func(_ context.Context, f particles.Frame, elapsed time.Duration) error {
			frame.encode(f, elapsed)
			if err := sse.Encode(c.Writer, sse.Event{Event: "frame", Data: frame}); err != nil {
				return err
			}
			c.Writer.Flush()
			return nil
		},
	}
	if err := loop.Run(c.Request.Context(), sess.field); err != nil {
		log.Debug("Field stream write failed", zap.Error(err))
	}
}

type pointerInput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
	Leave  bool    `json:"leave"`
}

// handleFieldPointer writes a pointer sample into a mounted field.
func (s *Server) handleFieldPointer(c *gin.Context) {
	sess, err := s.streams.get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if !sess.limiter.Allow() {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var in pointerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := sess.field.Pointer()
	switch {
	case in.Leave:
		p.Clear()
	case in.Width > 0 && in.Height > 0:
		p.Set(in.X, in.Y, in.Width, in.Height)
	default:
		p.Move(in.X, in.Y)
	}
	c.Status(http.StatusNoContent)
}
