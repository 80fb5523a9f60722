// Package api serves a small HTTP inspection API over the verifier: decode
// a candidate index, verify an arbitrary (claim, witness) pair, and expose
// Prometheus metrics.
package api

import (
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rfielding/zfsearch/internal/logging"
	"github.com/rfielding/zfsearch/verifier"
	"github.com/rfielding/zfsearch/wff"
)

// MaxDigits bounds decimal inputs. Every decode and comparison is
// polynomial in the size of the integer, so this caps the work one
// request can ask for.
const MaxDigits = 4096

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zfsearch_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zfsearch_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"route"})
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type SlotResponse struct {
	Slot  string `json:"slot"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

// Verdict is the outcome of one verification pass.
type Verdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
	Error  string `json:"error,omitempty"`
	Steps  int    `json:"steps"`
}

type CandidateResponse struct {
	Index   string         `json:"index"`
	Rule    string         `json:"rule"`
	Known   bool           `json:"known"`
	Slots   []SlotResponse `json:"slots,omitempty"`
	Tree    string         `json:"tree"`
	Target  string         `json:"target"`
	Verdict Verdict        `json:"verdict"`
}

type VerifyRequest struct {
	Claimed string `json:"claimed" binding:"required"`
	Witness string `json:"witness" binding:"required"`
}

type VerifyResponse struct {
	Claimed string  `json:"claimed"`
	Formula string  `json:"formula"`
	Verdict Verdict `json:"verdict"`
}

type Handlers struct {
	logger   *slog.Logger
	machines sync.Pool
}

func NewHandlers(logger *slog.Logger) *Handlers {
	return &Handlers{
		logger:   logging.OrDiscard(logger),
		machines: sync.Pool{New: func() any { return verifier.New() }},
	}
}

// NewRouter builds the engine with every route registered. Requests are
// traced through the global tracer provider.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), otelgin.Middleware("zfsearch"), h.observe)
	r.GET("/healthz", h.HandleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterRoutes(r.Group("/v1"), h)
	return r
}

func RegisterRoutes(g *gin.RouterGroup, h *Handlers) {
	g.GET("/candidates/:index", h.HandleCandidate)
	g.POST("/verify", h.HandleVerify)
}

func (h *Handlers) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	elapsed := time.Since(start)
	requestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
	h.logger.Debug("request", "method", c.Request.Method, "route", route,
		"status", c.Writer.Status(), "elapsed", elapsed)
}

func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleCandidate decodes one enumeration index and checks it against the
// search target.
func (h *Handlers) HandleCandidate(c *gin.Context) {
	idx, ok := parseNumber(c, c.Param("index"))
	if !ok {
		return
	}

	proof := wff.ParseWitness(idx)
	resp := CandidateResponse{
		Index:  idx.String(),
		Rule:   proof.Name(),
		Known:  proof.Known,
		Tree:   proof.String(),
		Target: wff.Format(wff.Target()),
	}
	for _, s := range proof.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			Slot:  s.Slot.String(),
			Kind:  s.Kind.String(),
			Value: s.Raw.String(),
			Text:  s.String(),
		})
	}
	resp.Verdict = h.verify(wff.Target(), idx)
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) HandleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	claimed, ok := parseNumber(c, req.Claimed)
	if !ok {
		return
	}
	witness, ok := parseNumber(c, req.Witness)
	if !ok {
		return
	}

	verdict := h.verify(claimed, witness)
	h.logger.Info("verify request", "valid", verdict.Valid, "reason", verdict.Reason)
	c.JSON(http.StatusOK, VerifyResponse{
		Claimed: claimed.String(),
		Formula: wff.Format(claimed),
		Verdict: verdict,
	})
}

func (h *Handlers) verify(claimed, witness *big.Int) Verdict {
	m := h.machines.Get().(*verifier.Machine)
	defer h.machines.Put(m)

	v := Verdict{Valid: m.Verify(claimed, witness), Steps: m.Steps()}
	v.Reason = verifier.ReasonLabel(m.Err())
	if err := m.Err(); err != nil {
		v.Error = err.Error()
	}
	return v
}

// parseNumber writes a 400 response and reports false when s is not a
// non-negative decimal integer of acceptable size.
func parseNumber(c *gin.Context, s string) (*big.Int, bool) {
	if len(s) > MaxDigits {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "number too large", Code: "TOO_LARGE"})
		return nil, false
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "expected a non-negative decimal integer", Code: "INVALID_NUMBER"})
		return nil, false
	}
	return v, true
}
