package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfielding/zfsearch/wff"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, NewRouter(NewHandlers(nil)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCandidateUnknownRule(t *testing.T) {
	w := do(t, NewRouter(NewHandlers(nil)), http.MethodGet, "/v1/candidates/0", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CandidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0", resp.Index)
	assert.Equal(t, "rule-0", resp.Rule)
	assert.False(t, resp.Known)
	assert.Equal(t, "¬(v0 = v0)", resp.Target)
	assert.False(t, resp.Verdict.Valid)
	assert.Equal(t, "unknown_rule", resp.Verdict.Reason)
	assert.Equal(t, 1, resp.Verdict.Steps)
}

func TestCandidateDecoded(t *testing.T) {
	// 80 is ax-9 over v0 and v1.
	w := do(t, NewRouter(NewHandlers(nil)), http.MethodGet, "/v1/candidates/80", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp CandidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ax-9", resp.Rule)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, SlotResponse{Slot: "A", Kind: "var", Value: "0", Text: "v0"}, resp.Slots[0])
	assert.Equal(t, SlotResponse{Slot: "B", Kind: "var", Value: "1", Text: "v1"}, resp.Slots[1])
	assert.True(t, strings.HasPrefix(resp.Tree, "ax-9\n"))
	assert.False(t, resp.Verdict.Valid)
	assert.Equal(t, "mismatch", resp.Verdict.Reason)
}

func TestCandidateBadIndex(t *testing.T) {
	r := NewRouter(NewHandlers(nil))
	for _, idx := range []string{"abc", "-3", "1.5", strings.Repeat("9", MaxDigits+1)} {
		w := do(t, r, http.MethodGet, "/v1/candidates/"+idx, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, idx)
	}
}

func TestVerify(t *testing.T) {
	r := NewRouter(NewHandlers(nil))
	x, y := wff.Var(0), wff.Var(1)
	claim := wff.Not(wff.All(x, wff.Not(wff.Eq(x, y))))

	body, _ := json.Marshal(VerifyRequest{Claimed: claim.String(), Witness: "80"})
	w := do(t, r, http.MethodPost, "/v1/verify", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verdict.Valid)
	assert.Equal(t, "none", resp.Verdict.Reason)
	assert.Empty(t, resp.Verdict.Error)
	assert.Equal(t, "∃v0 (v0 = v1)", resp.Formula)

	body, _ = json.Marshal(VerifyRequest{Claimed: wff.Target().String(), Witness: "80"})
	w = do(t, r, http.MethodPost, "/v1/verify", string(body))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Verdict.Valid)
	assert.Equal(t, "mismatch", resp.Verdict.Reason)
	assert.Contains(t, resp.Verdict.Error, "ax-9")
}

func TestVerifyNestedVacuousQuantifier(t *testing.T) {
	r := NewRouter(NewHandlers(nil))
	x, y, v5 := wff.Var(1), wff.Var(2), wff.Var(5)
	ph := wff.Eq(x, y)
	for range 3 {
		ph = wff.Imp(wff.El(x, y), ph)
	}
	claim := wff.Imp(ph, wff.All(v5, ph))
	witness := wff.Witness(wff.RuleAx17, v5, ph, big.NewInt(0), big.NewInt(0))
	require.Less(t, len(claim.String()), MaxDigits)

	began := time.Now()
	body, _ := json.Marshal(VerifyRequest{Claimed: claim.String(), Witness: witness.String()})
	w := do(t, r, http.MethodPost, "/v1/verify", string(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, time.Since(began), 2*time.Second)

	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Verdict.Valid, resp.Verdict.Error)
}

func TestVerifyBadRequests(t *testing.T) {
	r := NewRouter(NewHandlers(nil))
	tests := map[string]string{
		"not json":        "{",
		"missing witness": `{"claimed":"10"}`,
		"bad number":      `{"claimed":"ten","witness":"3"}`,
		"negative":        `{"claimed":"10","witness":"-3"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/v1/verify", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewRouter(NewHandlers(nil))
	do(t, r, http.MethodGet, "/healthz", "")

	w := do(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `zfsearch_http_requests_total{code="200",route="/healthz"}`)
}

func TestVerifyConcurrent(t *testing.T) {
	h := NewHandlers(nil)
	done := make(chan bool)
	for i := 0; i < 8; i++ {
		go func(i int64) {
			done <- h.verify(wff.Target(), big.NewInt(i)).Valid
		}(int64(i))
	}
	for i := 0; i < 8; i++ {
		assert.False(t, <-done)
	}
}
