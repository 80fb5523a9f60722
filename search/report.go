package search

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/rfielding/zfsearch/verifier"
	"github.com/rfielding/zfsearch/wff"
)

// Stats counts candidates by the rule of their root witness and by the
// reason they were rejected.
type Stats struct {
	ByRule   map[string]uint64
	ByReason map[string]uint64
	Steps    uint64 // witnesses examined across all candidates
}

func NewStats() *Stats {
	return &Stats{
		ByRule:   make(map[string]uint64),
		ByReason: make(map[string]uint64),
	}
}

// Record counts the outcome of the pass m just ran on idx.
func (s *Stats) Record(idx *big.Int, m *verifier.Machine) {
	s.ByRule[ruleLabel(idx)]++
	s.ByReason[outcome(m)]++
	s.Steps += uint64(m.Steps())
}

func ruleLabel(idx *big.Int) string {
	if rule, ok := wff.RuleFrom(wff.RuleOf(idx)); ok {
		return rule.String()
	}
	return "unknown"
}

func outcome(m *verifier.Machine) string {
	if m.Valid() {
		return "accepted"
	}
	return verifier.ReasonLabel(m.Err())
}

// Report renders the result as markdown tables.
func (r *Result) Report() string {
	var sb strings.Builder
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	row := func(k string, v any) { fmt.Fprintf(&sb, "| %s | %v |\n", k, v) }
	row("run", r.RunID)
	row("stop", r.Stop)
	row("start", r.Start)
	row("next", r.Next)
	row("candidates", r.Candidates)
	row("elapsed", r.Elapsed.Round(time.Microsecond))
	row("rate", fmt.Sprintf("%.2f/s", perSecond(r.Candidates, r.Elapsed)))
	if r.Stats != nil {
		row("verifier steps", r.Stats.Steps)
	}
	if r.Found() {
		row("proof index", r.Index)
	}

	if r.Stats != nil {
		sb.WriteString("\n")
		writeCounts(&sb, "Rule", r.Stats.ByRule)
		sb.WriteString("\n")
		writeCounts(&sb, "Reason", r.Stats.ByReason)
	}
	return sb.String()
}

func writeCounts(sb *strings.Builder, title string, counts map[string]uint64) {
	fmt.Fprintf(sb, "| %s | Candidates |\n", title)
	sb.WriteString("|------|------------|\n")

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "| %s | %d |\n", name, counts[name])
	}
}
