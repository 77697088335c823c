package dedupe

import "math"

// Pair records which candidate and existing list items matched.
type Pair struct {
	Candidate int
	Existing  int
}

// Match describes the first existing record a candidate duplicates.
type Match struct {
	// Index is the position of the conflicting record in the peers slice.
	Index  int
	Clause string
	Scores map[string]float64
	Pairs  map[string]Pair
}

// Evaluate returns the first peer, in peer order, that the candidate
// duplicates under policy, or nil when there is none. Rules inside a clause
// short-circuit in declaration order.
func Evaluate(policy Policy, candidate Fields, peers []Fields) *Match {
	if len(policy.Clauses) == 0 {
		return nil
	}
	for i, peer := range peers {
		if m := evaluatePeer(policy, candidate, peer); m != nil {
			m.Index = i
			return m
		}
	}
	return nil
}

func evaluatePeer(policy Policy, candidate, peer Fields) *Match {
	var last *Match
	for _, clause := range policy.Clauses {
		m, ok := evaluateClause(clause, candidate, peer)
		switch policy.Combinator {
		case Any:
			if ok {
				return m
			}
		default:
			if !ok {
				return nil
			}
			last = merge(last, m)
		}
	}
	return last
}

func evaluateClause(clause Clause, candidate, peer Fields) (*Match, bool) {
	m := &Match{
		Clause: clause.Name,
		Scores: make(map[string]float64, len(clause.Rules)),
	}
	for _, rule := range clause.Rules {
		score, pair, ok := evaluateRule(rule, candidate[rule.Field], peer[rule.Field], hasField(candidate, peer, rule.Field))
		m.Scores[rule.Field] = score
		if pair != nil {
			if m.Pairs == nil {
				m.Pairs = make(map[string]Pair, 1)
			}
			m.Pairs[rule.Field] = *pair
		}

		if clause.Combinator == Any {
			if ok {
				return m, true
			}
			continue
		}
		if !ok {
			return nil, false
		}
	}
	if clause.Combinator == Any {
		return nil, false
	}
	return m, true
}

func hasField(a, b Fields, field string) bool {
	_, okA := a[field]
	_, okB := b[field]
	return okA && okB
}

func evaluateRule(rule Rule, a, b Value, present bool) (float64, *Pair, bool) {
	if !present {
		return 0, nil, false
	}

	switch rule.Mode {
	case ModeFuzzy:
		if a.kind == KindList || b.kind == KindList {
			return bestPair(a.Items(), b.Items(), func(x, y string) float64 {
				return Similarity(x, y)
			}, rule.Threshold)
		}
		score := Similarity(a.text, b.text)
		return score, nil, score >= rule.Threshold
	case ModeExact:
		if a.kind == KindList || b.kind == KindList {
			return bestPair(a.Items(), b.Items(), func(x, y string) float64 {
				if Normalize(x) == Normalize(y) {
					return 1
				}
				return 0
			}, 1)
		}
		if Normalize(a.text) == Normalize(b.text) {
			return 1, nil, true
		}
		return 0, nil, false
	case ModeNumeric:
		if a.kind != KindNumber || b.kind != KindNumber {
			return 0, nil, false
		}
		if math.Abs(a.num-b.num) < rule.Tolerance {
			return 1, nil, true
		}
		return 0, nil, false
	case ModeSameDay:
		if a.kind != KindDate || b.kind != KindDate {
			return 0, nil, false
		}
		if sameDay(a, b) {
			return 1, nil, true
		}
		return 0, nil, false
	}
	return 0, nil, false
}

// bestPair walks candidate x existing items and stops at the first pair
// reaching threshold. When none does it reports the best score seen.
func bestPair(candidate, existing []string, score func(x, y string) float64, threshold float64) (float64, *Pair, bool) {
	best := 0.0
	for i, x := range candidate {
		for j, y := range existing {
			s := score(x, y)
			if s >= threshold {
				return s, &Pair{Candidate: i, Existing: j}, true
			}
			if s > best {
				best = s
			}
		}
	}
	return best, nil, false
}

func sameDay(a, b Value) bool {
	ay, am, ad := a.date.Date()
	by, bm, bd := b.date.Date()
	return ay == by && am == bm && ad == bd
}

func merge(into, from *Match) *Match {
	if into == nil {
		return from
	}
	for k, v := range from.Scores {
		into.Scores[k] = v
	}
	for k, v := range from.Pairs {
		if into.Pairs == nil {
			into.Pairs = make(map[string]Pair)
		}
		into.Pairs[k] = v
	}
	return into
}
