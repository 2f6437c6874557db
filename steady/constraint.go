package steady

import "github.com/katalvlaran/steadyspace/model"

// Constraints holds the model's rules compiled into fixed-point predicates,
// plus the schedule telling the search which rules become conclusive at
// which depth. Depth d means "species 0..d are assigned".
type Constraints struct {
	rules []*model.Rule

	// last[s] is the largest regulator index of s, or -1 without regulators.
	last []int

	// checkAt[d] lists species s with last[s] >= s whose rule is conclusive
	// once species d is assigned (d == last[s]).
	checkAt [][]int

	// forceAt[d] lists species s > d whose regulators are all assigned once
	// species d is assigned (d == last[s]).
	forceAt [][]int

	// forceRoot lists species without regulators; their target is known
	// before any assignment.
	forceRoot []int
}

// Compile builds the predicates and schedule for m.
func Compile(m *model.Model) *Constraints {
	n := m.Len()
	c := &Constraints{
		rules:   m.Rules,
		last:    make([]int, n),
		checkAt: make([][]int, n),
		forceAt: make([][]int, n),
	}
	for s := 0; s < n; s++ {
		last := -1
		for _, r := range m.Rules[s].Regulators() {
			if r > last {
				last = r
			}
		}
		c.last[s] = last

		switch {
		case last < 0:
			c.forceRoot = append(c.forceRoot, s)
		case last < s:
			c.forceAt[last] = append(c.forceAt[last], s)
		default:
			c.checkAt[last] = append(c.checkAt[last], s)
		}
	}

	return c
}

// Len returns the number of compiled rules.
func (c *Constraints) Len() int { return len(c.rules) }

// ConclusiveAt returns the depth at which the rule of s can be evaluated:
// the larger of s and its last regulator.
func (c *Constraints) ConclusiveAt(s int) int {
	if c.last[s] > s {
		return c.last[s]
	}

	return s
}

// Target returns the value the rule of s prescribes under cfg. ok is false
// while a regulator is unassigned.
func (c *Constraints) Target(s int, cfg []int) (target int, ok bool) {
	return c.rules[s].TargetAt(cfg)
}

// Evaluate tests whether cfg's value for s is the rule's prescribed target.
// Unassigned entries (negative values) make the result Undetermined.
func (c *Constraints) Evaluate(s int, cfg []int) Verdict {
	if cfg[s] < 0 {
		return Undetermined
	}
	t, ok := c.rules[s].TargetAt(cfg)
	if !ok {
		return Undetermined
	}
	if t == cfg[s] {
		return Satisfied
	}

	return Violated
}

// Check evaluates every rule. Violated wins over Undetermined, which wins
// over Satisfied, so Check(cfg) == Satisfied exactly when cfg is a complete
// steady state.
func (c *Constraints) Check(cfg []int) Verdict {
	out := Satisfied
	for s := range c.rules {
		switch c.Evaluate(s, cfg) {
		case Violated:
			return Violated
		case Undetermined:
			out = Undetermined
		}
	}

	return out
}

// IsSteady reports whether cfg is a steady state of m.
func IsSteady(m *model.Model, cfg []int) bool {
	if len(cfg) != m.Len() {
		return false
	}

	return Compile(m).Check(cfg) == Satisfied
}
