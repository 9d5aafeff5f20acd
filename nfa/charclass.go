package nfa

// CharClass is a set of bytes, optionally negated, used by StateCharClass.
// Ranges are expanded eagerly into a 256-entry membership table at
// construction time so Matches is a single array lookup rather than a scan
// over ranges: the classes the builder emits (`[a-z]`, `[0-9_]`, ...) are
// built once and then tested once per byte per thread, so the tradeoff
// favors lookup speed over the few bytes saved by storing ranges.
type CharClass struct {
	set     [256]bool
	negated bool
}

// NewCharClass returns an empty, non-negated character class.
func NewCharClass() *CharClass {
	return &CharClass{}
}

// Negate marks the class as negated: Matches returns the opposite of
// membership.
func (c *CharClass) Negate() {
	c.negated = !c.negated
}

// Negated reports whether the class is negated.
func (c *CharClass) Negated() bool { return c.negated }

// AddChar adds a single byte to the class.
func (c *CharClass) AddChar(b byte) {
	c.set[b] = true
}

// AddRange adds every byte in [lo, hi] (inclusive) to the class. If hi < lo
// the arguments are swapped, so `z-a` behaves like `a-z`.
func (c *CharClass) AddRange(lo, hi byte) {
	if hi < lo {
		lo, hi = hi, lo
	}
	for b := int(lo); b <= int(hi); b++ {
		c.set[b] = true
	}
}

// Matches reports whether b is accepted by the class: negated XOR member.
func (c *CharClass) Matches(b byte) bool {
	return c.negated != c.set[b]
}
