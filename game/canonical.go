package game

// Canonical returns a copy of b seen from p's side: the player to move always
// owns the positive codes. The input board is never modified.
func Canonical(b Board, p Player) Board {
	c := b.Copy()
	if p == PlayerTwo {
		for i := range c {
			c[i] = -c[i]
		}
	}
	return c
}
