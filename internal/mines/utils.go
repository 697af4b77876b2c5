package mines

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// cellQueue is a FIFO of cell indices. Popped items stay in the backing
// slice so a run never reallocates for items it has already seen.
type cellQueue struct {
	items []int
	head  int
}

func (q *cellQueue) push(i int) {
	q.items = append(q.items, i)
}

func (q *cellQueue) pop() (int, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	i := q.items[q.head]
	q.head++
	return i, true
}

func (q *cellQueue) reset() {
	q.items = q.items[:0]
	q.head = 0
}

// marks is a per-run scratch marker, one bit per cell.
type marks []bool

func (m marks) set(i int)      { m[i] = true }
func (m marks) unset(i int)    { m[i] = false }
func (m marks) has(i int) bool { return m[i] }
func (m marks) reset()         { clear(m) }
