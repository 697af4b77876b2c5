package mines

// revealOne opens a single cell and reports whether anything changed.
// Mines are the caller's business: opening one here only marks it.
func (b *Board) revealOne(i int) bool {
	c := &b.cells[i]
	if c.Opened {
		return false
	}
	c.Opened = true
	if c.Kind != Mine {
		b.unopened--
	}
	return true
}

// floodReveal opens the connected blank region around start together with
// its numbered border and returns the number of newly opened cells.
//
// The traversal only collects cells; they are opened afterwards so that the
// opened state cannot interfere with expansion. Flagged cells are neither
// expanded nor opened.
func (b *Board) floodReveal(start int) int {
	if b.cells[start].Kind != Blank {
		if b.revealOne(start) {
			return 1
		}
		return 0
	}

	b.visited.reset()
	q := &b.floodQ
	q.reset()

	b.visited.set(start)
	q.push(start)
	open := []int{start}

	for {
		i, ok := q.pop()
		if !ok {
			break
		}
		for j := range b.neighbours(i) {
			c := b.cells[j]
			if b.visited.has(j) || c.Flagged {
				continue
			}
			switch c.Kind {
			case Blank:
				b.visited.set(j)
				q.push(j)
				open = append(open, j)
			case Numbered:
				if !c.Opened {
					b.visited.set(j)
					open = append(open, j)
				}
			}
		}
	}

	n := 0
	for _, i := range open {
		if b.revealOne(i) {
			n++
		}
	}
	return n
}
