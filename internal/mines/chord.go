package mines

// noExplosion is returned by cascading operations that did not hit a mine.
const noExplosion = -1

// chord opens the unflagged neighbours of a satisfied number. It returns the
// index of the first unflagged mine it runs into, or noExplosion. When run is
// not nil, numbered neighbours are appended to it once per run so that the
// caller can keep chording outward.
func (b *Board) chord(i int, run *cellQueue) int {
	if !b.cells[i].satisfied() {
		return noExplosion
	}

	var batch [8]int
	n := 0
	for j := range b.neighbours(i) {
		c := b.cells[j]
		if c.Flagged {
			continue
		}
		switch c.Kind {
		case Mine:
			return j
		case Blank:
			if !c.Opened {
				b.floodReveal(j)
			}
		case Numbered:
			if !c.Opened {
				batch[n] = j
				n++
			}
			if run != nil && !b.queued.has(j) {
				b.queued.set(j)
				run.push(j)
			}
		}
	}

	for _, j := range batch[:n] {
		b.revealOne(j)
	}
	return noExplosion
}

// powerChord chords every satisfied number in the 3x3 block around i and
// keeps chording the numbers those chords touch until nothing is left or a
// mine goes off. Queued work is dropped on explosion.
func (b *Board) powerChord(i int) int {
	b.queued.reset()
	q := &b.chordQ
	q.reset()

	for j := range b.block(i) {
		if b.cells[j].satisfied() {
			b.queued.set(j)
			q.push(j)
		}
	}

	for {
		j, ok := q.pop()
		if !ok {
			return noExplosion
		}
		if x := b.chord(j, q); x != noExplosion {
			return x
		}
	}
}
