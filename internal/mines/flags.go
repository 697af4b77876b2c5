package mines

// toggleFlag flags or unflags an unopened cell and updates the flag tally of
// every neighbour. With auto-reveal on, each opened neighbour left satisfied
// by the change is chorded (power-chorded in power mode). The index of an
// exploded mine is returned, or noExplosion.
func (b *Board) toggleFlag(i int, mode Mode) int {
	c := &b.cells[i]
	if c.Opened {
		return noExplosion
	}

	c.Flagged = !c.Flagged
	var delta int8 = 1
	if !c.Flagged {
		delta = -1
	}
	b.flagged += int(delta)

	for j := range b.neighbours(i) {
		b.cells[j].Flags += delta
		b.queued.unset(j)
	}

	if !mode.AutoReveal {
		return noExplosion
	}

	for j := range b.neighbours(i) {
		if !b.cells[j].satisfied() {
			continue
		}
		var x int
		if mode.PowerChord {
			x = b.powerChord(j)
		} else {
			x = b.chord(j, nil)
		}
		if x != noExplosion {
			return x
		}
	}
	return noExplosion
}
