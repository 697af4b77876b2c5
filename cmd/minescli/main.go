// Command minescli plays a game in the terminal. It reads the same line
// commands as the websocket channel from stdin; q quits and h prints help.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper/internal/commands"
	"github.com/vancomm/minesweeper/internal/mines"
)

const help = `commands:
  o ROW COL          open a cell
  f ROW COL          toggle a flag
  c ROW COL          chord
  g                  redraw
  n                  new game
  n ROWS COLS MINES  new game of the given size
  n DIFFICULTY       beginner, intermediate or expert
  q                  quit`

var log = logrus.New()

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func printGame(w io.Writer, s *mines.Session) {
	p := s.Params()
	fmt.Fprint(w, s.View().ToString(p.Cols))
	fmt.Fprintf(w, "mines left: %d  cells left: %d  time: %s\n",
		s.RemainingMineCount(), s.RemainingUnopenedCount(),
		s.Elapsed().Truncate(time.Second))
	switch s.State() {
	case mines.Won:
		fmt.Fprintln(w, "you won!")
	case mines.Lost:
		if pt, ok := s.Exploded(); ok {
			fmt.Fprintf(w, "boom at %s, you lost\n", pt)
		}
	}
}

// play runs commands from in until it is exhausted or q is read.
func play(in io.Reader, out io.Writer, s *mines.Session) {
	printGame(out, s)
	scanner := bufio.NewScanner(in)
	for fmt.Fprint(out, "> "); scanner.Scan(); fmt.Fprint(out, "> ") {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q":
			return
		case "h", "?":
			fmt.Fprintln(out, help)
			continue
		}
		c, err := commands.Parse(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if _, err := c.Execute(s); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		printGame(out, s)
	}
	if err := scanner.Err(); err != nil {
		log.Error("read: ", err)
	}
}

func main() {
	var (
		difficulty = flag.String("difficulty", string(mines.Beginner), "beginner, intermediate or expert")
		seed       = flag.String("seed", "", "game params seed ROWS:COLS:MINES:POWER:AUTO, overrides -difficulty")
		power      = flag.Bool("power", false, "power chord")
		auto       = flag.Bool("auto", false, "auto-reveal around satisfied numbers")
		verbose    = flag.Bool("v", false, "log engine events")
	)
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	mines.Log = log
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	params, ok := mines.Preset(mines.Difficulty(*difficulty))
	if !ok {
		log.Fatalf("unknown difficulty %q", *difficulty)
	}
	if *seed != "" {
		p, err := mines.ParseSeed(*seed)
		if err != nil {
			log.Fatal(err)
		}
		params = *p
	}
	params.PowerChord = params.PowerChord || *power
	params.AutoReveal = params.AutoReveal || *auto

	s := mines.NewSession(createRand())
	if err := s.NewGame(params); err != nil {
		log.Fatal(err)
	}
	play(os.Stdin, os.Stdout, s)
}
