// Command sweeper runs the deduction agent against freshly generated
// boards and reports how it fared. Handy for eyeballing solver
// behavior and win rates without standing up the server.
package main

import (
	"flag"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ametelin/minesweeper-agent/internal/agent"
	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/ametelin/minesweeper-agent/internal/knowledge"
)

var log = logrus.New()

func main() {
	var (
		width   = flag.Int("width", 9, "board width")
		height  = flag.Int("height", 9, "board height")
		mines   = flag.Int("mines", 10, "mine count")
		fair    = flag.Bool("fair", false, "generate boards solvable without guessing")
		games   = flag.Int("games", 1, "number of games to play")
		seed    = flag.Uint64("seed", 0, "rng seed (0 picks a random one)")
		show    = flag.Bool("show", false, "print the final board of every game")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	knowledge.Log = log
	agent.Log = log

	params := game.Params{
		Width:     *width,
		Height:    *height,
		MineCount: *mines,
		Fair:      *fair,
	}
	if err := params.Validate(); err != nil {
		log.WithError(err).Fatal("bad game params")
	}

	s1, s2 := *seed, *seed
	if *seed == 0 {
		s1, s2 = new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64()
	}
	rnd := rand.New(rand.NewPCG(s1, s2))

	start := grid.Cell{X: *width / 2, Y: *height / 2}

	var won, moves, guesses int
	for i := 0; i < *games; i++ {
		board, err := agent.NewBoard(params, start, rnd)
		if err != nil {
			log.WithError(err).Fatal("unable to generate a board")
		}
		state, err := game.Start(board, params, start)
		if err != nil {
			log.WithError(err).Fatal("unable to start a game")
		}
		a, err := agent.New(state, rnd)
		if err != nil {
			log.WithError(err).Fatal("unable to build an agent")
		}
		res, err := a.Play()
		if err != nil {
			log.WithError(err).Fatal("playthrough failed")
		}

		if res.Won {
			won++
		}
		moves += res.Moves
		guesses += res.Guesses

		if *show {
			fmt.Println(state.View.ToString(*width))
		}
	}

	fmt.Printf(
		"%s: won %d/%d, %d moves, %d guesses\n",
		params.Seed(), won, *games, moves, guesses,
	)
	if won < *games && *fair {
		// a fair board is winnable without guessing
		os.Exit(1)
	}
}
