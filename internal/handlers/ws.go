package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/ametelin/minesweeper-agent/internal/agent"
	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/ametelin/minesweeper-agent/internal/repository"
)

// Number of arguments each text command takes.
var commandNargs = map[string]int{
	"g": 0,
	"p": 2,
	"f": 2,
	"m": 2,
	"s": 0,
	"a": 0,
	"r": 0,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

func (g Games) parseCell(state *game.State, args []string) (grid.Cell, error) {
	x, y, err := parseXY(args)
	if err != nil {
		return grid.Cell{}, err
	}
	c := grid.Cell{X: x, Y: y}
	if !state.Board.Size.Contains(c) {
		return grid.Cell{}, errors.New("invalid cell coordinates")
	}
	return c, nil
}

// executeCommand applies one line of the text protocol to the session:
//
//	p x y   probe a cell
//	f x y   flag a cell
//	m x y   mark a cell safe
//	s       let the agent make one move
//	a       let the agent play the game out
//	r       forfeit and reveal the board
//	g       no-op, used to request the current state
func (g Games) executeCommand(sess *wsSession, command string) error {
	parts := strings.Split(command, " ")
	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return errors.New("unknown command")
	}
	if nargs != len(parts)-1 {
		return errors.New("invalid number of arguments")
	}
	switch parts[0] {
	case "g":
		return nil
	case "p":
		c, err := g.parseCell(sess.state, parts[1:])
		if err != nil {
			return err
		}
		if _, err := sess.state.Probe(c); err != nil {
			return err
		}
		sess.session.Moves++
		return nil
	case "f":
		c, err := g.parseCell(sess.state, parts[1:])
		if err != nil {
			return err
		}
		sess.state.Flag(c)
		return nil
	case "m":
		c, err := g.parseCell(sess.state, parts[1:])
		if err != nil {
			return err
		}
		sess.state.MarkSafe(c)
		return nil
	case "s":
		a, err := agent.New(sess.state, g.rnd)
		if err != nil {
			return err
		}
		move, err := a.Step()
		if err != nil {
			return err
		}
		sess.session.Moves++
		if !move.Certain {
			sess.session.Guesses++
		}
		return nil
	case "a":
		a, err := agent.New(sess.state, g.rnd)
		if err != nil {
			return err
		}
		res, err := a.Play()
		if err != nil {
			return err
		}
		sess.session.Moves += res.Moves
		sess.session.Guesses += res.Guesses
		return nil
	case "r":
		sess.state.Forfeit()
		return nil
	}
	return errors.New("invalid command")
}

type wsSession struct {
	session *repository.GameSession
	state   *game.State
}

// ConnectWS upgrades the request and drives the stored game over the
// text protocol. Each message may carry several newline-separated
// commands; the session is persisted and echoed back once per message.
func (g Games) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	sess := &wsSession{session: session, state: state}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade connection")
		return
	}
	defer c.Close()

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				g.log.WithError(err).Warn("websocket read failed")
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}

		var cmdErr error
		for _, command := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			if cmdErr = g.executeCommand(sess, command); cmdErr != nil {
				break
			}
			if sess.state.Finished() {
				break
			}
		}

		updated, err := g.persist(r.Context(), sess.session, sess.state)
		if err != nil {
			g.log.WithError(err).Error("unable to update session in db")
			break
		}
		sess.session = updated

		if cmdErr != nil {
			if err := c.WriteJSON(wrapError(cmdErr)); err != nil {
				g.log.WithError(err).Error("websocket write failed")
				break
			}
			continue
		}
		if err := c.WriteJSON(NewGameSessionDTO(sess.session, sess.state)); err != nil {
			g.log.WithError(err).Error("websocket write failed")
			break
		}
	}
}
