package engine

import (
	"bufio"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	apperrors "github.com/Taze00/chess-coach/internal/errors"
)

// Client drives one UCI engine process over stdin/stdout. All queries are
// strictly sequential: a Client must never be shared between concurrent
// analysis runs — instantiate one per game instead.
type Client struct {
	cmd     *exec.Cmd
	stdin   *bufio.Writer
	lines   chan string
	depth   int
	timeout time.Duration
	log     *zap.SugaredLogger
}

// New starts the engine process and performs the UCI handshake. A missing
// binary or a failed handshake surfaces as ErrEngineUnavailable.
func New(path string, depth int, timeout time.Duration, log *zap.SugaredLogger) (*Client, error) {
	cmd := exec.Command(path)

	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEngineUnavailable, err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEngineUnavailable, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrEngineUnavailable, err)
	}

	c := &Client{
		cmd:     cmd,
		stdin:   bufio.NewWriter(stdinPipe),
		lines:   make(chan string, 64),
		depth:   depth,
		timeout: timeout,
		log:     log,
	}

	go c.readLines(bufio.NewScanner(stdoutPipe))

	if err := c.send("uci"); err != nil {
		return nil, err
	}
	if _, err := c.waitFor("uciok"); err != nil {
		return nil, err
	}
	if err := c.send("isready"); err != nil {
		return nil, err
	}
	if _, err := c.waitFor("readyok"); err != nil {
		return nil, err
	}

	c.log.Infow("engine ready", "path", path, "depth", depth)
	return c, nil
}

func (c *Client) readLines(scanner *bufio.Scanner) {
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	close(c.lines)
}

func (c *Client) send(cmd string) error {
	if _, err := c.stdin.WriteString(cmd + "\n"); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEngineUnavailable, err)
	}
	if err := c.stdin.Flush(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrEngineUnavailable, err)
	}
	return nil
}

// waitFor reads engine output until a line containing the marker arrives. A
// stalled engine is a fatal timeout, not a cancellable unit of work.
func (c *Client) waitFor(marker string) (string, error) {
	deadline := time.After(c.timeout)
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return "", fmt.Errorf("%w: engine process closed its output", apperrors.ErrEngineUnavailable)
			}
			if strings.Contains(line, marker) {
				return line, nil
			}
		case <-deadline:
			return "", fmt.Errorf("%w: no %q after %s", apperrors.ErrEngineUnavailable, marker, c.timeout)
		}
	}
}

// NewGame resets the engine's internal state between games.
func (c *Client) NewGame() error {
	if err := c.send("ucinewgame"); err != nil {
		return err
	}
	if err := c.send("isready"); err != nil {
		return err
	}
	_, err := c.waitFor("readyok")
	return err
}

type searchResult struct {
	score    Score
	bestMove string
}

// search runs one fixed-depth search for the given position and collects
// the final score line and the best move.
func (c *Client) search(fen string) (searchResult, error) {
	if err := c.send("position fen " + fen); err != nil {
		return searchResult{}, err
	}
	if err := c.send(fmt.Sprintf("go depth %d", c.depth)); err != nil {
		return searchResult{}, err
	}

	var res searchResult
	deadline := time.After(c.timeout)
	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				return searchResult{}, fmt.Errorf("%w: engine process closed its output", apperrors.ErrEngineUnavailable)
			}
			if strings.HasPrefix(line, "info") {
				if score, ok := parseScore(line); ok {
					res.score = score
				}
			}
			if strings.HasPrefix(line, "bestmove") {
				fields := strings.Fields(line)
				if len(fields) > 1 {
					res.bestMove = fields[1]
				}
				return res, nil
			}
		case <-deadline:
			return searchResult{}, fmt.Errorf("%w: search exceeded %s", apperrors.ErrEngineUnavailable, c.timeout)
		}
	}
}

// parseScore extracts "score cp N" or "score mate N" from an info line.
func parseScore(line string) (Score, bool) {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f != "score" || i+2 >= len(fields) {
			continue
		}
		value, err := strconv.Atoi(fields[i+2])
		if err != nil {
			return Score{}, false
		}
		switch fields[i+1] {
		case "cp":
			return Score{Kind: Centipawns, Value: value}, true
		case "mate":
			return Score{Kind: MateIn, Value: value}, true
		}
	}
	return Score{}, false
}

// Evaluate reports the engine score for the position, from the perspective
// of whoever is to move in it.
func (c *Client) Evaluate(pos *chess.Position) (Score, error) {
	res, err := c.search(pos.String())
	if err != nil {
		return Score{}, err
	}
	return res.score, nil
}

// BestMove reports the engine's preferred move for the position.
func (c *Client) BestMove(pos *chess.Position) (*chess.Move, error) {
	res, err := c.search(pos.String())
	if err != nil {
		return nil, err
	}
	if res.bestMove == "" || res.bestMove == "(none)" {
		return nil, fmt.Errorf("%w: engine returned no best move", apperrors.ErrEngineUnavailable)
	}
	move, err := decodeUCI(pos, res.bestMove)
	if err != nil {
		return nil, fmt.Errorf("%w: undecodable best move %q: %v", apperrors.ErrEngineUnavailable, res.bestMove, err)
	}
	return move, nil
}

// decodeUCI resolves a UCI move string against the position's legal moves,
// so the returned move carries its capture/castle/check tags.
func decodeUCI(pos *chess.Position, s string) (*chess.Move, error) {
	decoded, err := chess.UCINotation{}.Decode(pos, s)
	if err != nil {
		return nil, err
	}
	for _, m := range pos.ValidMoves() {
		if m.S1() == decoded.S1() && m.S2() == decoded.S2() && m.Promo() == decoded.Promo() {
			return m, nil
		}
	}
	return nil, fmt.Errorf("move %s is not legal in position", s)
}

// Close asks the engine to quit and reaps the process. Safe to call on
// every exit path.
func (c *Client) Close() error {
	_ = c.send("quit")
	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		c.log.Warnw("engine ignored quit, killing process")
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
		return <-done
	}
}
