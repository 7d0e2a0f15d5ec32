// Package quiz implements the Recovery Challenge as an interactive
// multiple-choice quiz on a text stream.
package quiz

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/example/streak/internal/ports/secondary"
)

// ErrNoInput is returned when the input ends before the quiz is finished.
var ErrNoInput = errors.New("quiz: input closed before the challenge was answered")

// Presenter asks Count questions sampled without replacement from Bank.
// The first wrong answer fails the challenge.
type Presenter struct {
	Bank  []Question
	Count int

	in  *bufio.Reader
	out io.Writer
	rnd *rand.Rand
}

// NewPresenter creates a presenter reading answers from in and writing
// prompts to out. rnd selects the questions.
func NewPresenter(bank []Question, count int, in io.Reader, out io.Writer, rnd *rand.Rand) *Presenter {
	return &Presenter{
		Bank:  bank,
		Count: count,
		in:    bufio.NewReader(in),
		out:   out,
		rnd:   rnd,
	}
}

// Present runs the challenge and reports whether every answer was correct.
func (p *Presenter) Present(ctx context.Context) (bool, error) {
	questions, err := p.sample()
	if err != nil {
		return false, err
	}

	fmt.Fprintf(p.out, "Desafio de recuperação: %d perguntas. Um erro encerra o desafio.\n", len(questions))
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		fmt.Fprintf(p.out, "\n%d/%d %s\n", i+1, len(questions), q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(p.out, "  %d) %s\n", j+1, opt)
		}

		choice, err := p.readChoice(len(q.Options))
		if err != nil {
			return false, err
		}
		if choice != q.Answer {
			fmt.Fprintf(p.out, "Resposta errada. A correta era: %s\n", q.Options[q.Answer])
			return false, nil
		}
		fmt.Fprintln(p.out, "Correto!")
	}
	return true, nil
}

func (p *Presenter) sample() ([]Question, error) {
	if p.Count < 1 {
		return nil, fmt.Errorf("quiz: question count must be at least 1 (got %d)", p.Count)
	}
	if p.Count > len(p.Bank) {
		return nil, fmt.Errorf("quiz: %d questions requested but the bank has %d", p.Count, len(p.Bank))
	}
	idx := p.rnd.Perm(len(p.Bank))[:p.Count]
	out := make([]Question, 0, p.Count)
	for _, i := range idx {
		out = append(out, p.Bank[i])
	}
	return out, nil
}

// readChoice prompts until a number in 1..n is entered and returns it
// zero-based.
func (p *Presenter) readChoice(n int) (int, error) {
	for {
		fmt.Fprint(p.out, "> ")
		line, err := p.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrNoInput
			}
			return 0, fmt.Errorf("quiz: failed to read answer: %w", err)
		}

		v, convErr := strconv.Atoi(line)
		if convErr == nil && v >= 1 && v <= n {
			return v - 1, nil
		}
		fmt.Fprintf(p.out, "Digite um número entre 1 e %d.\n", n)
		if err != nil {
			return 0, ErrNoInput
		}
	}
}

var _ secondary.ChallengePresenter = (*Presenter)(nil)
