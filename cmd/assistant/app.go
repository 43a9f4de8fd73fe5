package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/internal/assistant"
	"github.com/pageza/recipe-assistant/backend/internal/pipeline"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
)

type cliApp struct {
	assistant   *assistant.Assistant
	in          io.Reader
	transcripts <-chan string
	log         *zap.Logger

	mu  sync.Mutex
	out io.Writer
}

func newCLIApp(a *assistant.Assistant, in io.Reader, out io.Writer, transcripts <-chan string, log *zap.Logger) *cliApp {
	return &cliApp{
		assistant:   a,
		in:          in,
		out:         out,
		transcripts: transcripts,
		log:         log,
	}
}

func (c *cliApp) println(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, args...)
}

// run reads commands until :quit, EOF or ctx cancellation
func (c *cliApp) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	c.println("Recipe Assistant. Type :help for commands.")

	states, unsubscribe := c.assistant.Subscribe()
	defer unsubscribe()
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.render(ctx, states)
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-c.transcripts:
			c.println(fmt.Sprintf("Heard: %s\nPress Enter to generate a recipe, or type new ingredients.", text))
		case line, ok := <-lines:
			if !ok {
				return
			}
			if !c.handle(ctx, strings.TrimSpace(line)) {
				return
			}
		}
	}
}

// handle executes one input line and reports whether to keep going.
// Submissions outlive ctx so quitting mid-generation does not report a failure.
func (c *cliApp) handle(ctx context.Context, line string) bool {
	switch line {
	case ":quit", ":q":
		return false
	case ":help":
		c.println(helpText)
	case ":voice":
		err := c.assistant.Listen(ctx)
		if errors.Is(err, voice.ErrAlreadyListening) {
			c.println("Already listening.")
		}
	case ":stop":
		c.assistant.StopListening()
	default:
		if line != "" {
			c.assistant.Field().SetText(line)
		}
		submitCtx := context.WithoutCancel(ctx)
		go func() {
			if _, err := c.assistant.Submit(submitCtx); err != nil {
				c.log.Debug("submission ended with error", zap.Error(err))
			}
		}()
	}
	return true
}

func (c *cliApp) render(ctx context.Context, states <-chan pipeline.State) {
	prev := c.assistant.State()
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-states:
			if !ok {
				return
			}
			c.mu.Lock()
			renderState(c.out, prev, s)
			c.mu.Unlock()
			prev = s
		}
	}
}
