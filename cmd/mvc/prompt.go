package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mvc/internal/preset"
)

var errInvalidSelection = errors.New("invalid selection")

const banner = `==========================================
      MASS VIDEO COMPRESSOR (MVC)
==========================================`

type lineResult struct {
	line string
	err  error
}

// prompter asks questions on out and reads answers from in. Reads are
// abandoned when ctx is cancelled so Ctrl-C is not swallowed by a blocked read.
type prompter struct {
	out    io.Writer
	lines  chan lineResult
	reader *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{out: out, reader: bufio.NewReader(in)}
}

func (p *prompter) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, label)
	if p.lines == nil {
		p.lines = make(chan lineResult)
	}
	go func() {
		line, err := p.reader.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		select {
		case p.lines <- lineResult{line: line, err: err}:
		case <-ctx.Done():
		}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.lines:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				return "", fmt.Errorf("no answer for %q: input closed", strings.TrimSpace(strings.TrimSuffix(label, ": ")))
			}
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}

// choosePreset prints the numbered preset menu and returns the selection.
func (p *prompter) choosePreset(ctx context.Context, catalog *preset.Catalog) (preset.Preset, error) {
	fmt.Fprintln(p.out, "\nSelect Compression Preset:")
	for _, item := range catalog.Sorted() {
		fmt.Fprintf(p.out, "[%s] %s\n", item.Key, item.Name)
		if item.Description != "" {
			fmt.Fprintf(p.out, "    └─ %s\n", item.Description)
		}
	}
	choice, err := p.ask(ctx, fmt.Sprintf("\nEnter choice (%s): ", strings.Join(catalog.Keys(), "/")))
	if err != nil {
		return preset.Preset{}, err
	}
	selected, ok := catalog.Lookup(choice)
	if !ok {
		return preset.Preset{}, fmt.Errorf("%w: %q", errInvalidSelection, choice)
	}
	return selected, nil
}

// askPath reads a folder path, tolerating the quotes terminals add when a
// folder is dragged into the window.
func (p *prompter) askPath(ctx context.Context, label string) (string, error) {
	answer, err := p.ask(ctx, label)
	if err != nil {
		return "", err
	}
	cleaned := cleanPath(answer)
	if cleaned == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(strings.TrimSuffix(label, ": ")))
	}
	return cleaned, nil
}

func cleanPath(value string) string {
	value = strings.TrimSpace(value)
	value = strings.Trim(value, `"`)
	value = strings.Trim(value, `'`)
	return strings.TrimSpace(value)
}
