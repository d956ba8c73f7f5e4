package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette colours console lines. A disabled palette prints plain text.
type palette struct {
	info  *color.Color
	ok    *color.Color
	warn  *color.Color
	err   *color.Color
	muted *color.Color
}

func newPalette(colorize bool) palette {
	p := palette{
		info:  color.New(color.FgCyan),
		ok:    color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed),
		muted: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.info, p.ok, p.warn, p.err, p.muted} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(writer)
}
