// Package ui centralizes terminal output and input for the interactive
// loop: colored status lines, tables, a progress spinner, and the prompt
// seam the router is tested against. It carries presentation only, no
// wallet state.
package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type Console struct {
	success *color.Color
	errc    *color.Color
	warn    *color.Color
	accent  *color.Color
	dim     *color.Color
}

func NewConsole() *Console {
	return &Console{
		success: color.New(color.FgGreen, color.Bold),
		errc:    color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
		accent:  color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
}

// Successf prints a bold green status line.
func (c *Console) Successf(format string, a ...any) {
	c.success.Printf(format+"\n", a...)
}

// Errorf prints a single bold red error line.
func (c *Console) Errorf(format string, a ...any) {
	c.errc.Printf(format+"\n", a...)
}

// Warnf prints a yellow advisory line.
func (c *Console) Warnf(format string, a ...any) {
	c.warn.Printf(format+"\n", a...)
}

// Accentf prints a cyan detail line (signatures, addresses).
func (c *Console) Accentf(format string, a ...any) {
	c.accent.Printf(format+"\n", a...)
}

// Dimf prints a faint informational line.
func (c *Console) Dimf(format string, a ...any) {
	c.dim.Printf(format+"\n", a...)
}

// Header prints a section title above a table or listing.
func (c *Console) Header(title string) {
	fmt.Println()
	c.success.Println(title)
}

// Table renders headers and rows to stdout.
func (c *Console) Table(headers []string, rows [][]string) {
	t := tablewriter.NewWriter(os.Stdout)
	t.SetHeader(headers)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, row := range rows {
		t.Append(row)
	}
	t.Render()
}

// Spin shows a spinner with the given message while fn runs. Errors pass
// through untouched; rendering them is the caller's job.
func (c *Console) Spin(message string, fn func() error) error {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}
