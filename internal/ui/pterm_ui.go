package ui

import (
	"fmt"
	"io"
	"os"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"github.com/melih-ucgun/settle/internal/core"
)

// PtermUI is an implementation of core.UI using pterm.
type PtermUI struct {
	writer io.Writer
}

// NewPtermUI creates a new PtermUI instance writing to stderr, keeping
// stdout clean for piping.
func NewPtermUI() *PtermUI {
	return &PtermUI{
		writer: os.Stderr,
	}
}

// Ensure PtermUI implements core.UI
var _ core.UI = (*PtermUI)(nil)

func (p *PtermUI) Section(title string) {
	pterm.DefaultSection.WithWriter(p.writer).Println(title)
}

func (p *PtermUI) Title(title string) {
	pterm.DefaultHeader.WithFullWidth().WithWriter(p.writer).Println(title)
}

func (p *PtermUI) Success(msg string) {
	pterm.Success.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Info(msg string) {
	pterm.Info.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Warning(msg string) {
	pterm.Warning.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Error(msg string) {
	pterm.Error.WithWriter(p.writer).Println(msg)
}

func (p *PtermUI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(p.writer, format, args...)
}

// Spinner runs fn behind a pterm spinner with the terminal cursor hidden.
func (p *PtermUI) Spinner(text string, fn func() error) error {
	cursor.Hide()
	defer cursor.Show()

	spinner, serr := pterm.DefaultSpinner.WithWriter(p.writer).Start(text)
	if serr != nil {
		// Spinner is cosmetic only.
		return fn()
	}

	err := fn()
	if err != nil {
		spinner.Fail(text)
		return err
	}
	spinner.Success(text)
	return nil
}

func (p *PtermUI) WithWriter(w io.Writer) core.UI {
	return &PtermUI{
		writer: w,
	}
}
