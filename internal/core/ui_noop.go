package core

import "io"

// NoopUI discards all UI output. Used in tests and when output is piped.
type NoopUI struct{}

var _ UI = (*NoopUI)(nil)

func (n *NoopUI) Section(string)                {}
func (n *NoopUI) Title(string)                  {}
func (n *NoopUI) Success(string)                {}
func (n *NoopUI) Info(string)                   {}
func (n *NoopUI) Warning(string)                {}
func (n *NoopUI) Error(string)                  {}
func (n *NoopUI) Printf(string, ...interface{}) {}
func (n *NoopUI) Spinner(_ string, fn func() error) error {
	return fn()
}
func (n *NoopUI) WithWriter(io.Writer) UI { return n }
