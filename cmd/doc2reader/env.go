package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-doc2reader"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, environment variables and the converter factory.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Runner       doc2reader.CommandRunner // nil runs commands for real
	NewConverter func(opts ...doc2reader.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		NewConverter: newConverter,
	}
}

// newConverter adapts doc2reader.NewConverter to the Converter interface.
func newConverter(opts ...doc2reader.Option) (Converter, error) {
	c, err := doc2reader.NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// getenv reads a variable through env, tolerating a nil Getenv in tests.
func (e *Environment) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}
