package main

import (
	"io"
	"os"

	"go.uber.org/zap"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *zap.Logger // Replaced by run once log settings are known
	NewHost func(*settings, *Environment) (Host, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  zap.NewNop(),
		NewHost: newHost,
	}
}
