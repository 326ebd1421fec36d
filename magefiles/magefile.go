//go:build mage

// Package main provides build targets for the cellar project using Mage.
//
// Usage:
//
//	mage build      Compile the cellar binary to bin/
//	mage test:all   Run all tests
//	mage test:cover Run tests with coverage
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install cellar to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "cellar"
	binaryDir  = "bin"
	cmdDir     = "./cmd/cellar"
)

// Build compiles the cellar binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Install installs the cellar binary to GOPATH/bin.
func Install() error {
	return sh.RunV(binGo, "install", cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
