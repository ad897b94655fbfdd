//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for csvmgr using Mage.
//
// Usage:
//
//	mage build       Compile the csvmgr binary to bin/
//	mage test:all    Run every test
//	mage test:unit   Run tests outside cmd/
//	mage test:cover  Run every test with a coverage profile
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install csvmgr to GOPATH/bin
//	mage stats       Print file, test, and documentation counts
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "csvmgr"
	binaryDir  = "bin"
	cmdDir     = "./cmd/csvmgr"
)

// Build compiles the csvmgr binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(binaryDir, binaryName)
	if err := sh.RunV(binGo, "build", "-v", "-o", out, cmdDir); err != nil {
		return err
	}
	if info, err := os.Stat(out); err == nil {
		fmt.Printf("built %s (%s)\n", out, humanize.Bytes(uint64(info.Size())))
	}
	return nil
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.Remove(coverProfile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
