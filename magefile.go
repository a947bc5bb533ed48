//go:build mage
// +build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Build variables
const (
	binaryName = "gitmirror"
	buildDir   = "."
	cmdDir     = "./cmd/gitmirror"
)

// Default target to run when none is specified
var Default = Build

// Build builds the gitmirror binary
func Build() error {
	mg.Deps(InstallDeps)
	fmt.Println("Building", binaryName, "...")

	output := filepath.Join(buildDir, binaryName)
	if err := sh.Run("go", "build", "-o", output, cmdDir); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Println("Build complete:", output)
	return nil
}

// InstallDeps downloads module dependencies
func InstallDeps() error {
	return sh.Run("go", "mod", "download")
}

// Test runs the full test suite
func Test() error {
	fmt.Println("Running tests...")
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet across the module
func Lint() error {
	fmt.Println("Vetting...")
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning...")

	if err := sh.Rm(filepath.Join(buildDir, binaryName)); err != nil {
		fmt.Printf("Warning: could not remove binary: %v\n", err)
	}

	return nil
}

// Install builds and installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Build)
	return sh.Run("go", "install", cmdDir)
}
