//go:build mage
// +build mage

package main

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const buildDir = "build"

var Default = Build

// Build compiles hey-wdi and wdiclient into the build directory.
func Build() error {
	mg.Deps(mkBuildDir)
	if err := sh.RunV("go", "build", "-o", filepath.Join(buildDir, "hey-wdi"), "."); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(buildDir, "wdiclient"), "./wdiclient")
}

// Check runs go vet.
func Check() error {
	return sh.RunV("go", "vet", "./...")
}

// License adds the Elastic ASL2 header to the Go source files missing one.
func License() error {
	return sh.RunV("go", "run", "github.com/elastic/go-licenser", "-license", "ASL2")
}

// Test runs the tests with the race detector, and writes junit and cobertura reports for CI.
func Test() error {
	mg.Deps(mkBuildDir)
	coverProfile := filepath.Join(buildDir, "coverage.out")

	var output bytes.Buffer
	_, testErr := sh.Exec(nil, io.MultiWriter(os.Stdout, &output), os.Stderr,
		"go", "test", "-race", "-v", "-coverprofile", coverProfile, "./...")

	if err := pipe(output.Bytes(), filepath.Join(buildDir, "junit-report.xml"),
		"go", "run", "github.com/jstemmer/go-junit-report"); err != nil {
		return err
	}
	profile, err := os.ReadFile(coverProfile)
	if err != nil {
		return err
	}
	if err := pipe(profile, filepath.Join(buildDir, "coverage.xml"),
		"go", "run", "github.com/t-yuki/gocover-cobertura"); err != nil {
		return err
	}
	return testErr
}

// Clean removes the build directory.
func Clean() error {
	return sh.Rm(buildDir)
}

func mkBuildDir() error {
	return os.MkdirAll(buildDir, 0755)
}

// runs `cmd` with `in` as standard input, and writes its output to `filename`
func pipe(in []byte, filename string, cmd ...string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	c := exec.Command(cmd[0], cmd[1:]...)
	c.Stdin = bytes.NewReader(in)
	c.Stdout = f
	c.Stderr = os.Stderr
	return c.Run()
}
