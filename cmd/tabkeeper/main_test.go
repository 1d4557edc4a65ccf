package main

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
}

func TestHandlePanic_WritesLog(t *testing.T) {
	defer resetMocks()

	var written string
	exitCode := -1
	osWriteFile = func(name string, data []byte, _ os.FileMode) error {
		assert.Equal(t, panicLogFile, name)
		written = string(data)
		return nil
	}
	osExit = func(code int) { exitCode = code }

	func() {
		defer handlePanic()
		panic("hook callback exploded")
	}()

	assert.Equal(t, 1, exitCode)
	assert.True(t, strings.HasPrefix(written, "panic: hook callback exploded"))
	assert.Contains(t, written, "goroutine")
}

func TestHandlePanic_LogWriteFails(t *testing.T) {
	defer resetMocks()

	exitCode := -1
	osWriteFile = func(string, []byte, os.FileMode) error { return errors.New("read-only") }
	osExit = func(code int) { exitCode = code }

	func() {
		defer handlePanic()
		panic("boom")
	}()
	assert.Equal(t, 1, exitCode)
}

func TestHandlePanic_NoPanic(t *testing.T) {
	defer resetMocks()

	called := false
	osExit = func(int) { called = true }
	func() {
		defer handlePanic()
	}()
	assert.False(t, called)
}
