// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedExecutor answers LookPath and RunSilent from fixed sets and logs
// every command line it is asked to run.
type scriptedExecutor struct {
	onPath  []string
	succeed []string
	piped   func(stdin io.Reader, stdout, stderr io.Writer) error
	calls   []string
}

func (e *scriptedExecutor) LookPath(file string) (string, error) {
	for _, bin := range e.onPath {
		if bin == file {
			return "/usr/bin/" + file, nil
		}
	}
	return "", errors.New("not found: " + file)
}

func (e *scriptedExecutor) RunSilent(name string, args ...string) error {
	line := strings.Join(append([]string{name}, args...), " ")
	e.calls = append(e.calls, line)
	for _, ok := range e.succeed {
		if ok == line {
			return nil
		}
	}
	return errors.New("exit status 1")
}

func (e *scriptedExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e.calls = append(e.calls, strings.Join(append([]string{name}, args...), " "))
	if e.piped == nil {
		return nil
	}
	return e.piped(stdin, stdout, stderr)
}

const popplerImage = "poppler:latest"

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name    string
		onPath  []string
		succeed []string
		want    string
	}{
		{"docker preferred", []string{"docker", "podman"}, []string{"docker info", "podman info"}, "docker"},
		{"docker daemon down", []string{"docker", "podman"}, []string{"podman info"}, "podman"},
		{"no runtime", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&scriptedExecutor{onPath: tt.onPath, succeed: tt.succeed})
			if tt.want == "" {
				assert.ErrorContains(t, err, "none of docker, podman")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rt.Name())
		})
	}
}

func TestImageExistsUsesRuntimeSubcommand(t *testing.T) {
	for _, rt := range candidates(&scriptedExecutor{}) {
		exec := &scriptedExecutor{succeed: []string{
			"docker image inspect " + popplerImage,
			"podman image exists " + popplerImage,
		}}
		rt.exec = exec
		assert.NoError(t, rt.ImageExists(popplerImage), rt.bin)

		rt.exec = &scriptedExecutor{}
		assert.ErrorContains(t, rt.ImageExists(popplerImage), popplerImage, rt.bin)
	}
}

func TestRunPdftotext(t *testing.T) {
	exec := &scriptedExecutor{piped: func(stdin io.Reader, stdout, _ io.Writer) error {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, "Strand 1.0 Numbers\f"+string(data))
		return err
	}}
	var out bytes.Buffer

	err := newPodmanRuntime(exec).Run(popplerImage, []string{"pdftotext", "-layout", "-", "-"},
		strings.NewReader("%PDF-1.7"), &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"podman run --rm -i --network none " + popplerImage + " pdftotext -layout - -"}, exec.calls)
	assert.Equal(t, "Strand 1.0 Numbers\f%PDF-1.7", out.String())
}

func TestRunReportsToolErrors(t *testing.T) {
	tests := []struct {
		name    string
		stderr  string
		wantErr string
	}{
		{"stderr appended", "Syntax Error: Couldn't find trailer dictionary\n", "exit status 1: Syntax Error: Couldn't find trailer dictionary"},
		{"no stderr", "", "running docker container " + popplerImage + ": exit status 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &scriptedExecutor{piped: func(_ io.Reader, _, stderr io.Writer) error {
				_, _ = io.WriteString(stderr, tt.stderr)
				return errors.New("exit status 1")
			}}
			err := newDockerRuntime(exec).Run(popplerImage, []string{"pdftotext", "-", "-"}, strings.NewReader(""), io.Discard)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
