// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
	lastArgs      []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	m.lastArgs = args
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdin, stdout, stderr)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "both available, docker preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"docker info": true, "podman info": true},
			},
			wantName: "docker",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	tests := []struct {
		name    string
		mkRT    func(*mockExecutor) Runtime
		cmds    map[string]bool
		wantErr bool
	}{
		{
			name: "docker image exists",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			cmds: map[string]bool{"docker image inspect local-llm:latest": true},
		},
		{
			name:    "docker image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			wantErr: true,
		},
		{
			name: "podman image exists",
			mkRT: func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			cmds: map[string]bool{"podman image exists local-llm:latest": true},
		},
		{
			name:    "podman image not found",
			mkRT:    func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runnableCmds: tt.cmds})
			err := rt.ImageExists("local-llm:latest")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "local-llm:latest")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		mkRT     func(*mockExecutor) Runtime
		input    string
		pipeFunc func(string, []string, io.Reader, io.Writer, io.Writer) error
		wantOut  string
		errMsg   string
	}{
		{
			name:  "docker run pipes stdin to stdout",
			mkRT:  func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			input: "prompt",
			pipeFunc: func(name string, _ []string, stdin io.Reader, stdout, _ io.Writer) error {
				if name != "docker" {
					return errors.New("expected docker binary")
				}
				data, _ := io.ReadAll(stdin)
				_, _ = stdout.Write([]byte("reply to " + string(data)))
				return nil
			},
			wantOut: "reply to prompt",
		},
		{
			name:  "podman run pipes stdin to stdout",
			mkRT:  func(e *mockExecutor) Runtime { return newPodmanRuntime(e) },
			input: "prompt",
			pipeFunc: func(name string, _ []string, stdin io.Reader, stdout, _ io.Writer) error {
				if name != "podman" {
					return errors.New("expected podman binary")
				}
				data, _ := io.ReadAll(stdin)
				_, _ = stdout.Write([]byte("reply to " + string(data)))
				return nil
			},
			wantOut: "reply to prompt",
		},
		{
			name: "failure carries stderr",
			mkRT: func(e *mockExecutor) Runtime { return newDockerRuntime(e) },
			pipeFunc: func(_ string, _ []string, _ io.Reader, _, stderr io.Writer) error {
				_, _ = stderr.Write([]byte("model not loaded\n"))
				return errors.New("exit status 1")
			},
			errMsg: "model not loaded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := tt.mkRT(&mockExecutor{runPipedFunc: tt.pipeFunc})
			var out bytes.Buffer
			err := rt.Run(context.Background(), RunSpec{Image: "local-llm:latest"}, strings.NewReader(tt.input), &out)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestRunArgs(t *testing.T) {
	exec := &mockExecutor{}
	rt := newDockerRuntime(exec)

	spec := RunSpec{
		Image: "local-llm:latest",
		Env:   map[string]string{"TEMPERATURE": "0.7", "MAX_TOKENS": "500"},
		Args:  []string{"--quiet"},
	}
	require.NoError(t, rt.Run(context.Background(), spec, strings.NewReader(""), io.Discard))
	assert.Equal(t, []string{
		"run", "--rm", "-i",
		"-e", "MAX_TOKENS=500",
		"-e", "TEMPERATURE=0.7",
		"local-llm:latest", "--quiet",
	}, exec.lastArgs)
}

func TestRunCancelled(t *testing.T) {
	rt := newDockerRuntime(&mockExecutor{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := rt.Run(ctx, RunSpec{Image: "local-llm:latest"}, strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRuntimeName(t *testing.T) {
	exec := &mockExecutor{}
	assert.Equal(t, "docker", newDockerRuntime(exec).Name())
	assert.Equal(t, "podman", newPodmanRuntime(exec).Name())
}
