// Copyright (c) 2025, Fleetscope Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a command against a target system and returns its
// stdout. Implementations carry the transport: SSH through a gateway
// CLI in production, canned strings in tests.
type Runner interface {
	Run(ctx context.Context, target, command string) (string, error)
}

// ExecRunner runs commands through a gateway binary, invoked as
//
//	<binary> <args...> <target> <command>
//
// which matches ssh and pw-style cluster CLIs.
type ExecRunner struct {
	// Binary is the gateway executable, for example "ssh".
	Binary string

	// Args are inserted between the binary and the target.
	Args []string

	// Timeout bounds a single command when the caller's context has no
	// earlier deadline.
	Timeout time.Duration
}

// NewExecRunner creates a runner for the given gateway binary.
func NewExecRunner(binary string, args ...string) *ExecRunner {
	return &ExecRunner{Binary: binary, Args: args, Timeout: 30 * time.Second}
}

// Run executes the command on the target and returns trimmed stdout.
func (r *ExecRunner) Run(ctx context.Context, target, command string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	argv := make([]string, 0, len(r.Args)+2)
	argv = append(argv, r.Args...)
	argv = append(argv, target, command)

	cmd := exec.CommandContext(ctx, r.Binary, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s %s: %s", r.Binary, target, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Available reports whether the gateway binary can be found.
func (r *ExecRunner) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}
