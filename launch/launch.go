// Package launch starts the rank processes of one render pass and runs a single rank.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/config"
	"golang.org/x/sync/errgroup"
)

// WorkerName is the rank binary looked up when Options.Worker is empty
const WorkerName = "mandelworker"

var ErrNoWorker = errors.New("rank binary not found")

type Options struct {
	Ranks     int
	Transport string // config.TransportTCP when empty
	Addr      string // root address; a free loopback port when empty
	Worker    string // rank binary; WorkerName next to this executable or in PATH when empty
	Out       string // bitmap written by rank 0; grid.DefaultPath() of the rank when empty

	// Env is appended to every rank's environment
	Env []string

	// Output receives the combined output of all ranks, os.Stderr when nil
	Output io.Writer
}

// Run starts opts.Ranks copies of the rank binary rendering rc and waits for all of them.
// When one rank fails the others are killed.
func Run(ctx context.Context, opts Options, rc mandel.RenderContext) error {
	if opts.Ranks < 1 {
		return fmt.Errorf("%w: %d ranks", config.ErrInvalidArgument, opts.Ranks)
	}
	if err := rc.Validate(); err != nil {
		return err
	}

	worker, err := workerPath(opts.Worker)
	if err != nil {
		return err
	}

	transport := opts.Transport
	if transport == "" {
		transport = config.TransportTCP
	}
	addr := opts.Addr
	if addr == "" && opts.Ranks > 1 {
		if addr, err = FreeAddr(); err != nil {
			return err
		}
	}

	var out io.Writer = os.Stderr
	if opts.Output != nil {
		out = &syncWriter{w: opts.Output}
	}

	args := []string{}
	if opts.Out != "" {
		args = append(args, "-out", opts.Out)
	}
	args = append(args, "--")
	args = append(args, config.Args(rc)...)

	log.Printf("launching %d ranks of %s on %s %s", opts.Ranks, worker, transport, addr)

	eg, ctx := errgroup.WithContext(ctx)
	for rank := 0; rank < opts.Ranks; rank++ {
		p := config.Process{Rank: rank, Size: opts.Ranks, Addr: addr, Transport: transport}
		if err := p.Validate(); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, worker, args...)
		cmd.Env = append(append(os.Environ(), p.Environ()...), opts.Env...)
		cmd.Stdout = out
		cmd.Stderr = out
		eg.Go(func() error {
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// FreeAddr returns a loopback address with a port nobody listens on right now
func FreeAddr() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("net.Listen: %w", err)
	}
	defer l.Close()
	return l.Addr().String(), nil
}

func workerPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), WorkerName)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	path, err := exec.LookPath(WorkerName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoWorker, err)
	}
	return path, nil
}

// syncWriter serializes writes coming from several rank processes
type syncWriter struct {
	m sync.Mutex
	w io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.w.Write(p)
}
