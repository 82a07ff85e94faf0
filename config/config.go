// Package config turns the command line and the launcher environment into
// the values a rank process needs before it starts rendering.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	mandel "github.com/marben/mpi_mandel"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Usage describes the positional arguments every rank receives
const Usage = "width height minX maxX minY maxY"

// ParseArgs parses exactly six positional values: width height minX maxX minY maxY.
func ParseArgs(args []string) (mandel.RenderContext, error) {
	if len(args) != 6 {
		return mandel.RenderContext{}, fmt.Errorf("%w: expected 6 arguments (%s), got %d", ErrInvalidArgument, Usage, len(args))
	}

	var rc mandel.RenderContext
	var err error
	if rc.Width, err = parseInt("width", args[0]); err != nil {
		return mandel.RenderContext{}, err
	}
	if rc.Height, err = parseInt("height", args[1]); err != nil {
		return mandel.RenderContext{}, err
	}

	bounds := []struct {
		name string
		dst  *float64
	}{
		{"minX", &rc.MinX},
		{"maxX", &rc.MaxX},
		{"minY", &rc.MinY},
		{"maxY", &rc.MaxY},
	}
	for i, b := range bounds {
		f, err := strconv.ParseFloat(args[2+i], 64)
		if err != nil {
			return mandel.RenderContext{}, fmt.Errorf("%w: %s %q is not a number", ErrInvalidArgument, b.name, args[2+i])
		}
		*b.dst = f
	}

	if err := rc.Validate(); err != nil {
		return mandel.RenderContext{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return rc, nil
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidArgument, name, s)
	}
	return n, nil
}

// Args formats rc as the positional arguments ParseArgs accepts.
// Floats use the shortest representation that parses back to the same bits.
func Args(rc mandel.RenderContext) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return []string{
		strconv.Itoa(rc.Width),
		strconv.Itoa(rc.Height),
		f(rc.MinX),
		f(rc.MaxX),
		f(rc.MinY),
		f(rc.MaxY),
	}
}

// Environment variables the launcher sets for every rank process
const (
	EnvRank      = "MANDEL_RANK"
	EnvSize      = "MANDEL_SIZE"
	EnvRootAddr  = "MANDEL_ROOT_ADDR"
	EnvTransport = "MANDEL_TRANSPORT"
)

const (
	TransportTCP       = "tcp"
	TransportWebsocket = "ws"
)

// Process describes this process's place in the group.
type Process struct {
	Rank      int
	Size      int
	Addr      string // root listen address
	Transport string
}

func (p Process) IsRoot() bool { return p.Rank == 0 }

func (p Process) Validate() error {
	if p.Size < 1 {
		return fmt.Errorf("%w: group size %d", ErrInvalidArgument, p.Size)
	}
	if p.Rank < 0 || p.Rank >= p.Size {
		return fmt.Errorf("%w: rank %d of %d", ErrInvalidArgument, p.Rank, p.Size)
	}
	if p.Size == 1 {
		return nil
	}
	if p.Addr == "" {
		return fmt.Errorf("%w: %s is required for a group of %d", ErrInvalidArgument, EnvRootAddr, p.Size)
	}
	switch p.Transport {
	case TransportTCP, TransportWebsocket:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidArgument, p.Transport)
	}
	return nil
}

// Environ returns the variables that make a child process see p through ProcessFromEnv.
func (p Process) Environ() []string {
	return []string{
		EnvRank + "=" + strconv.Itoa(p.Rank),
		EnvSize + "=" + strconv.Itoa(p.Size),
		EnvRootAddr + "=" + p.Addr,
		EnvTransport + "=" + p.Transport,
	}
}

// ProcessFromEnv reads the group description set by the launcher.
// Without any of it the process runs alone as rank 0 of 1.
func ProcessFromEnv() (Process, error) {
	return processFrom(os.Getenv)
}

func processFrom(getenv func(string) string) (Process, error) {
	p := Process{
		Size:      1,
		Addr:      getenv(EnvRootAddr),
		Transport: getenv(EnvTransport),
	}
	if p.Transport == "" {
		p.Transport = TransportTCP
	}

	var err error
	if s := getenv(EnvRank); s != "" {
		if p.Rank, err = parseInt(EnvRank, s); err != nil {
			return Process{}, err
		}
	}
	if s := getenv(EnvSize); s != "" {
		if p.Size, err = parseInt(EnvSize, s); err != nil {
			return Process{}, err
		}
	}

	if err := p.Validate(); err != nil {
		return Process{}, err
	}
	return p, nil
}
