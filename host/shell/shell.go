// Package shell provides an ishell backed console for the motor driver.
package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"vnhdrive/core"
)

// DefaultTimeout bounds the wait for a status line
const DefaultTimeout = 2 * time.Second

const (
	shellKey = "$shell"
	prompt   = "vnh> "
)

// Board is the part of board.Board the shell drives
type Board interface {
	Command(ctx context.Context, cmd core.Command) error
	SendByte(data ...byte) error
	Banner() []string
}

// Shell wraps ishell with the motor commands.
type Shell struct {
	Board   Board
	Timeout time.Duration

	Shell *ishell.Shell
}

var commands = []*ishell.Cmd{
	motorCmd("left", core.Left, "drive the motor left (l)"),
	motorCmd("right", core.Right, "drive the motor right (r)"),
	motorCmd("faster", core.IncreaseSpeed, "increase duty cycle one step (p)"),
	motorCmd("slower", core.DecreaseSpeed, "decrease duty cycle one step (m)"),
	motorCmd("stop", core.Stop, "release both bridge inputs; duty is kept (s)"),
	&SendCmd,
	&BannerCmd,
}

var (
	// SendCmd writes raw bytes without waiting for a reply.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "BYTES... - write raw bytes, unknown ones are ignored by the board",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("BYTES required"))
				return
			}
			if err := ShellFrom(c).Send(strings.Join(c.Args, "")); err != nil {
				c.Err(err)
			}
		},
	}

	// BannerCmd prints the banner received at boot.
	BannerCmd = ishell.Cmd{
		Name: "banner",
		Help: "print the boot banner",
		Func: func(c *ishell.Context) {
			banner := ShellFrom(c).Board.Banner()
			if len(banner) == 0 {
				c.Println("(no banner received)")
				return
			}
			for _, line := range banner {
				c.Println(line)
			}
		},
	}
)

func motorCmd(name string, cmd core.Command, help string) *ishell.Cmd {
	key := cmd.Key()
	return &ishell.Cmd{
		Name:    name,
		Aliases: []string{string(key)},
		Help:    help,
		Func: func(c *ishell.Context) {
			line, err := ShellFrom(c).Do(cmd)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(line)
		},
	}
}

// New creates a shell driving b.
func New(b Board) *Shell {
	s := &Shell{
		Board:   b,
		Timeout: DefaultTimeout,
		Shell:   ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Do sends cmd and returns the status line the board answered with
func (s *Shell) Do(cmd core.Command) (string, error) {
	line, ok := cmd.StatusLine()
	if !ok {
		return "", fmt.Errorf("cannot send %s: %w", cmd, core.ErrUnknownCommand)
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	if err := s.Board.Command(ctx, cmd); err != nil {
		return "", err
	}
	return line, nil
}

// Send writes the bytes of text as typed
func (s *Shell) Send(text string) error {
	if text == "" {
		return nil
	}
	return s.Board.SendByte([]byte(text)...)
}

// Eval runs one command line non-interactively
func (s *Shell) Eval(args ...string) error {
	return s.Shell.Process(args...)
}

// Run starts the interactive shell and blocks until it exits
func (s *Shell) Run() {
	s.Shell.Println("VNH2SP30 motor driver shell, type help for commands")
	s.Shell.Run()
}

// Close releases the terminal
func (s *Shell) Close() {
	s.Shell.Close()
}

func (s *Shell) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}
