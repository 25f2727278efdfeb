package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vnhdrive/core"
)

type fakeBoard struct {
	commands []core.Command
	sent     []byte
	err      error
}

func (b *fakeBoard) Command(ctx context.Context, cmd core.Command) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	b.commands = append(b.commands, cmd)
	return b.err
}

func (b *fakeBoard) SendByte(data ...byte) error {
	b.sent = append(b.sent, data...)
	return b.err
}

func (b *fakeBoard) Banner() []string { return nil }

func TestDoReturnsStatusLine(t *testing.T) {
	board := &fakeBoard{}
	s := &Shell{Board: board}

	line, err := s.Do(core.Left)
	require.NoError(t, err)
	assert.Equal(t, "Going Left", line)

	line, err = s.Do(core.IncreaseSpeed)
	require.NoError(t, err)
	assert.Equal(t, "Increasing duty cycle", line)

	assert.Equal(t, []core.Command{core.Left, core.IncreaseSpeed}, board.commands)
}

func TestDoIdle(t *testing.T) {
	board := &fakeBoard{}
	s := &Shell{Board: board}

	_, err := s.Do(core.Idle)
	require.ErrorIs(t, err, core.ErrUnknownCommand)
	assert.Empty(t, board.commands)
}

func TestDoBoardError(t *testing.T) {
	s := &Shell{Board: &fakeBoard{err: context.DeadlineExceeded}}

	_, err := s.Do(core.Stop)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSend(t *testing.T) {
	board := &fakeBoard{}
	s := &Shell{Board: board}

	require.NoError(t, s.Send("lpz"))
	require.NoError(t, s.Send(""))
	assert.Equal(t, []byte("lpz"), board.sent)
}

func TestCommandTable(t *testing.T) {
	names := map[string][]string{}
	for _, cmd := range commands {
		names[cmd.Name] = cmd.Aliases
		assert.NotNil(t, cmd.Func, cmd.Name)
	}

	assert.Equal(t, []string{"l"}, names["left"])
	assert.Equal(t, []string{"r"}, names["right"])
	assert.Equal(t, []string{"p"}, names["faster"])
	assert.Equal(t, []string{"m"}, names["slower"])
	assert.Equal(t, []string{"s"}, names["stop"])
	assert.Contains(t, names, "send")
	assert.Contains(t, names, "banner")
}

func TestStopHelpMatchesBoard(t *testing.T) {
	for _, cmd := range commands {
		if cmd.Name != "stop" {
			continue
		}
		assert.Equal(t, "release both bridge inputs; duty is kept (s)", cmd.Help)
		return
	}
	t.Fatal("stop command missing")
}
