package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"

	"vnhdrive/core"
	"vnhdrive/host/config"
	"vnhdrive/host/serial"
	"vnhdrive/sim"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	device     = flag.String("device", "", "Serial device to serve the board on, for example one end of a pty pair (default stdin/stdout)")
	tick       = flag.Duration("tick", 0, "Control loop period (overrides config)")
	dumpTrace  = flag.Bool("trace", false, "Print the transition trace on exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Fatalf("config: %v", err)
	}
	if *tick > 0 {
		cfg.Sim.Tick = *tick
	}

	in, out, closer, err := openConsole(cfg)
	if err != nil {
		glog.Fatalf("%v", err)
	}
	defer closer.Close()

	board, err := sim.NewBoard(out, cfg.Motor())
	if err != nil {
		glog.Fatalf("failed to create board: %v", err)
	}
	board.TickInterval = cfg.Sim.Tick

	core.SetDebugWriter(func(s string) { glog.Info(s) })
	core.SetDebugEnabled(bool(glog.V(1)))
	if glog.V(2) {
		board.Bridge.OnEvent = func(evt sim.PinEvent) {
			glog.Infof("pin %d=%t ina=%t inb=%t", evt.Pin, evt.Level, evt.InA, evt.InB)
		}
	}

	if err := board.Boot(); err != nil {
		glog.Fatalf("boot: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		defer cancel()
		if err := feed(board, in); err != nil {
			glog.Errorf("input: %v", err)
		}
	}()

	if err := board.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("run: %v", err)
	}
	board.Close()

	st := board.State()
	glog.Infof("stopped: duty=%d dir=%s pwm=%s ticks=%d faults=%d overruns=%d dropped=%d shorts=%d",
		st.Duty, st.Direction, st.PWM, st.Ticks, board.Dispatcher.Faults(),
		board.UART.Overruns(), board.ConsoleDropped(), board.Bridge.Shorts())
	if *dumpTrace {
		board.Dispatcher.Trace().Dump(func(s string) { fmt.Fprint(os.Stderr, s) })
	}
}

func openConsole(cfg *config.Config) (io.Reader, io.Writer, io.Closer, error) {
	if *device == "" {
		return os.Stdin, os.Stdout, io.NopCloser(os.Stdin), nil
	}
	serialCfg := cfg.SerialPort()
	serialCfg.Device = *device
	glog.Infof("serving board on %s", *device)
	port, err := serial.Open(serialCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return port, port, port, nil
}

// feed copies host bytes into the receive ring until in ends. Reads with
// no data (serial read timeouts) are retried.
func feed(board *sim.Board, in io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if glog.V(2) {
				glog.Infof("rx %q", buf[:n])
			}
			board.Feed(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
