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
	"time"

	"github.com/golang/glog"

	"vnhdrive/host/board"
	"vnhdrive/host/config"
	"vnhdrive/host/mqttbridge"
	"vnhdrive/host/serial"
	"vnhdrive/host/shell"
	"vnhdrive/protocol"
	"vnhdrive/sim"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	simulated  = flag.Bool("sim", false, "Drive an in-process simulated board instead of a serial device")
	mqttMode   = flag.Bool("mqtt", false, "Run the MQTT bridge instead of the shell")
	evalOnly   = flag.Bool("e", false, "Evaluate the remaining arguments as one shell command and exit")
	bootWait   = flag.Duration("boot-wait", 2*time.Second, "How long to wait for the boot banner")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*configPath)
	if err != nil {
		glog.Fatalf("config: %v", err)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}

	port, err := openPort(cfg)
	if err != nil {
		glog.Fatalf("%v", err)
	}

	b := board.New(port)
	defer b.Close()

	waitBanner(b)

	switch {
	case *mqttMode:
		err = runBridge(cfg, b)
	case *evalOnly:
		err = shell.New(b).Eval(flag.Args()...)
	default:
		sh := shell.New(b)
		sh.Run()
		sh.Close()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func openPort(cfg *config.Config) (io.ReadWriteCloser, error) {
	if *simulated {
		glog.Infof("using simulated board (tick %s)", cfg.Sim.Tick)
		p, err := sim.OpenPort(cfg.Motor(), cfg.Sim.Tick)
		if err != nil {
			return nil, fmt.Errorf("failed to start simulator: %w", err)
		}
		return p, nil
	}

	glog.Infof("connecting to %s at %d baud", cfg.Serial.Device, cfg.Serial.Baud)
	port, err := serial.Open(cfg.SerialPort())
	if err != nil {
		return nil, err
	}
	return port, nil
}

// waitBanner prints the boot banner. Boards that were already running
// when the port opened never send one, so a timeout is not an error.
func waitBanner(b *board.Board) {
	timeout := time.After(*bootWait)
	for n := 0; n < protocol.BannerLines; {
		select {
		case line, ok := <-b.Lines():
			if !ok {
				return
			}
			if line.Status {
				continue
			}
			fmt.Println(line.Text)
			n++
		case <-timeout:
			glog.V(1).Infof("no banner within %s", *bootWait)
			return
		}
	}
}

func runBridge(cfg *config.Config, b *board.Board) error {
	id, err := mqttbridge.ClientID(cfg.MQTT.ClientID)
	if err != nil {
		return err
	}
	client := mqttbridge.NewClient(cfg.MQTT, id)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	glog.Infof("bridging to %s as %s", cfg.MQTT.Broker, mqttbridge.Topic(cfg.MQTT.Prefix, id, ""))
	return mqttbridge.New(client, b, cfg.MQTT.Prefix, id).Run(ctx)
}
