// Command paw runs the touch resonator and piezo trigger patches.
//
// Usage:
//
//	paw resonator [flags]   one resonator tuned by a touch sensor
//	paw bank [flags]        a resonator bank model tuned by a touch sensor
//	paw trigger [flags]     piezo strikes trigger sample playback
//	paw scope [flags]       log the piezo input
//
// Patches run live on PortAudio by default. -driver wav renders -in to -out
// offline and -driver oto plays the response to -in on the speakers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/BelaPlatform/PAW-2019/config"
	"github.com/BelaPlatform/PAW-2019/driver"
	"github.com/BelaPlatform/PAW-2019/driver/live"
	"github.com/BelaPlatform/PAW-2019/driver/speaker"
	"github.com/BelaPlatform/PAW-2019/render"
	"github.com/BelaPlatform/PAW-2019/sample"
	"github.com/BelaPlatform/PAW-2019/scope"
	"github.com/BelaPlatform/PAW-2019/touch"
)

var logger = slog.Default()

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	}))
	slog.SetDefault(logger)
}

type command struct {
	name, summary string
	defaults      func() config.Config
	touch         bool
	patch         func(config.Config, touch.Sensor) render.Patch
}

var commands = []command{
	{"resonator", "one resonator tuned by a touch sensor", config.Resonator, true,
		func(c config.Config, s touch.Sensor) render.Patch { return render.NewResonator(c, s) }},
	{"bank", "a resonator bank model tuned by a touch sensor", config.Bank, true,
		func(c config.Config, s touch.Sensor) render.Patch { return render.NewBank(c, s) }},
	{"trigger", "piezo strikes trigger sample playback", config.Trigger, false,
		func(c config.Config, _ touch.Sensor) render.Patch { return render.NewTrigger(c) }},
	{"scope", "log the piezo input", config.Scope, false,
		func(c config.Config, _ touch.Sensor) render.Patch { return render.NewScope(c) }},
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: paw <command> [flags]")
	fmt.Fprintln(os.Stderr)
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr, "\nRun paw <command> -h for the command's flags.")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	for _, c := range commands {
		if c.name == os.Args[1] {
			if err := run(c, os.Args[2:]); err != nil {
				if err == flag.ErrHelp {
					os.Exit(0)
				}
				fmt.Fprintln(os.Stderr, "paw:", err)
				os.Exit(1)
			}
			return
		}
	}
	usage()
	os.Exit(2)
}

type options struct {
	config   string
	driver   string
	in, out  string
	tail     time.Duration
	realtime bool
	scopeOut string
	debug    bool

	sampleRate float64
	blockSize  int
	outputs    int
	model      string
	sample     string

	sensor     string
	serialPort string
	baud       int
	script     string
}

func (o *options) register(fs *flag.FlagSet, cmd command) {
	fs.StringVar(&o.config, "config", "", "JSON `file` overlaid on the command's defaults")
	fs.StringVar(&o.driver, "driver", "portaudio", "audio driver: portaudio, wav or oto")
	fs.StringVar(&o.in, "in", "", "input WAV `file` for the wav and oto drivers")
	fs.StringVar(&o.out, "out", "", "output WAV `file` for the wav driver")
	fs.DurationVar(&o.tail, "tail", time.Second, "silence rendered after -in ends")
	fs.BoolVar(&o.realtime, "realtime", false, "pace the wav driver at the stream rate")
	fs.BoolVar(&o.debug, "debug", false, "debug logging")
	fs.Float64Var(&o.sampleRate, "rate", 0, "sample rate in Hz (default from config)")
	fs.IntVar(&o.blockSize, "block", 0, "frames per block (default from config)")
	fs.IntVar(&o.outputs, "outputs", 0, "output channels (default from config)")

	switch cmd.name {
	case "bank":
		fs.StringVar(&o.model, "model", "", "resonator model `file` (default from config)")
	case "trigger":
		fs.StringVar(&o.sample, "sample", "", "WAV `file` to trigger (default from config)")
	}
	if cmd.name == "trigger" || cmd.name == "scope" {
		fs.StringVar(&o.scopeOut, "scope-out", "", "write the last scope window to this WAV `file` on exit")
	}
	if cmd.touch {
		fs.StringVar(&o.sensor, "sensor", "serial", "touch sensor: serial, script or none")
		fs.StringVar(&o.serialPort, "serial", "/dev/ttyACM0", "serial `port` of the sensor bridge")
		fs.IntVar(&o.baud, "baud", 115200, "serial baud rate")
		fs.StringVar(&o.script, "touch", "", "touch script CSV `file` for -sensor script")
	}
}

// apply overrides cfg with the flags set on the command line.
func (o *options) apply(cfg *config.Config, set map[string]bool) {
	if set["rate"] {
		cfg.SampleRate = o.sampleRate
	}
	if set["block"] {
		cfg.BlockSize = o.blockSize
	}
	if set["outputs"] {
		cfg.OutChannels = o.outputs
	}
	if set["model"] {
		cfg.ModelPath = o.model
	}
	if set["sample"] {
		cfg.SamplePath = o.sample
	}
}

func run(cmd command, args []string) error {
	fs := flag.NewFlagSet("paw "+cmd.name, flag.ContinueOnError)
	var o options
	o.register(fs, cmd)
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogger(o.debug)

	cfg := cmd.defaults()
	if o.config != "" {
		if err := config.Load(o.config, &cfg); err != nil {
			return err
		}
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	o.apply(&cfg, set)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var sensor touch.Sensor
	if cmd.touch {
		s, closeSensor, err := openSensor(&o)
		if err != nil {
			return err
		}
		defer closeSensor()
		sensor = s
	}

	c := render.NewContext(cfg.SampleRate, cfg.BlockSize, cfg.InChannels, cfg.OutChannels)
	c.Log = logger
	d, err := newDriver(&o, c)
	if err != nil {
		return err
	}
	patch := cmd.patch(cfg, sensor)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info("starting", "patch", cmd.name, "driver", o.driver,
		"rate", cfg.SampleRate, "block", cfg.BlockSize, "outputs", cfg.OutChannels)
	err = d.Run(ctx, patch)
	if o.scopeOut != "" {
		if serr := saveScope(o.scopeOut, patch, cfg.SampleRate); serr != nil && err == nil {
			err = serr
		}
	}
	return err
}

func openSensor(o *options) (touch.Sensor, func(), error) {
	switch o.sensor {
	case "serial":
		s := touch.NewSerial(o.serialPort, o.baud, 2*time.Second)
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("closing touch sensor", "err", err)
			}
		}, nil
	case "script":
		if o.script == "" {
			return nil, nil, errors.New("-sensor script needs -touch")
		}
		s, err := touch.LoadScript(o.script)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "none":
		return nil, func() {}, nil
	}
	return nil, nil, errors.Errorf("unknown sensor %q", o.sensor)
}

func newDriver(o *options, c *render.Context) (driver.Driver, error) {
	switch o.driver {
	case "portaudio":
		return &live.PortAudio{Context: c}, nil
	case "wav":
		if o.in == "" || o.out == "" {
			return nil, errors.New("-driver wav needs -in and -out")
		}
		return &driver.WAV{Context: c, In: o.in, Out: o.out, BitDepth: 24, Tail: o.tail, Realtime: o.realtime}, nil
	case "oto":
		if o.in == "" {
			return nil, errors.New("-driver oto needs -in")
		}
		return &speaker.Oto{Context: c, In: o.in, Tail: o.tail}, nil
	}
	return nil, errors.Errorf("unknown driver %q", o.driver)
}

func saveScope(path string, p render.Patch, sampleRate float64) error {
	sp, ok := p.(interface{ Scope() *scope.Scope })
	if !ok || sp.Scope() == nil {
		return nil
	}
	snap := sp.Scope().Snapshot()
	if err := sample.Save(path, int(sampleRate), 24, snap); err != nil {
		return errors.Wrap(err, "saving scope")
	}
	logger.Info("saved scope", "path", path, "frames", len(snap[0]))
	return nil
}
