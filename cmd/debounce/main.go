package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"github.com/xmidt-org/debounce/concurrent"
	"github.com/xmidt-org/debounce/debounce"
	"github.com/xmidt-org/debounce/frame"
	"github.com/xmidt-org/debounce/xmetrics"
	"github.com/xmidt-org/debounce/xviper"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	applicationName = "debounce"

	logLevelFlag = "log-level"
	framesFlag   = "frames"
	intervalFlag = "interval"
)

func newFlagSet(errOut io.Writer) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.StringP(xviper.DefaultFileFlag, "f", "", "the configuration file to use instead of the standard search paths")
	flagSet.Duration("wait", 250*time.Millisecond, "the quiet period that ends a burst of lines")
	flagSet.Duration("maxWait", 0, "the longest a burst may postpone output, or zero for no maximum")
	flagSet.Bool("leading", false, "emit the first line of each burst")
	flagSet.Bool("trailing", true, "emit the last line of each burst")
	flagSet.Int("maxCalls", 0, "stop emitting after this many lines, or zero for no limit")
	flagSet.Bool(framesFlag, false, "align output to frames instead of timers when wait is zero")
	flagSet.Duration(intervalFlag, frame.DefaultInterval, "the frame interval")
	flagSet.String(logLevelFlag, "info", "the minimum log level")
	return flagSet
}

func newLogger(level string, errOut io.Writer) (*zap.Logger, error) {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return zap.New(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(errOut),
			l,
		),
	), nil
}

// emit writes each serviced line.  It runs under the Debounced function's lock, so writes never interleave.
func emit(out io.Writer) debounce.Func[string, string] {
	return func(ctx context.Context, line string) (string, error) {
		sallust.Get(ctx).Debug("emitting line", zap.Int("length", len(line)))
		_, err := fmt.Fprintln(out, line)
		return line, err
	}
}

// scan delivers lines until in is exhausted, then closes the returned channel.
// Read errors are delivered on errs.
func scan(in io.Reader) (<-chan string, <-chan error) {
	var (
		lines = make(chan string)
		errs  = make(chan error, 1)
	)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	return lines, errs
}

func run(ctx context.Context, arguments []string, in io.Reader, out, errOut io.Writer) int {
	f := newFlagSet(errOut)
	if err := f.Parse(arguments); err != nil {
		return 2
	}

	v, err := xviper.New(
		xviper.StdOptions(applicationName, f),
		xviper.ApplyDefaults(xviper.Defaults{"name": applicationName}),
		xviper.ReadInConfig,
	)

	if err != nil {
		fmt.Fprintf(errOut, "Unable to configure viper: %s\n", err)
		return 1
	}

	logger, err := newLogger(v.GetString(logLevelFlag), errOut)
	if err != nil {
		fmt.Fprintf(errOut, "Unable to create logger: %s\n", err)
		return 1
	}

	defer logger.Sync() //nolint:errcheck
	if used := v.ConfigFileUsed(); len(used) > 0 {
		logger.Info("using configuration file", zap.String("file", used))
	}

	registry, err := xmetrics.NewRegistry(
		&xmetrics.Options{
			Subsystem:               applicationName,
			DisableGoCollector:      true,
			DisableProcessCollector: true,
		},
		debounce.Metrics,
	)

	if err != nil {
		logger.Error("Unable to create metrics registry", zap.Error(err))
		return 1
	}

	config, err := debounce.FromViper(v)
	if err != nil {
		logger.Error("Unable to read debounce configuration", zap.Error(err))
		return 1
	}

	wait, options, err := config.Options()
	if err != nil {
		logger.Error("Invalid debounce configuration", zap.Error(err))
		return 1
	}

	options = append(options,
		debounce.WithLogger(logger),
		debounce.WithMeasures(debounce.NewMeasures(registry)),
	)

	if v.GetBool(framesFlag) {
		scheduler := frame.New(
			frame.WithInterval(v.GetDuration(intervalFlag)),
			frame.WithLogger(logger),
		)

		waitGroup, shutdown, err := concurrent.Execute(scheduler)
		if err != nil {
			logger.Error("Unable to start frame scheduler", zap.Error(err))
			return 1
		}

		defer waitGroup.Wait()
		defer close(shutdown)
		options = append(options, debounce.WithFrames(scheduler))
	}

	d, err := debounce.New(emit(out), wait, options...)
	if err != nil {
		logger.Error("Unable to create debounced output", zap.Error(err))
		return 1
	}

	logger.Info(
		"debouncing standard input",
		zap.String("name", config.Name),
		zap.Duration("wait", wait),
		zap.Duration("maxWait", config.MaxWait),
		zap.Bool("leading", config.Leading),
		zap.Int("maxCalls", config.MaxCalls),
	)

	var (
		callCtx     = sallust.With(context.Background(), logger)
		lines, errs = scan(in)
		exitCode    = 0
	)

	for running := true; running; {
		select {
		case <-ctx.Done():
			logger.Info("interrupted")
			running = false

		case line, ok := <-lines:
			if !ok {
				running = false
				break
			}

			if _, err := d.CallContext(callCtx, line); err != nil {
				logger.Error("Unable to write line", zap.Error(err))
				exitCode = 1
			}
		}
	}

	select {
	case err := <-errs:
		logger.Error("Unable to read standard input", zap.Error(err))
		exitCode = 1
	default:
	}

	if _, err := d.Flush(); err != nil {
		logger.Error("Unable to write line", zap.Error(err))
		exitCode = 1
	}

	summarize(logger, d.Stats(), registry)
	return exitCode
}

// summarize logs the final bookkeeping along with every gathered metric value
func summarize(logger *zap.Logger, stats debounce.Stats, registry xmetrics.Registry) {
	fields := []zap.Field{zap.Int("invocations", stats.Invocations)}

	families, err := registry.Gather()
	if err != nil {
		logger.Error("Unable to gather metrics", zap.Error(err))
	}

	for _, family := range families {
		for _, m := range family.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64(family.GetName(), m.GetCounter().GetValue()))
			case m.GetGauge() != nil:
				fields = append(fields, zap.Float64(family.GetName(), m.GetGauge().GetValue()))
			}
		}
	}

	logger.Info("done", fields...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
