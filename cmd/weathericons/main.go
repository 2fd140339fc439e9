package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/weathericons"
	"github.com/bodgit/weathericons/bitmap"
	"github.com/bodgit/weathericons/buildinfo"
	"github.com/bodgit/weathericons/bundle"
	"github.com/bodgit/weathericons/observability"
	"github.com/urfave/cli/v2"
)

const defaultOutput = "WeatherIconsData.h"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func generate(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	polarity, err := bitmap.ParsePolarity(c.String("polarity"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	opts := weathericons.DefaultOptions()
	opts.Encoder = bitmap.Config{
		Size:      c.Int("size"),
		Threshold: c.Int("threshold"),
		Polarity:  polarity,
	}
	opts.AutoThreshold = c.Bool("auto-threshold")
	opts.Workers = c.Int("workers")

	if file := c.String("cache"); file != "" {
		cache, err := weathericons.NewCache(file)
		if err != nil {
			return cli.Exit(err, 1)
		}
		defer cache.Close()
		opts.Cache = cache
	}

	if c.String("metrics-file") != "" {
		opts.Metrics = observability.NewMetrics()
	}

	g, err := weathericons.New(opts, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}

	r, err := g.Generate(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	// The generator already logged these if verbose
	if !c.Bool("verbose") {
		for _, w := range r.Warnings {
			log.Printf("Warning: %v\n", w)
		}
	}

	if err := r.WriteHeaderFile(c.String("output")); err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "Generated %s\n", c.String("output"))

	if file := c.String("bundle"); file != "" {
		if err := r.WriteBundleFile(file); err != nil {
			return cli.Exit(err, 1)
		}
		fmt.Fprintf(c.App.Writer, "Generated %s\n", file)
	}

	if file := c.String("metrics-file"); file != "" {
		if err := opts.Metrics.WriteToTextfile(file); err != nil {
			return cli.Exit(err, 1)
		}
	}

	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return cli.Exit(err, 1)
	}

	b := bundle.New(0)
	if err := b.UnmarshalBinary(data); err != nil {
		return cli.Exit(err, 1)
	}

	files, err := weathericons.WritePreviews(c.String("output"), b)
	if err != nil {
		return cli.Exit(err, 1)
	}
	for _, file := range files {
		logger.Printf("Wrote \"%s\"\n", file)
	}

	return nil
}

func info(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	artifact := c.Args().First()

	i, err := buildinfo.New(c.String("platform"), c.String("firmware-version"), artifact)
	if err != nil {
		return cli.Exit(err, 1)
	}

	b, err := i.MarshalIndent()
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "Created json: \n%s\n", b)

	file, err := i.Write(filepath.Dir(artifact))
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Fprintf(c.App.Writer, "Json path: %s\n", file)

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "weathericons"
	app.Usage = "Weather icon bitmap generator for e-paper firmware"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "generate",
			Usage:       "Convert icon images into a C header",
			Description: "Every registered icon found in DIRECTORY is encoded as a packed 1-bit bitmap. Missing icons are skipped with a warning.",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					EnvVars: []string{"WEATHERICONS_OUTPUT"},
					Value:   defaultOutput,
					Usage:   "path to generated header",
				},
				&cli.IntFlag{
					Name:  "size",
					Value: bitmap.DefaultSize,
					Usage: "icon edge length in pixels, a multiple of 8",
				},
				&cli.IntFlag{
					Name:  "threshold",
					Value: bitmap.DefaultThreshold,
					Usage: "intensity a pixel must exceed to be foreground",
				},
				&cli.BoolFlag{
					Name:  "auto-threshold",
					Usage: "estimate the threshold for each icon",
				},
				&cli.StringFlag{
					Name:  "polarity",
					Value: bitmap.BrightForeground.String(),
					Usage: "which pixels are foreground, bright or dark",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 1,
					Usage: "number of icons to encode concurrently",
				},
				&cli.StringFlag{
					Name:    "cache",
					EnvVars: []string{"WEATHERICONS_CACHE"},
					Usage:   "path to bitmap cache database",
				},
				&cli.StringFlag{
					Name:  "bundle",
					Usage: "also write the bitmaps as a binary bundle to this path",
				},
				&cli.StringFlag{
					Name:  "metrics-file",
					Usage: "write run metrics in Prometheus text format to this path",
				},
			},
			Action: generate,
		},
		{
			Name:      "preview",
			Usage:     "Render a binary bundle as PNG images",
			ArgsUsage: "BUNDLE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "preview",
					Usage:   "directory to write images to",
				},
			},
			Action: preview,
		},
		{
			Name:        "info",
			Usage:       "Write info.json next to a firmware image",
			Description: "Records the platform, firmware version and MD5 digest of ARTIFACT in info.json in the same directory.",
			ArgsUsage:   "ARTIFACT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "platform",
					EnvVars: []string{"PIOENV"},
					Usage:   "build environment name",
				},
				&cli.StringFlag{
					Name:    "firmware-version",
					EnvVars: []string{"VERSION_NUMBER"},
					Value:   buildinfo.DefaultVersion,
					Usage:   "firmware version number",
				},
			},
			Action: info,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
