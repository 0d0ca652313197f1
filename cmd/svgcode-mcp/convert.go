package main

import (
	"fmt"
	"html"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ironsheep/svgcode-mcp/internal/acquire"
	"github.com/ironsheep/svgcode-mcp/internal/convert"
	"github.com/ironsheep/svgcode-mcp/internal/display"
	"github.com/ironsheep/svgcode-mcp/internal/i18n"
	"github.com/ironsheep/svgcode-mcp/internal/notify"
)

type convertOptions struct {
	output    string
	mode      string
	transform string
	quiet     bool
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Trace a raster image into SVG",
		Long: `Trace a raster image into SVG.

The SVG is written to --output, or to <image>.svg when --output is empty.
Use "-o -" to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "color", "conversion mode: color or monochrome")
	cmd.Flags().StringVar(&opts.transform, "transform", "", "SVG transform to wrap the result in")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress and summary")

	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, input string) error {
	mode, err := display.ParseMode(opts.mode)
	if err != nil {
		return err
	}

	cfg, logger, err := root.load(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	var bar *progressbar.ProgressBar
	var progress func(int)
	if !opts.quiet && mode == display.ModeColor {
		bar = newProgressBar(stderr, i18n.New(cfg.I18n.Locale).T(i18n.KeyProcessing))
		progress = func(percent int) { _ = bar.Set(percent) }
	}

	surface := display.NewMemory()
	surface.SetTransform(opts.transform)
	sess := convert.NewSession(surface)
	sess.SetInput(acquire.Input{Path: input})

	orch := convert.New(cfg, convert.Options{
		Notifier: notify.Log{Logger: logger},
		Progress: progress,
		Logger:   logger,
	})

	res, err := orch.Run(ctx, sess, mode)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}
	if res == nil {
		return fmt.Errorf("convert %s: no markup produced", input)
	}

	dest := opts.output
	if dest == "" {
		dest = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}
	if err := writeSVG(cmd.OutOrStdout(), dest, wrapTransform(res.SVG, res.Transform)); err != nil {
		return err
	}

	if !opts.quiet {
		if dest == "-" {
			dest = "stdout"
		}
		rows := [][2]string{
			{"Input", input},
			{"Output", dest},
			{"Mode", string(res.Mode)},
			{"Size", res.Size},
		}
		if res.Transform != "" {
			rows = append(rows, [2]string{"Transform", res.Transform})
		}
		fmt.Fprintln(stderr, renderSummary(rows))
	}
	return nil
}

// wrapTransform applies transform by grouping the document's children.
func wrapTransform(svg, transform string) string {
	if transform == "" {
		return svg
	}
	open := strings.Index(svg, ">")
	end := strings.LastIndex(svg, "</svg>")
	if open < 0 || end < open {
		return svg
	}
	return svg[:open+1] + fmt.Sprintf(`<g transform="%s">`, html.EscapeString(transform)) + svg[open+1:end] + "</g>" + svg[end:]
}

func writeSVG(stdout io.Writer, dest, svg string) error {
	if dest == "-" {
		_, err := io.WriteString(stdout, svg+"\n")
		return err
	}
	if err := os.WriteFile(dest, []byte(svg+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

func newProgressBar(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
