// Package main is the entry point for the arxiv2epub CLI. The root command
// runs the whole pipeline: download the arXiv source archive, extract it,
// pick the primary .tex file, and convert it to an EPUB through latexml,
// latexmlpost, and ebook-convert.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ztjona/arxiv2epub/internal/pipeline"
	"github.com/ztjona/arxiv2epub/internal/texsource"
	"github.com/ztjona/arxiv2epub/internal/tools"
	"github.com/ztjona/arxiv2epub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "arxiv2epub <arxiv-url-or-id>",
	Short: "Convert an arXiv paper to an EPUB",
	Long: `arxiv2epub downloads the LaTeX source of an arXiv paper, extracts it,
and converts it to an EPUB for e-readers. The conversion shells out to
latexml, latexmlpost, and ebook-convert (Calibre), which must be on PATH.

When the source tree has no main.tex (or the file named with --latex-file),
the available .tex files are listed for interactive selection.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
	// The pipeline prints its own stage errors through the logger.
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./arxiv2epub.yaml or ~/.config/arxiv2epub/config.yaml)")

	rootCmd.Flags().String("latex-file", "", "primary .tex file name to look for (default main.tex)")
	rootCmd.Flags().StringP("output", "o", "", "output EPUB path (default <output-dir>/<title>.epub)")
	rootCmd.Flags().Bool("clear", false, "delete intermediate files after conversion, keeping only the EPUB")
	rootCmd.Flags().String("work-dir", "", "base directory for working files (default work)")
	rootCmd.Flags().String("output-dir", "", "directory for the EPUB when --output is not given (default out)")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	rootCmd.Flags().String("language", "", "EPUB language (default en)")
	rootCmd.Flags().Bool("no-metadata", false, "skip the arXiv metadata API lookup")
	rootCmd.Flags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("arxiv2epub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "arxiv2epub"))
		}
	}

	viper.SetDefault("work_dir", "work")
	viper.SetDefault("output_dir", "out")
	viper.SetDefault("main_tex_file", "main.tex")
	viper.SetDefault("timeout", 60*time.Second)
	viper.SetDefault("user_agent", "arxiv2epub/"+version)
	viper.SetDefault("language", "en")
	viper.SetDefault("fetch_metadata", true)

	viper.SetEnvPrefix("ARXIV2EPUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the console logger all stages report through.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "01-02 15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// buildConfig merges viper values with flag overrides into the pipeline
// configuration. Flags win when set.
func buildConfig(cmd *cobra.Command) types.PipelineConfig {
	stringOpt := func(flag, key string) string {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetString(flag)
			return v
		}
		return viper.GetString(key)
	}

	timeout := viper.GetDuration("timeout")
	if cmd.Flags().Changed("timeout") {
		timeout, _ = cmd.Flags().GetDuration("timeout")
	}

	noMetadata, _ := cmd.Flags().GetBool("no-metadata")
	clearTemp, _ := cmd.Flags().GetBool("clear")

	return types.PipelineConfig{
		Fetch: types.FetchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: viper.GetString("user_agent"),
			},
			WorkDir:       stringOpt("work-dir", "work_dir"),
			FetchMetadata: viper.GetBool("fetch_metadata") && !noMetadata,
		},
		Convert: types.ConvertConfig{
			Language:        stringOpt("language", "language"),
			LatexmlBin:      viper.GetString("latexml_bin"),
			LatexmlpostBin:  viper.GetString("latexmlpost_bin"),
			EbookConvertBin: viper.GetString("ebook_convert_bin"),
			TarBin:          viper.GetString("tar_bin"),
		},
		OutputDir:   stringOpt("output-dir", "output_dir"),
		MainTexFile: stringOpt("latex-file", "main_tex_file"),
		Clear:       clearTemp,
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	log := newLogger(verbose)

	cfg := buildConfig(cmd)
	output, _ := cmd.Flags().GetString("output")

	paper, err := pipeline.Run(pipeline.Options{
		Reference:  args[0],
		OutputPath: output,
		Config:     cfg,
		Client:     &http.Client{Timeout: cfg.Fetch.Timeout},
		Runner:     &tools.OSRunner{},
		Chooser:    &texsource.ConsoleChooser{In: os.Stdin, Out: os.Stderr},
		Log:        log,
	})
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), paper.EPUBPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
