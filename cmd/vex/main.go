package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vexlang/vex/pkg/vex"
)

// Config holds the CLI flags.
type Config struct {
	Debug      bool
	DumpTokens bool
	DumpAST    bool
	DumpRaw    bool
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "vex [flags] FILE...",
		Short: "Vex language type checker",
		Long: `Vex is a statically typed concatenative language.
The checker simulates each program's stack effects, inferring definition
signatures and resolving overloads, and reports type errors with source
context.`,
		Example: `  # Check a file
  vex check script.vx

  # Show the token stream or parsed program
  vex check --dump-tokens script.vx
  vex check --dump-ast script.vx`,
		SilenceUsage: true,
	}

	checkCmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Type-check vex source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cfg, args)
		},
	}
	checkCmd.Flags().BoolVar(&cfg.DumpTokens, "dump-tokens", false, "Print the token stream instead of checking")
	checkCmd.Flags().BoolVar(&cfg.DumpAST, "dump-ast", false, "Print the parsed program instead of checking")
	checkCmd.Flags().BoolVar(&cfg.DumpRaw, "dump-raw", false, "Print the raw AST structs instead of checking")

	rootCmd.AddCommand(checkCmd)
	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")

	cobra.OnInitialize(func() {
		level := slog.LevelInfo
		if cfg.Debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	})

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func runCheck(ctx context.Context, cfg Config, args []string) error {
	files := args
	if len(args) == 1 {
		// A manifest next to the file may expand the source list.
		dir := filepath.Dir(args[0])
		project, err := vex.LoadProjectConfig(dir)
		if err != nil {
			return err
		}
		if len(project.Sources) > 0 {
			files = project.SourcePaths(dir)
		}
	}

	eg, _ := errgroup.WithContext(ctx)
	for _, file := range files {
		eg.Go(func() error {
			return checkFile(cfg, file)
		})
	}
	return eg.Wait()
}

func checkFile(cfg Config, file string) error {
	contents, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	source := string(contents)

	if cfg.DumpTokens {
		tokens, err := vex.NewLexer(file, source).Tokenize()
		if err != nil {
			return err
		}
		fmt.Print(vex.FormatTokens(tokens))
		return nil
	}

	prog, err := vex.Parse(file, source)
	if err != nil {
		return err
	}

	if cfg.DumpAST {
		fmt.Print(vex.FormatProgram(prog))
		return nil
	}
	if cfg.DumpRaw {
		pretty.Println(prog)
		return nil
	}

	dir := filepath.Dir(file)
	project, err := vex.LoadProjectConfig(dir)
	if err != nil {
		return err
	}

	slog.Debug("checking", "file", file)
	analyser := vex.NewAnalyser(vex.Builtins(), project.MaxBranches)
	result, err := analyser.Analyse(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("%s: type check failed", file)
	}

	fmt.Printf("%s: ok (%d surviving branches)\n", file, len(result.Branches))
	if cfg.Debug {
		fmt.Print(vex.FormatBranches(result.Branches))
	}
	return nil
}
