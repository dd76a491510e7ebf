package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"hegel/colors"
	"hegel/internal/diagnostics"
	"hegel/internal/frontend/ast"
	"hegel/internal/frontend/jsparser"
	"hegel/internal/semantics"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version", "-v", "--version":
		fmt.Printf("hegel %s\n", version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "hegel: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`hegel %s

Usage:
  hegel check [-types] <file.js|file.json> ...   Type-check modules
  hegel repl                                     Start the REPL
  hegel version                                  Print the version

A .json input is read as an ESTree / Babel AST document; anything else is
parsed as JavaScript source.
`, version)
}

type checkResult struct {
	file   string
	module *semantics.ModuleScope
	errs   []*diagnostics.HegelError
	fatal  error
}

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	showTypes := fs.Bool("types", false, "print inferred types of module bindings")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: hegel check [-types] <file> ...")
		return 2
	}

	// Every module builds independently; fan the files out and emit the
	// reports in input order.
	results := make([]checkResult, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = checkFile(ctx, file)
			return nil
		})
	}
	_ = g.Wait()

	exit := 0
	for _, res := range results {
		if res.fatal != nil {
			colors.RED.Fprint(os.Stderr, "error")
			fmt.Fprintf(os.Stderr, " %s: %v\n", res.file, res.fatal)
			exit = 1
			continue
		}
		if len(res.errs) > 0 {
			bag := diagnostics.NewBag()
			for _, e := range res.errs {
				bag.Add(e)
			}
			bag.Emit(os.Stderr, res.file)
			exit = 1
		}
		if *showTypes {
			printBindings(res.module)
		}
	}
	return exit
}

func checkFile(ctx context.Context, file string) checkResult {
	data, err := os.ReadFile(file)
	if err != nil {
		return checkResult{file: file, fatal: err}
	}

	var program *ast.Node
	if filepath.Ext(file) == ".json" {
		program, err = ast.Decode(data)
	} else {
		program, err = jsparser.Parse(ctx, data)
	}
	if err != nil {
		return checkResult{file: file, fatal: err}
	}

	module, errs := semantics.BuildModuleScope(program)
	return checkResult{file: file, module: module, errs: errs}
}

// printBindings lists the module's user bindings with their inferred
// types. Seeded globals, operators, and inner scopes are skipped.
func printBindings(module *semantics.ModuleScope) {
	for _, name := range module.Names() {
		entry, _ := module.Entry(name)
		vi, ok := entry.(*semantics.VariableInfo)
		if !ok || vi.Meta.IsZero() {
			continue
		}
		colors.CYAN.Printf("%s", name)
		fmt.Printf(": %s\n", vi.Type.Name())
	}
}
