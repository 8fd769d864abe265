// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/RhysFonville/roc/ast"
	"github.com/RhysFonville/roc/emit"
	"github.com/RhysFonville/roc/ir"
	"github.com/RhysFonville/roc/sema"
)

var (
	targetArch string
	outDir     string
	quiet      bool
)

func main() {
	root := &cobra.Command{
		Use:   "roc <source.roc>",
		Short: "roc compiles a roc source file to x86-64 or AArch64 assembly",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	root.Flags().StringVar(&targetArch, "arch", "amd64", "target architecture: amd64 or arm64")
	root.Flags().StringVar(&outDir, "out-dir", "", "directory to write rocout.* files into (default: source file's directory)")
	root.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress stage-completion messages")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func stage(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func reportDiagnostics(stage string, diags []ast.Diagnostic) {
	red := color.New(color.FgRed, color.Bold)
	for _, d := range diags {
		red.Fprintf(os.Stderr, "%s: %s\n", stage, d.String())
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}

	dir := outDir
	if dir == "" {
		dir = filepath.Dir(sourcePath)
	}

	lexer := ast.NewLexer(string(source))
	tokens := lexer.Run()
	if len(lexer.Errors) > 0 {
		reportDiagnostics("lex", lexer.Errors)
		return fmt.Errorf("lexing failed")
	}
	stage("Lexing complete.")
	writeFile(filepath.Join(dir, "rocout.lex"), dumpTokens(tokens))

	parser := ast.NewParser(tokens)
	stmts := parser.Run()
	if len(parser.Errors) > 0 || stmts == nil {
		reportDiagnostics("parse", parser.Errors)
		return fmt.Errorf("parsing failed")
	}
	stage("Parsing complete.")

	analyzer := sema.NewAnalyzer(stmts)
	if !analyzer.Run() {
		reportDiagnostics("type", analyzer.Errors)
		return fmt.Errorf("type analysis failed")
	}
	stage("Type analysis complete.")

	checker := sema.NewChecker(stmts)
	if !checker.Run() {
		reportDiagnostics("check", checker.Errors)
		return fmt.Errorf("environment analysis failed")
	}
	stage("Environment analysis complete.")

	gen := ir.NewGenerator()
	commands := gen.Run(stmts)
	stage("IR generation complete.")
	writeFile(filepath.Join(dir, "rocout.ir"), dumpCommands(commands))

	var backend emit.Backend
	switch strings.ToLower(targetArch) {
	case "amd64", "x86-64", "x86_64":
		backend = emit.X86{}
	case "arm64", "aarch64":
		backend = emit.ARM64{}
	default:
		return fmt.Errorf("unknown --arch %q (want amd64 or arm64)", targetArch)
	}

	asmText := emit.Run(backend, commands)
	stage("Code generation complete.")
	writeFile(filepath.Join(dir, "rocout.s"), asmText)

	return nil
}

func writeFile(path, contents string) {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write %s: %v\n", path, err)
	}
}

func dumpTokens(tokens []ast.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		fmt.Fprintln(&sb, t.String())
	}
	return sb.String()
}

func dumpCommands(commands []ir.Command) string {
	var sb strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&sb, "%d %s %s %s\n", c.Type, c.Args[0].String(), c.Args[1].String(), c.Args[2].String())
	}
	return sb.String()
}
