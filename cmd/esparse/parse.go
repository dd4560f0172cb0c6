// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ianlewis/esparse/cst"
	"github.com/ianlewis/esparse/engine"
	"github.com/ianlewis/esparse/grammar"
	"github.com/ianlewis/esparse/lex"
)

var parseFlags = struct {
	dialect *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <file>",
		Short:   "Parse a .js file and print its concrete syntax tree",
		Example: `  esparse parse --dialect es2015 main.js`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.dialect = cmd.Flags().StringP("dialect", "d", "es2015", "grammar dialect: es5 or es2015")
	rootCmd.AddCommand(cmd)
}

// dialect is the subset of grammar.ES5Grammar/ES2015Grammar the CLI drives.
// Both satisfy it; Parse is the only entry point the CLI needs.
type dialect interface {
	Parse() (*cst.Node, error)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("esparse: cannot open %s: %w", path, err)
	}
	defer f.Close()

	// The host (this CLI) may cancel a pathological parse between top-level
	// items (§5); SIGINT is wired to the same context the lexer and engine
	// observe.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	toks, err := lex.New(f, path).Tokenize(ctx)
	if err != nil {
		return fmt.Errorf("esparse: lex error: %w", err)
	}

	e := engine.New(toks).WithContext(ctx)

	var g dialect

	switch *parseFlags.dialect {
	case "es5":
		g = grammar.NewES5(e)
	case "es2015":
		g = grammar.NewES2015(e)
	default:
		return fmt.Errorf("esparse: unknown dialect %q (want es5 or es2015)", *parseFlags.dialect)
	}

	root, err := g.Parse()
	if err != nil {
		log.Printf("esparse: %s did not parse cleanly", path)
		return fmt.Errorf("esparse: %w", err)
	}

	fmt.Fprint(os.Stdout, root.String())

	return nil
}
