//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// cnfstat prints the statistics of a stored CNF artifact.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/smckit/smckit/cnf"
)

func main() {
	dimacs := flag.Bool("dimacs", false, "dump the clause set in DIMACS format instead of statistics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: cnfstat [-dimacs] <artifact>\n")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cnfstat: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	a, err := cnf.ReadArtifact(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cnfstat: reading artifact: %v\n", err)
		os.Exit(1)
	}

	if *dimacs {
		fmt.Printf("p cnf %d %d\n", a.MaxVar, len(a.Clauses))
		for _, clause := range a.Clauses {
			for _, lit := range clause {
				fmt.Printf("%d ", lit)
			}
			fmt.Println("0")
		}
		return
	}

	maxClause, sum := 0, 0
	for _, clause := range a.Clauses {
		sum += len(clause)
		if len(clause) > maxClause {
			maxClause = len(clause)
		}
	}
	avg := 0.0
	if len(a.Clauses) > 0 {
		avg = float64(sum) / float64(len(a.Clauses))
	}

	header := color.New(color.Bold)
	header.Printf("%s\n", flag.Arg(0))
	fmt.Printf("  clauses:             %d\n", len(a.Clauses))
	fmt.Printf("  variables:           %d\n", len(a.Vars))
	fmt.Printf("  max var index:       %d\n", a.MaxVar)
	fmt.Printf("  average clause size: %.2f\n", avg)
	fmt.Printf("  max clause size:     %d\n", maxClause)
	fmt.Printf("  formula literal:     %s\n", color.CyanString("%d", a.FormulaLiteral))
}
