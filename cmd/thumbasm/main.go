// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/halfword/thumbasm/internal/assembler"
)

var helpvar bool
var symbolsvar string
var outvar string

const usage = "thumbasm [-symbols symfile] [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&symbolsvar, "symbols", "",
		"Writes the fragment's label table to the given file via encoding/gob",
	)
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func thumbasm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	var lines []string
	var isStdin bool

	if stat, _ := os.Stdin.Stat(); stat.Mode()&os.ModeCharDevice == 0 {
		isStdin = true
		log.SetPrefix("\033[1m<stdin>:\033[0m")

		if outvar == "" {
			outvar = "out.bin"
		}

		if err := readLines(os.Stdin, &lines); err != nil {
			log.Println(err)
			return 1
		}
	} else {
		if len(args) != 1 {
			log.Println(usage)
			return 1
		}

		file, err := os.Open(args[0])
		if err != nil {
			log.Println(err)
			return 1
		}
		defer file.Close()

		filename := filepath.Base(file.Name())

		if stat, err := file.Stat(); err != nil {
			log.Println(err)
			return 1
		} else if stat.IsDir() {
			log.Printf("%s is not a valid Thumb assembly file", filename)
			return 1
		}

		if err := readLines(file, &lines); err != nil {
			log.Println(err)
			return 1
		}

		log.SetPrefix(fmt.Sprintf("\033[1m%s:\033[0m", filename))

		if outvar == "" {
			outvar = strings.ReplaceAll(filename, filepath.Ext(filename), ".bin")
		}
	}

	result, err := assembler.Assemble(lines)
	if err != nil {
		reportError(err, lines, isStdin)
		return 1
	}

	{
		buffer := new(bytes.Buffer)

		if err := binary.Write(buffer, binary.BigEndian, result.Words); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}

		if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
			log.Println("Error writing output file")
			log.Println(err)
			return 1
		}
	}

	if symbolsvar != "" {
		file, err := os.OpenFile(symbolsvar, os.O_WRONLY|os.O_CREATE, 0666)
		if err != nil {
			log.Println("Error creating symbol table")
			log.Println(err)
			return 1
		}
		defer file.Close()

		if err := gob.NewEncoder(file).Encode(result.Labels); err != nil {
			log.Println("Error writing symbol table")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func readLines(r io.Reader, out *[]string) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		*out = append(*out, scanner.Text())
	}
	return scanner.Err()
}

// reportError prints an assembler failure, underlining the offending
// column of the offending source line when the error names one.
func reportError(err error, lines []string, isStdin bool) {
	tokenErr, ok := err.(assembler.TokenError)
	if !ok || isStdin {
		log.Println(err)
		return
	}

	pos := tokenErr.GetPosition()
	if pos.Line < 1 || pos.Line > len(lines) {
		log.Println(err)
		return
	}

	source := lines[pos.Line-1]

	// pos.Column counts bytes of the whitespace-stripped argument blob;
	// map it onto the source line by skipping the mnemonic and blanks.
	col, seen := 0, 0
	trimmed := strings.TrimSpace(source)
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 && pos.Column > 0 {
		for i := strings.Index(source, trimmed) + idx; i < len(source) && col == 0; i++ {
			if source[i] != ' ' && source[i] != '\t' {
				if seen++; seen == pos.Column {
					col = i + 1
				}
			}
		}
	}
	if col <= 0 {
		log.Printf("%s\n%s", err, source)
		return
	}

	underline := strings.Repeat(" ", col-1) + "^"
	log.Printf("%s\n%s\n\033[31m%s\033[0m", err, source, underline)
}

func main() {
	os.Exit(thumbasm())
}
