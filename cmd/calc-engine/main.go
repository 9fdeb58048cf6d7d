// Command calc-engine reads a count and that many amounts from standard
// input and prints the combined statistics report as JSON.
//
//	echo "5 10.5 20 15 30 25" | calc-engine
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/services"
)

// Input failures, reported as {"success":false,"error":...} on stdout
const (
	errReadCount     = "Failed to read number of values"
	errCountPositive = "Number of values must be positive"
	errReadValueFmt  = "Failed to read value at index %d"
)

const usage = `Expense Calculator v1.0.0
Usage: calc-engine [options]

Options:
  --help        Show this help message
  --version     Show version information

Input Format:
  First line: number of values (N)
  Next N lines: expense amounts (one per line)

Output: JSON object with statistics
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h":
			fmt.Fprint(stderr, usage)
			return 0
		case "--version", "-v":
			return writeJSON(stdout, models.CurrentVersion(), false)
		}
	}

	values, err := readValues(stdin)
	if err != nil {
		writeJSON(stdout, models.NewErrorResponse(err.Error()), false)
		return 1
	}

	logger := logging.NewWithWriter(stderr, zerolog.WarnLevel)
	svc := services.NewAnalysisService(logger, config.DefaultConfig().Analysis)
	return writeJSON(stdout, svc.Report(context.Background(), values), true)
}

// readValues reads N followed by N whitespace separated amounts
func readValues(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	if !scanner.Scan() {
		return nil, errors.New(errReadCount)
	}
	n, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return nil, errors.New(errReadCount)
	}
	if n <= 0 {
		return nil, errors.New(errCountPositive)
	}

	values := make([]float64, 0, min(n, 1<<16))
	for i := 0; i < n; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf(errReadValueFmt, i)
		}
		v, err := strconv.ParseFloat(scanner.Text(), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf(errReadValueFmt, i)
		}
		values = append(values, v)
	}
	return values, nil
}

func writeJSON(w io.Writer, v any, indent bool) int {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		fmt.Fprintf(w, "{\"success\":false,\"error\":%q}\n", err.Error())
		return 1
	}
	_, _ = w.Write(append(data, '\n'))
	return 0
}
