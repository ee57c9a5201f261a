package main

import (
	"bufio"
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"ns_per_op"`
	BytesPerOp int64   `json:"bytes_per_op"`
	AllocsOp   int64   `json:"allocs_per_op"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Hilt":         {text.FgGreen},
	"HiltAutowire": {text.FgCyan},
	"Do":           {text.FgYellow},
	"Dig":          {text.FgMagenta},
	"Fx":           {text.FgBlue},
}

var categoryTitles = map[string]string{
	"Provide_Simple":   "Provider registration (simple)",
	"Provide_Chain":    "Provider registration (dependency chain)",
	"Invoke_Singleton": "Resolution (cached singleton)",
	"Invoke_Chain":     "Resolution (cached chain)",
	"Invoke_Cold":      "Resolution (fresh graph)",
	"Named_10":         "Named services (10 services)",
}

var categoryOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Invoke_Singleton", "Invoke_Chain", "Invoke_Cold",
	"Named_10",
}

var (
	benchPattern = regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern  = regexp.MustCompile(`^([^_]+)_([^_]+)_(\w+)$`)
)

func main() {
	benchDir := ".."
	exportJSONFlag := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			exportJSONFlag = true
			continue
		}
		benchDir = arg
	}

	fmt.Println(text.Bold.Sprint("hilt benchmark suite"))
	fmt.Println(text.Faint.Sprint("running benchmarks..."))
	fmt.Println()

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark failed: %s\n", exitErr.Stderr)
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}
	printSummary(grouped)

	if exportJSONFlag {
		if err := exportJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// parseResults averages the repeated -count runs of every benchmark.
func parseResults(output []byte) []BenchmarkResult {
	seen := make(map[string][]BenchmarkResult)
	var order []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		r, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := seen[r.Name]; !exists {
			order = append(order, r.Name)
		}
		seen[r.Name] = append(seen[r.Name], r)
	}

	results := make([]BenchmarkResult, 0, len(order))
	for _, name := range order {
		runs := seen[name]
		var totalNs float64
		var totalBytes, totalAllocs int64
		for _, r := range runs {
			totalNs += r.NsPerOp
			totalBytes += r.BytesPerOp
			totalAllocs += r.AllocsOp
		}
		count := float64(len(runs))

		avg := runs[0]
		avg.NsPerOp = totalNs / count
		avg.BytesPerOp = int64(float64(totalBytes) / count)
		avg.AllocsOp = int64(float64(totalAllocs) / count)
		results = append(results, avg)
	}
	return results
}

func parseLine(line string) (BenchmarkResult, bool) {
	m := benchPattern.FindStringSubmatch(line)
	if m == nil {
		return BenchmarkResult{}, false
	}

	r := BenchmarkResult{Name: m[1]}
	r.Iterations, _ = strconv.ParseInt(m[2], 10, 64)
	r.NsPerOp, _ = strconv.ParseFloat(m[3], 64)
	r.BytesPerOp, _ = strconv.ParseInt(m[4], 10, 64)
	r.AllocsOp, _ = strconv.ParseInt(m[5], 10, 64)

	if parts := namePattern.FindStringSubmatch(r.Name); parts != nil {
		r.Category, r.Scenario, r.Framework = parts[1], parts[2], parts[3]
	} else if parts := strings.Split(r.Name, "_"); len(parts) >= 2 {
		r.Category = parts[0]
		r.Framework = parts[len(parts)-1]
		r.Scenario = strings.Join(parts[1:len(parts)-1], "_")
	}
	return r, true
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	var extra []string
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		if _, ok := groups[key]; !ok && !slices.Contains(categoryOrder, key) {
			extra = append(extra, key)
		}
		groups[key] = append(groups[key], r)
	}

	var ordered []CategoryResults
	for _, key := range append(slices.Clone(categoryOrder), extra...) {
		rs, ok := groups[key]
		if !ok {
			continue
		}
		slices.SortFunc(rs, func(a, b BenchmarkResult) int {
			return cmp.Compare(a.NsPerOp, b.NsPerOp)
		})
		ordered = append(ordered, CategoryResults{Category: key, Results: rs})
	}
	return ordered
}

func printCategory(cat CategoryResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(categoryTitle(cat.Category))
	t.AppendHeader(table.Row{"Framework", "Time/op", "B/op", "Allocs/op", "Relative"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	if len(cat.Results) == 0 {
		t.AppendRow(table.Row{"no results"})
		t.Render()
		fmt.Println()
		return
	}

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}
		t.AppendRow(table.Row{
			colorize(r.Framework),
			formatNs(r.NsPerOp),
			r.BytesPerOp,
			r.AllocsOp,
			relative,
		})
	}
	t.Render()
	fmt.Println()
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		if len(cat.Results) > 0 {
			wins[cat.Results[0].Framework]++
		}
	}

	names := make([]string, 0, len(wins))
	for name := range wins {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(wins[b], wins[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"#", "Framework", "Wins"})
	for i, name := range names {
		t.AppendRow(table.Row{i + 1, colorize(name), fmt.Sprintf("%d/%d", wins[name], len(groups))})
	}
	t.Render()

	fmt.Println()
	fmt.Println(text.Faint.Sprint("frameworks compared:"))
	fmt.Println("  hilt       github.com/danpasecinic/hilt")
	fmt.Println("  samber/do  github.com/samber/do")
	fmt.Println("  uber/dig   go.uber.org/dig")
	fmt.Println("  uber/fx    go.uber.org/fx")
	fmt.Println()
}

func categoryTitle(cat string) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return strings.ReplaceAll(cat, "_", " ")
}

func colorize(framework string) string {
	if c, ok := frameworkColors[framework]; ok {
		return c.Sprint(framework)
	}
	return framework
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	default:
		return fmt.Sprintf("%.0f ns", ns)
	}
}

func exportJSON(results []BenchmarkResult) error {
	data, err := json.MarshalIndent(struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{Benchmarks: results}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile("benchmark_results.json", data, 0o644); err != nil {
		return err
	}
	fmt.Println(text.Faint.Sprint("results exported to benchmark_results.json"))
	return nil
}
