// Package main provides a performance benchmarking tool for the fleetrisk CLI.
// It generates synthetic fleets of increasing size, runs each command several times,
// treating the first successful run as cold and averaging the rest as warm,
// and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - fleetrisk binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic fleet files are written
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	FleetSize int
	Command   string
	ColdTime  string
	WarmTime  string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir    string
	Timeout    time.Duration
	Runs       int
	FleetSizes []int
	Commands   [][]string
}

// fleetHeader uses the Korean column names of the telematics export.
var fleetHeader = []string{"차량번호", "운전자명", "운행거리(km)", "과속횟수", "급가속횟수", "급감속횟수", "급정지횟수", "급출발횟수", "법규위반횟수"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:    os.Args[1],
		Timeout:    2 * time.Minute,
		Runs:       4,
		FleetSizes: []int{1_000, 10_000, 100_000},
		Commands: [][]string{
			{"risks", "--output", "csv"},
			{"impact", "--output", "json"},
			{"report", "--output", "json"},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the fleetrisk binary and the work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("fleetrisk"); err != nil {
		return fmt.Errorf("fleetrisk binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// runBenchmarks executes every command against every generated fleet
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fleet sizes, %v timeout, %d runs\n",
		len(config.FleetSizes), config.Timeout, config.Runs)

	for _, size := range config.FleetSizes {
		path := filepath.Join(config.WorkDir, fmt.Sprintf("fleet_%d.csv", size))
		if err := generateFleet(path, size); err != nil {
			return nil, fmt.Errorf("failed to generate fleet of %d: %w", size, err)
		}
		fmt.Printf("Benchmarking %d vehicles (%s)\n", size, path)

		for _, args := range config.Commands {
			results = append(results, runBenchmarkSuite(config, size, path, args))
		}
	}

	return results, nil
}

// generateFleet writes a CSV export with n vehicles and random behavior counts
func generateFleet(path string, n int) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	rng := rand.New(rand.NewPCG(uint64(n), 42))
	writer := csv.NewWriter(file)
	if err := writer.Write(fleetHeader); err != nil {
		return err
	}
	for i := range n {
		row := []string{
			fmt.Sprintf("BM-%06d", i),
			"driver" + strconv.Itoa(i),
			strconv.Itoa(rng.IntN(5000)),
		}
		for range len(fleetHeader) - len(row) {
			row = append(row, strconv.Itoa(rng.IntN(500)))
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// runBenchmarkSuite runs one command several times and summarizes the timings
func runBenchmarkSuite(config BenchmarkConfig, size int, path string, args []string) BenchmarkResult {
	command := args[0]
	fmt.Printf("  Running %s (%d runs)\n", command, config.Runs)

	times := runBenchmark(config, path, args)

	coldTime, warmAvg := "TIMEOUT", "TIMEOUT"
	if len(times) > 0 {
		coldTime = fmt.Sprintf("%.3fs", times[0])
	}
	if len(times) > 1 {
		var sum float64
		for _, t := range times[1:] {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTime, warmAvg)

	return BenchmarkResult{
		FleetSize: size,
		Command:   command,
		ColdTime:  coldTime,
		WarmTime:  warmAvg,
	}
}

// runBenchmark executes a fleetrisk command multiple times and returns the successful run times
func runBenchmark(config BenchmarkConfig, path string, args []string) []float64 {
	fullArgs := append([]string{args[0], path}, args[1:]...)

	var times []float64
	for range config.Runs {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "fleetrisk", fullArgs...)
		output, err := cmd.Output()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && len(output) > 0 {
			times = append(times, elapsed)
		}
	}
	return times
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("fleetrisk_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"fleet_size", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{strconv.Itoa(result.FleetSize), result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, args := range config.Commands {
		fmt.Printf("%s:\n", args[0])
		for _, result := range results {
			if result.Command == args[0] {
				fmt.Printf("  %8d vehicles: Cold: %s, Warm: %s\n", result.FleetSize, result.ColdTime, result.WarmTime)
			}
		}
	}
}
