// Package main times the deviceinfo CLI across local store backends.
// Each command runs several times against a fresh store directory; the first
// successful run is reported as cold and the rest are averaged as warm.
// Results are written to a timestamped CSV file.
//
// Prerequisites:
// - deviceinfo binary installed and available in PATH
//
// Usage: go run benchmark/main.go [runs]
//
//	runs: Number of runs per backend and command (default 5)
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Backend  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout  time.Duration
	Runs     int
	Backends []string
	Commands [][]string
}

func main() {
	runs := 5
	if len(os.Args) == 2 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n < 2 {
			fmt.Printf("Usage: %s [runs]\n  runs must be an integer >= 2\n", os.Args[0])
			os.Exit(1)
		}
		runs = n
	}

	config := BenchmarkConfig{
		Timeout:  30 * time.Second,
		Runs:     runs,
		Backends: []string{"sqlite", "bolt", "memory", "none"},
		Commands: [][]string{
			{"launch", "increment", "--app-version", "1.0.0"},
			{"launch", "status", "--app-version", "1.0.0", "--output", "json"},
			{"status", "--app-version", "1.0.0", "--output", "json"},
		},
	}

	if _, err := exec.LookPath("deviceinfo"); err != nil {
		fmt.Printf("Prerequisites check failed: deviceinfo binary not found in PATH\n")
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// runBenchmarks executes every command against every configured backend.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d backends, %d commands, %d runs, %v timeout\n",
		len(config.Backends), len(config.Commands), config.Runs, config.Timeout)

	for _, backend := range config.Backends {
		fmt.Printf("Benchmarking %s\n", backend)

		dir, err := os.MkdirTemp("", "deviceinfo-bench-"+backend)
		if err != nil {
			fmt.Printf("  Warning: failed to create store dir: %v\n", err)
			continue
		}

		for _, command := range config.Commands {
			results = append(results, runBenchmarkSuite(config, backend, dir, command))
		}

		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("  Warning: failed to remove %s: %v\n", dir, err)
		}
	}

	return results
}

// runBenchmarkSuite times one command on one backend.
func runBenchmarkSuite(config BenchmarkConfig, backend, dir string, command []string) BenchmarkResult {
	name := command[0] + " " + command[1]
	if command[0] == "status" {
		name = command[0]
	}
	fmt.Printf("  %s (%d runs)\n", name, config.Runs)

	coldTime, warmTimes := runBenchmark(config, backend, dir, command)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}
	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("    Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Backend:  backend,
		Command:  name,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a deviceinfo command multiple times and returns cold time and warm times.
func runBenchmark(config BenchmarkConfig, backend, dir string, command []string) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, command...)
	args = append(args, "--local-backend", backend, "--local-db-dir", dir)

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		err := exec.CommandContext(ctx, "deviceinfo", args...).Run()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s/deviceinfo_benchmark_%s.csv", os.TempDir(), timestamp)

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
	if err := writer.Write([]string{"backend", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Backend, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final results grouped by backend.
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, backend := range config.Backends {
		fmt.Printf("%s:\n", backend)
		for _, result := range results {
			if result.Backend == backend {
				fmt.Printf("  %-18s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
			}
		}
	}
}
