package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	vegeta "github.com/tsenart/vegeta/lib"
)

type benchmarkConfig struct {
	Host     string
	UserID   int64
	ClassID  int64
	PeerID   int64
	RPS      int
	Duration time.Duration
	Pattern  string
	BodySize int
}

var (
	benchHost    string
	benchUser    int64
	benchClass   int64
	benchPeer    int64
	benchRPS     int
	benchDur     time.Duration
	benchPattern string
	benchBody    int
)

// benchmarkCmd represents the benchmark command
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run performance benchmarks against the messaging API",
	Long: `Run performance benchmarks to measure messaging API throughput and
latency. Patterns cover class-feed reads, conversation reads and message
sends.`,
	RunE: runBenchmark,
}

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().StringVar(&benchHost, "host", "http://localhost:3000/api", "API base URL")
	benchmarkCmd.Flags().Int64Var(&benchUser, "user-id", 1, "sender user id")
	benchmarkCmd.Flags().Int64Var(&benchClass, "classe", 1, "class id for feed patterns")
	benchmarkCmd.Flags().Int64Var(&benchPeer, "avec", 2, "peer user id for conversation patterns")
	benchmarkCmd.Flags().IntVar(&benchRPS, "rps", 50, "requests per second")
	benchmarkCmd.Flags().DurationVar(&benchDur, "duration", 30*time.Second, "benchmark duration")
	benchmarkCmd.Flags().StringVar(&benchPattern, "pattern", "read_class_feed", "pattern (read_class_feed, read_conversation, read_mixed, send_messages)")
	benchmarkCmd.Flags().IntVar(&benchBody, "payload-size", 64, "message body size in bytes for send_messages")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := benchmarkConfig{
		Host:     strings.TrimRight(benchHost, "/"),
		UserID:   benchUser,
		ClassID:  benchClass,
		PeerID:   benchPeer,
		RPS:      benchRPS,
		Duration: benchDur,
		Pattern:  benchPattern,
		BodySize: benchBody,
	}
	if host := os.Getenv("CLASSECHAT_API_BASE"); host != "" && !cmd.Flags().Changed("host") {
		cfg.Host = strings.TrimRight(host, "/")
	}

	if verbose {
		fmt.Printf("Starting benchmark with config:\n")
		fmt.Printf("  Host: %s\n", cfg.Host)
		fmt.Printf("  Pattern: %s\n", cfg.Pattern)
		fmt.Printf("  RPS: %d\n", cfg.RPS)
		fmt.Printf("  Duration: %v\n", cfg.Duration)
		fmt.Printf("  Workers: %d (CPU cores)\n", runtime.NumCPU())
		fmt.Println()
	}

	targets, err := benchmarkTargets(cfg)
	if err != nil {
		return err
	}

	targeter := vegeta.NewStaticTargeter(targets...)
	attackRate := vegeta.Rate{Freq: cfg.RPS, Per: time.Second}
	attacker := vegeta.NewAttacker(vegeta.Workers(uint64(runtime.NumCPU())))

	var metrics vegeta.Metrics
	for res := range attacker.Attack(targeter, attackRate, cfg.Duration, cfg.Pattern) {
		metrics.Add(res)
	}
	metrics.Close()

	printBenchmarkMetrics(&metrics)
	return nil
}

func benchmarkTargets(cfg benchmarkConfig) ([]vegeta.Target, error) {
	classURL := fmt.Sprintf("%s/messages/classe/%d", cfg.Host, cfg.ClassID)
	convURL := fmt.Sprintf("%s/messages/conversation/%d/%d", cfg.Host, cfg.UserID, cfg.PeerID)

	switch cfg.Pattern {
	case "read_class_feed":
		return []vegeta.Target{{Method: http.MethodGet, URL: classURL}}, nil
	case "read_conversation":
		return []vegeta.Target{{Method: http.MethodGet, URL: convURL}}, nil
	case "read_mixed":
		return []vegeta.Target{
			{Method: http.MethodGet, URL: classURL},
			{Method: http.MethodGet, URL: convURL},
		}, nil
	case "send_messages":
		total := cfg.RPS * int(cfg.Duration/time.Second)
		if total < 1 {
			total = 1
		}
		targets := make([]vegeta.Target, 0, total)
		hdr := http.Header{"Content-Type": []string{"application/json"}}
		filler := strings.Repeat("a", cfg.BodySize)
		for i := 0; i < total; i++ {
			body, err := json.Marshal(map[string]interface{}{
				"expediteur_id": cfg.UserID,
				"contenu":       fmt.Sprintf("bench %d %s", i, filler),
				"type_message":  "public",
				"classe_id":     cfg.ClassID,
			})
			if err != nil {
				return nil, err
			}
			targets = append(targets, vegeta.Target{
				Method: http.MethodPost,
				URL:    cfg.Host + "/messages",
				Header: hdr,
				Body:   body,
			})
		}
		return targets, nil
	}
	return nil, fmt.Errorf("unknown benchmark pattern: %s", cfg.Pattern)
}

func printBenchmarkMetrics(m *vegeta.Metrics) {
	fmt.Println("\n=== Benchmark Results ===")
	fmt.Printf("Requests:      %d\n", m.Requests)
	fmt.Printf("Rate:          %.2f/s\n", m.Rate)
	fmt.Printf("Throughput:    %.2f/s\n", m.Throughput)
	fmt.Printf("Success ratio: %.2f%%\n", m.Success*100)
	fmt.Printf("Latency mean:  %v\n", m.Latencies.Mean)
	fmt.Printf("Latency p50:   %v\n", m.Latencies.P50)
	fmt.Printf("Latency p95:   %v\n", m.Latencies.P95)
	fmt.Printf("Latency p99:   %v\n", m.Latencies.P99)
	fmt.Printf("Latency max:   %v\n", m.Latencies.Max)

	if len(m.StatusCodes) > 0 {
		codes := make([]string, 0, len(m.StatusCodes))
		for code := range m.StatusCodes {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		fmt.Println("Status codes:")
		for _, code := range codes {
			fmt.Printf("  %s: %d\n", code, m.StatusCodes[code])
		}
	}
	if len(m.Errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range m.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
}
