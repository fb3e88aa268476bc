// Command search sends a question to the API's /query endpoint and prints
// the answer with its supporting matches.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/CodeWithNed/company-vector-db/engine/answer"
)

func main() {
	var (
		apiURL  = flag.String("api", envOr("API_URL", "http://localhost:8000"), "API base URL")
		timeout = flag.Duration("timeout", 30*time.Second, "request timeout")
	)
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: search [-api URL] <question>")
		os.Exit(2)
	}

	if err := run(*apiURL, query, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "search:", err)
		os.Exit(1)
	}
}

func run(apiURL, query string, timeout time.Duration) error {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(apiURL+"/query", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%s)", apiErr.Error, resp.Status)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var result answer.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Println(result.Answer)
	if len(result.RelevantEmployees) > 0 {
		fmt.Println()
		for _, m := range result.RelevantEmployees {
			fmt.Printf("  %.3f  %s (%s)", m.SimilarityScore, m.Name, m.EmploymentType)
			if m.ManagerName != "" {
				fmt.Printf("  manager: %s", m.ManagerName)
			}
			fmt.Println()
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
