package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

const defaultIdea = "一个针对养狗人士的优步，提供专业兽医上门遛狗服务"

type smokeClient struct {
	baseURL string
	idea    string
	poll    time.Duration
	limit   time.Duration
	client  *http.Client
}

type snapshot struct {
	RunID  string `json:"runId"`
	Status string `json:"status"`
	Error  string `json:"error"`
	Result *struct {
		TotalScore int    `json:"totalScore"`
		Grade      string `json:"grade"`
		Summary    string `json:"summary"`
	} `json:"result"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the validator")
	check := flag.String("test", "all", "Check to run: all, health, agent-card, evaluate, a2a")
	idea := flag.String("idea", defaultIdea, "Idea text to evaluate")
	limit := flag.Duration("timeout", 3*time.Minute, "How long to wait for an evaluation to settle")
	flag.Parse()

	sc := &smokeClient{
		baseURL: strings.TrimRight(*baseURL, "/"),
		idea:    *idea,
		poll:    time.Second,
		limit:   *limit,
		client:  &http.Client{Timeout: *limit},
	}

	printHeader("Idea Validator - Smoke Test")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, sc.baseURL, colorReset)

	checks := map[string]func() bool{
		"health":     sc.checkHealth,
		"agent-card": sc.checkAgentCard,
		"evaluate":   sc.checkEvaluate,
		"a2a":        sc.checkA2A,
	}

	if *check == "all" {
		sc.runAll()
		return
	}
	fn, ok := checks[*check]
	if !ok {
		printError(fmt.Sprintf("Unknown check: %s", *check))
		fmt.Println("\nAvailable checks: all, health, agent-card, evaluate, a2a")
		os.Exit(1)
	}
	if !fn() {
		os.Exit(1)
	}
}

func (sc *smokeClient) runAll() {
	// evaluate and a2a share the single session, so they run one after the other.
	checks := []struct {
		name string
		fn   func() bool
	}{
		{"Health", sc.checkHealth},
		{"Agent Card", sc.checkAgentCard},
		{"Evaluate", sc.checkEvaluate},
		{"A2A", sc.checkA2A},
	}

	passed, failed := 0, 0
	for _, c := range checks {
		if c.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)

	if failed > 0 {
		os.Exit(1)
	}
}

func (sc *smokeClient) checkHealth() bool {
	printCheckHeader("Health endpoint")

	status, body, err := sc.get("/health")
	if err != nil {
		printError(err.Error())
		return false
	}
	if status != http.StatusOK || string(body) != "OK" {
		printError(fmt.Sprintf("Expected 200 OK, got %d %q", status, string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (sc *smokeClient) checkAgentCard() bool {
	printCheckHeader("Agent card")

	status, body, err := sc.get("/.well-known/agent.json")
	if err != nil {
		printError(err.Error())
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}

	var card map[string]interface{}
	if err := json.Unmarshal(body, &card); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	for _, field := range []string{"name", "description", "url", "version", "capabilities", "skills"} {
		if _, ok := card[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

func (sc *smokeClient) checkEvaluate() bool {
	printCheckHeader("Evaluation via JSON API")
	fmt.Printf("%sIdea:%s %s\n\n", colorCyan, colorReset, sc.idea)

	payload, _ := json.Marshal(map[string]string{"idea": sc.idea})
	status, body, err := sc.post("/api/evaluations", payload)
	if err != nil {
		printError(err.Error())
		return false
	}
	if status != http.StatusAccepted {
		printError(fmt.Sprintf("Expected status 202, got %d: %s", status, string(body)))
		return false
	}

	var accepted snapshot
	if err := json.Unmarshal(body, &accepted); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	deadline := time.Now().Add(sc.limit)
	last := ""
	for time.Now().Before(deadline) {
		_, body, err := sc.get("/api/evaluations/current")
		if err != nil {
			printError(err.Error())
			return false
		}
		var snap snapshot
		if err := json.Unmarshal(body, &snap); err != nil {
			printError(fmt.Sprintf("Invalid JSON response: %v", err))
			return false
		}
		if snap.RunID != accepted.RunID {
			printError(fmt.Sprintf("Run %s was replaced by %s", accepted.RunID, snap.RunID))
			return false
		}
		if snap.Status != last {
			fmt.Printf("%s→ %s%s\n", colorYellow, snap.Status, colorReset)
			last = snap.Status
		}

		switch snap.Status {
		case "complete":
			if snap.Result == nil {
				printError("complete without a result")
				return false
			}
			printSuccess(fmt.Sprintf("Score %d, grade %s", snap.Result.TotalScore, snap.Result.Grade))
			fmt.Println(snap.Result.Summary)
			return true
		case "error":
			printError(fmt.Sprintf("Evaluation failed: %s", snap.Error))
			return false
		}
		time.Sleep(sc.poll)
	}

	printError("Timed out waiting for the evaluation")
	return false
}

func (sc *smokeClient) checkA2A() bool {
	printCheckHeader("Evaluation via A2A")

	request := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      fmt.Sprintf("smoke-%d", time.Now().Unix()),
		"method":  "message/send",
		"params": map[string]interface{}{
			"message": map[string]interface{}{
				"kind":  "message",
				"role":  "user",
				"parts": []map[string]interface{}{{"kind": "text", "text": sc.idea}},
			},
			"configuration": map[string]interface{}{"blocking": true},
		},
	}
	payload, _ := json.Marshal(request)

	status, body, err := sc.post("/a2a/validator", payload)
	if err != nil {
		printError(err.Error())
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}

	var response struct {
		Error  json.RawMessage `json:"error"`
		Result struct {
			Status struct {
				State   string `json:"state"`
				Message struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"message"`
			} `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}
	if len(response.Error) > 0 {
		printError(fmt.Sprintf("Request returned an error: %s", string(response.Error)))
		return false
	}

	st := response.Result.Status
	if st.State != "completed" {
		printError(fmt.Sprintf("Expected state 'completed', got '%s'", st.State))
		for _, p := range st.Message.Parts {
			fmt.Println(p.Text)
		}
		return false
	}

	printSuccess("A2A evaluation completed")
	fmt.Println(strings.Repeat("=", 80))
	for _, p := range st.Message.Parts {
		fmt.Println(p.Text)
	}
	fmt.Println(strings.Repeat("=", 80))
	return true
}

func (sc *smokeClient) get(path string) (int, []byte, error) {
	url := sc.baseURL + path
	fmt.Printf("GET %s\n", url)
	resp, err := sc.client.Get(url)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func (sc *smokeClient) post(path string, payload []byte) (int, []byte, error) {
	url := sc.baseURL + path
	fmt.Printf("POST %s\n", url)
	resp, err := sc.client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func printHeader(text string) {
	line := strings.Repeat("=", len([]rune(text))+4)
	fmt.Printf("\n%s%s%s\n", colorBlue, line, colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, line, colorReset)
}

func printCheckHeader(text string) {
	fmt.Printf("%s[CHECK] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, pretty.String())
	}
}
