package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BerylCAtieno/sales-opener-agent/internal/a2a"
	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/spf13/cobra"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

const bannedPhrase = "A gente só fecha negócio se fizer sentido pros dois lados. Combinado?"

var greetingTokens = map[string][]string{
	"pt": {"Bom dia", "Boa tarde", "Oi!"},
	"en": {"Good morning", "Hi there", "Hello"},
	"es": {"Buen día", "Hola"},
}

var openingCases = []a2a.OpenerRequest{
	{Name: "Tiago", Role: "marmorista", Market: "BR", Language: "pt"},
	{Name: "John", Role: "distributor", Market: "US"},
	{Name: "Mariana", Role: "arquiteto", Market: "BR", Language: "pt"},
	{Name: "Carlos", Role: "distribuidor", Market: "LATAM"},
	{Name: "Prospect X", Role: "prospect", Market: "EU"},
}

var chatScenarios = []struct {
	name    string
	message string
	us      bool
}{
	{"BR marmorista - preco alto", "Sou marmorista no Brasil. Seu preço está alto comparado ao concorrente.", false},
	{"US distributor - prices high", "I'm a US distributor. Your prices are higher than some local distributors.", true},
	{"US distributor - cannot close container", "We can't close a full container right now.", true},
	{"BR arquiteto - quer mais opcoes", "Sou arquiteta e meu cliente quer ver mais opções.", false},
	{"LATAM distribuidor - todos buscam preco", "En mi mercado todos buscan precio.", false},
}

type TestClient struct {
	baseURL string
	client  *http.Client
}

func NewTestClient(baseURL string, timeout time.Duration) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func main() {
	var (
		baseURL  string
		testType string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Smoke test a running sales opener agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc := NewTestClient(baseURL, timeout)

			printHeader("Sales Opener Agent - Test Suite")
			fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, baseURL, colorReset)

			var ok bool
			switch testType {
			case "all":
				ok = tc.runAllTests()
			case "health":
				ok = tc.testHealthCheck()
			case "agent-card":
				ok = tc.testAgentCard()
			case "opening":
				ok = tc.testOpeningMessages()
			case "chat":
				ok = tc.testChatScenarios()
			default:
				return fmt.Errorf("unknown test type %q (available: all, health, agent-card, opening, chat)", testType)
			}
			if !ok {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the agent")
	cmd.Flags().StringVar(&testType, "test", "all", "Test type: all, health, agent-card, opening, chat")
	cmd.Flags().DurationVar(&timeout, "timeout", 120*time.Second, "HTTP client timeout")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (tc *TestClient) runAllTests() bool {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Agent Card", tc.testAgentCard},
		{"Opening Messages", tc.testOpeningMessages},
		{"Chat Scenarios", tc.testChatScenarios},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	return failed == 0
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoints")

	for _, path := range []string{"/health", "/healthz"} {
		url := tc.baseURL + path
		fmt.Printf("GET %s\n", url)

		resp, err := tc.client.Get(url)
		if err != nil {
			printError(fmt.Sprintf("Request failed: %v", err))
			return false
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
			return false
		}
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testAgentCard() bool {
	printTestHeader("Testing Agent Card Endpoint")

	url := fmt.Sprintf("%s/.well-known/agent.json", tc.baseURL)
	fmt.Printf("GET %s\n", url)

	resp, err := tc.client.Get(url)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", resp.StatusCode))
		fmt.Printf("Response: %s\n", string(body))
		return false
	}

	var agentCard map[string]any
	if err := json.Unmarshal(body, &agentCard); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		return false
	}

	requiredFields := []string{"name", "description", "url", "version", "capabilities", "skills"}
	for _, field := range requiredFields {
		if _, ok := agentCard[field]; !ok {
			printError(fmt.Sprintf("Missing required field: %s", field))
			return false
		}
	}

	printSuccess("Agent card is valid")
	printJSON(body)
	return true
}

// testOpeningMessages runs every case with three seeds, three rounds, and
// checks uniqueness across seeds and the content rules per message.
func (tc *TestClient) testOpeningMessages() bool {
	printTestHeader("Testing Opening Messages")

	for round := 1; round <= 3; round++ {
		for _, c := range openingCases {
			seen := map[string]bool{}
			for _, seed := range []int64{111, 222, 333} {
				req := c
				req.Seed = &seed

				out, err := tc.generateOpening(req)
				if err != nil {
					printError(fmt.Sprintf("Round %d %s/%s seed %d: %v", round, c.Market, c.Role, seed, err))
					return false
				}
				if problem := checkOpening(out); problem != "" {
					printError(fmt.Sprintf("Round %d %s/%s seed %d: %s\n  %s", round, c.Market, c.Role, seed, problem, out.Message))
					return false
				}
				seen[out.Message] = true
			}
			if len(seen) != 3 {
				printError(fmt.Sprintf("Round %d %s/%s: messages should be unique across seeds", round, c.Market, c.Role))
				return false
			}
		}
		printSuccess(fmt.Sprintf("Round %d: passed %d cases", round, len(openingCases)))
	}
	return true
}

func checkOpening(out models.GeneratedMessage) string {
	if out.Message == "" {
		return "empty message"
	}
	if strings.Contains(out.Message, bannedPhrase) {
		return "banned phrase present"
	}
	tokens, ok := greetingTokens[out.Meta.Language]
	if !ok {
		tokens = greetingTokens["es"]
	}
	found := false
	for _, tok := range tokens {
		if strings.Contains(out.Message, tok) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Sprintf("greeting missing for language %s", out.Meta.Language)
	}
	if out.Meta.Market == "US" {
		lower := strings.ToLower(out.Message)
		if strings.Contains(lower, "container") || strings.Contains(lower, "logistic") {
			return "US opener must avoid container/logistics"
		}
	}
	return ""
}

func (tc *TestClient) generateOpening(req a2a.OpenerRequest) (models.GeneratedMessage, error) {
	data, err := a2a.DataPart(req)
	if err != nil {
		return models.GeneratedMessage{}, err
	}
	params, err := json.Marshal(a2a.MessageParams{
		Message: a2a.A2AMessage{
			Kind:  "message",
			Role:  a2a.RoleUser,
			Parts: []a2a.MessagePart{data},
		},
		Configuration: a2a.MessageConfiguration{Blocking: true},
	})
	if err != nil {
		return models.GeneratedMessage{}, err
	}
	payload, err := json.Marshal(a2a.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      fmt.Sprintf("test-%d", time.Now().UnixNano()),
		Method:  "message/send",
		Params:  params,
	})
	if err != nil {
		return models.GeneratedMessage{}, err
	}

	resp, err := tc.client.Post(tc.baseURL+"/a2a/opener", "application/json", bytes.NewReader(payload))
	if err != nil {
		return models.GeneratedMessage{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var rpc struct {
		Result *a2a.TaskResult   `json:"result"`
		Error  *a2a.JSONRPCError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rpc); err != nil {
		return models.GeneratedMessage{}, fmt.Errorf("invalid JSON response: %w", err)
	}
	if rpc.Error != nil {
		return models.GeneratedMessage{}, fmt.Errorf("rpc error %d: %s", rpc.Error.Code, rpc.Error.Message)
	}
	if rpc.Result == nil || rpc.Result.Status.State != a2a.StateCompleted {
		return models.GeneratedMessage{}, fmt.Errorf("task did not complete")
	}
	if len(rpc.Result.Artifacts) == 0 || len(rpc.Result.Artifacts[0].Parts) < 2 {
		return models.GeneratedMessage{}, fmt.Errorf("missing artifact")
	}

	var out models.GeneratedMessage
	if err := json.Unmarshal(rpc.Result.Artifacts[0].Parts[1].Data, &out); err != nil {
		return models.GeneratedMessage{}, fmt.Errorf("invalid artifact: %w", err)
	}
	return out, nil
}

// testChatScenarios sends each scenario on a fresh thread and checks the
// reply for emptiness, the banned phrase, and early container talk in US
// scenarios.
func (tc *TestClient) testChatScenarios() bool {
	printTestHeader("Testing Chat Relay Scenarios")

	allPassed := true
	for _, sc := range chatScenarios {
		fmt.Printf("[TEST] %s\n", sc.name)

		reply, err := tc.chat(models.ChatRequest{Message: sc.message})
		if err != nil {
			printError(err.Error())
			allPassed = false
			continue
		}

		msg := strings.TrimSpace(reply.AssistantMessage)
		switch {
		case msg == "":
			printError("Empty reply")
			allPassed = false
		case strings.Contains(strings.ToLower(msg), strings.ToLower(bannedPhrase)):
			printError("Used banned phrase")
			allPassed = false
		case sc.us && !strings.Contains(strings.ToLower(sc.message), "container") && strings.Contains(strings.ToLower(msg), "container"):
			printError("Talked about containers too early in a US scenario")
			allPassed = false
		default:
			printSuccess(truncate(msg, 160))
		}
		time.Sleep(time.Second)
	}
	return allPassed
}

func (tc *TestClient) chat(req models.ChatRequest) (models.ChatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.ChatResponse{}, err
	}
	resp, err := tc.client.Post(tc.baseURL+"/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return models.ChatResponse{}, fmt.Errorf("expected status 200, got %d: %s", resp.StatusCode, string(body))
	}

	var out models.ChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.ChatResponse{}, fmt.Errorf("invalid JSON response: %w", err)
	}
	return out, nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
