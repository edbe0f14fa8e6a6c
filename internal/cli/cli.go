// Package cli implements the interactive chat mode: a stdin loop that posts
// each line to the local relay's /chat endpoint and prints the reply.
package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Run drives the interactive chat loop until EOF or an exit command. Blank
// lines re-prompt; "exit" and "quit" are matched case-insensitively.
func Run(serverURL string, in io.Reader, out, errOut io.Writer) error {
	fmt.Fprintln(out, "Gemini relay - interactive mode")
	fmt.Fprintln(out, "Type 'exit' or 'quit' to end the conversation")
	fmt.Fprintln(out)

	// No client timeout: a full candidate sweep on the server side can take
	// several minutes in the worst case.
	client := &http.Client{}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if strings.EqualFold(message, "exit") || strings.EqualFold(message, "quit") {
			fmt.Fprintln(out, "Goodbye!")
			break
		}

		reply, err := sendChat(client, serverURL, message)
		if err != nil {
			fmt.Fprintf(errOut, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "Bot: %s\n\n", reply)
	}
	return scanner.Err()
}

func sendChat(client *http.Client, serverURL, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, err := client.Post(strings.TrimRight(serverURL, "/")+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("connect to server: %w (is the relay running?)", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			return "", fmt.Errorf("server error: %s", errBody.Error)
		}
		return "", fmt.Errorf("server error: HTTP %d", resp.StatusCode)
	}

	var chatResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return chatResp.Response, nil
}
