package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a message to the Nimbus crew",
	Long: `Send a message to the Nimbus crew and print the coordinator's reply.

Each message runs one full exchange: the coordinator (and any specialists
it pulls in) work the request to completion, then the conversation is
closed. With no argument, chat reads messages from stdin interactively,
one exchange per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &apiClient{
			base: strings.TrimRight(viper.GetString("api"), "/"),
			http: &http.Client{Timeout: 5 * time.Minute},
		}

		if len(args) > 0 {
			return runExchange(client, strings.Join(args, " "))
		}

		// Interactive: one exchange per line.
		fmt.Println("Connected to", client.base, "- empty line to quit.")
		scanner := bufio.NewScanner(os.Stdin)
		prompt := color.New(color.FgGreen)
		for {
			prompt.Print("you> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				break
			}
			if err := runExchange(client, line); err != nil {
				color.Red("error: %v", err)
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runExchange(client *apiClient, text string) error {
	id, err := client.startConversation()
	if err != nil {
		return err
	}

	out, err := client.sendMessage(id, text)
	if err != nil {
		return err
	}

	color.Cyan("nimbus> %s", out.Result)
	if verbose {
		fmt.Fprintf(os.Stderr, "conversation: %s\nterminated: %s\n", id, out.Reason)
		for _, m := range out.Messages {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", m.Author, m.Content)
		}
	}
	return nil
}

type apiClient struct {
	base string
	http *http.Client
}

type sendMessageResult struct {
	Result   string `json:"result"`
	Reason   string `json:"reason"`
	Messages []struct {
		Author  string `json:"author"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (c *apiClient) startConversation() (string, error) {
	resp, err := c.http.Post(c.base+"/conversations", "application/json", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return "", fmt.Errorf("starting conversation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("starting conversation: unexpected status %s", resp.Status)
	}

	var out struct {
		Conversation struct {
			SessionID string `json:"session_id"`
		} `json:"conversation"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding conversation: %w", err)
	}
	return out.Conversation.SessionID, nil
}

func (c *apiClient) sendMessage(id, text string) (*sendMessageResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Post(c.base+"/conversations/"+id+"/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sending message: unexpected status %s", resp.Status)
	}

	var out sendMessageResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding reply: %w", err)
	}
	return &out, nil
}
