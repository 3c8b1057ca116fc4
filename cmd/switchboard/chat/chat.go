// Package chatcmder provides the chat command for an interactive session
// against a running switchboard API server.
package chatcmder

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/switchboardco/switchboard/pkg/cliui"
	"github.com/switchboardco/switchboard/pkg/config"
	"github.com/switchboardco/switchboard/pkg/utils"
)

type chatCommander struct {
	apiTarget string
	sessionID string

	client *resty.Client
}

// Wire shapes for the chat endpoints. These mirror the api package
// responses without importing the server side.
type chatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	QueryType string `json:"query_type"`
}

type clearResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const chatLongDesc string = `Start an interactive chat session against a running switchboard server.

Queries are sent to the API server, which routes arithmetic to the
calculator and everything else to the model provider. The session ID is
minted by the server on the first message and reused for the rest of the
session, so the conversation keeps its history.

Commands inside the session:
  /clear    Clear the current session history and start fresh
  /exit     Quit (Ctrl+D also works)

Examples:
  switchboard chat
  switchboard chat --api-target http://localhost:8090
  switchboard chat --session session-7f3a2b`

const chatShortDesc string = "Interactive chat against a running switchboard server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("api-target") {
				cmder.apiTarget = cfg.Client.APITarget
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	cmd.Flags().StringVar(&cmder.sessionID, "session", "", "Resume an existing session ID (default: mint a new session)")

	return cmd
}

func (c *chatCommander) run() error {
	c.client = resty.New().
		SetBaseURL(c.apiTarget).
		SetTimeout(2 * time.Minute)

	fmt.Println()
	if c.sessionID != "" {
		fmt.Printf("  %s Resuming session %s\n",
			cliui.SuccessMark,
			cliui.ValueStyle.Render(utils.Truncate(c.sessionID, 24)),
		)
	} else {
		fmt.Printf("  %s New conversation\n", cliui.DimStyle.Render("●"))
	}
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Server:"),
		cliui.ValueStyle.Render(c.apiTarget),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /clear to reset, /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(cliui.UserPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}
		if input == "/clear" {
			if err := c.clearSession(); err != nil {
				fmt.Printf("  %s %s\n", cliui.FailMark, err)
			}
			continue
		}

		if err := c.send(input); err != nil {
			fmt.Printf("  %s %s\n", cliui.FailMark, err)
		}
	}

	fmt.Println()
	return scanner.Err()
}

func (c *chatCommander) send(query string) error {
	var reply chatResponse
	var apiErr errorResponse

	resp, err := c.client.R().
		SetBody(chatRequest{Query: query, SessionID: c.sessionID}).
		SetResult(&reply).
		SetError(&apiErr).
		Post("/api/chat")
	if err != nil {
		return fmt.Errorf("sending query: %w", err)
	}

	if resp.IsError() {
		if apiErr.Error != "" {
			return fmt.Errorf("server error: %s", apiErr.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status())
	}

	c.sessionID = reply.SessionID

	if reply.Success {
		fmt.Printf("%s%s\n\n", cliui.BotPrompt, reply.Response)
	} else {
		fmt.Printf("%s%s\n\n", cliui.BotPrompt, cliui.DegradedStyle.Render(reply.Response))
	}

	return nil
}

func (c *chatCommander) clearSession() error {
	if c.sessionID == "" {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No session to clear."))
		return nil
	}

	var cleared clearResponse

	resp, err := c.client.R().
		SetResult(&cleared).
		Delete("/api/chat/session/" + c.sessionID)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("server error: %s", resp.Status())
	}

	if cleared.Cleared {
		fmt.Printf("  %s Cleared session %s\n\n",
			cliui.SuccessMark,
			cliui.ValueStyle.Render(utils.Truncate(c.sessionID, 24)),
		)
	} else {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Session had no history."))
	}

	c.sessionID = ""
	return nil
}
