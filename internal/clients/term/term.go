// Package term is the terminal front end: it pumps lines from stdin into the
// tracker service and prints replies. It plays the role a chat client or a
// browser page would, so it stays free of any domain logic.
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"siplog/internal/logger"
	"siplog/internal/model/tracker"
)

const prompt = "> "

type Client struct {
	in  io.Reader
	out io.Writer
}

func New() *Client {
	return &Client{
		in:  os.Stdin,
		out: os.Stdout,
	}
}

func (c *Client) SendMessage(text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}

// SaveFile writes an export next to the working directory, the closest
// equivalent of a browser download.
func (c *Client) SaveFile(name, content string) error {
	return os.WriteFile(name, []byte(content), 0o644)
}

// ListenCommands reads one line at a time and hands it to the service. Each
// command runs to completion before the next line is read.
func (c *Client) ListenCommands(ctx context.Context, msgService *tracker.Service) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	logger.Info("Start listening for commands")
	fmt.Fprint(c.out, prompt)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stop listening for commands")
			return
		case line, ok := <-lines:
			if !ok {
				logger.Info("Input closed, stopping")
				return
			}
			if err := msgService.HandleIncomingCommand(line); err != nil {
				logger.Error("error processing command:", zap.Error(err))
			}
			fmt.Fprint(c.out, prompt)
		}
	}
}
