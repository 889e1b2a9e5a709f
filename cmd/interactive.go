package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bisegni/lobcursor/pkg/command"
	"github.com/bisegni/lobcursor/pkg/cursor"
	"github.com/chzyer/readline"
)

// RunInteractive opens filename as a cursor and reads navigation commands
// until exit, quit, CLOSE or end of input.
func RunInteractive(filename string) error {
	if filename == "-" {
		// the shell itself reads stdin
		return fmt.Errorf("interactive mode needs a file or inline JSON, not stdin")
	}

	c, err := openCursor(filename)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Println("Interactive mode enabled. Type 'help' for commands, 'exit' or 'quit' to leave.")
	fmt.Printf("Reading from: %s (%s cursor %s)\n", filename, c.Mode(), c.Name())

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			break
		}
		if strings.EqualFold(trimmed, "help") {
			fmt.Println(command.Help())
			continue
		}

		out, err := command.Exec(c, trimmed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(out)
		if c.State() == cursor.Closed {
			break
		}
	}
	return nil
}
