package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"classechat/config"
)

// FillMissing prompts for configuration values a command cannot run
// without. Values already present are left alone.
func FillMissing(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	if cfg.APIBase == "" {
		base, err := promptFor(reader, "API base URL")
		if err != nil {
			return fmt.Errorf("failed to get API base: %w", err)
		}
		cfg.APIBase = base
	}

	if cfg.User.ID <= 0 {
		for {
			raw, err := promptFor(reader, "Your user id")
			if err != nil {
				return fmt.Errorf("failed to get user id: %w", err)
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				fmt.Println("User id must be a positive integer.")
				continue
			}
			cfg.User.ID = id
			break
		}
	}

	return nil
}

// APIKey prompts for the API key with masked input, falling back to plain
// input when the terminal does not support it.
func APIKey(reader *bufio.Reader) (string, error) {
	for {
		fmt.Print("API key: ")
		keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			line, err := reader.ReadString('\n')
			if err != nil {
				return "", err
			}
			keyBytes = []byte(strings.TrimSpace(line))
		} else {
			fmt.Println()
		}
		key := strings.TrimSpace(string(keyBytes))
		if key == "" {
			fmt.Println("API key cannot be empty.")
			continue
		}
		return key, nil
	}
}

func promptFor(reader *bufio.Reader, label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		v := strings.TrimSpace(line)
		if v == "" {
			fmt.Printf("%s cannot be empty.\n", label)
			continue
		}
		return v, nil
	}
}

// Confirm prompts for a yes/no confirmation.
func Confirm(message string) bool {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Printf("%s [y/N]: ", message)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y", "yes":
			return true
		case "n", "no", "":
			return false
		default:
			fmt.Println("Please enter 'y' or 'n'.")
		}
	}
}
