package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/kiosk"
	"github.com/frahmantamala/timeclock/internal/punch"
	"github.com/spf13/cobra"
)

var (
	kioskAPIURL  string
	kioskMachine string
)

var kioskCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Start the punch terminal",
	Long:  `Interactive terminal where employees type their login and press a punch button.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := internal.KioskConfig{}
		if loaded, err := loadConfig("."); err == nil {
			cfg = loaded.Kiosk
		}
		if kioskAPIURL != "" {
			cfg.APIURL = kioskAPIURL
		}
		if cfg.APIURL == "" {
			cfg.APIURL = "http://localhost:3001"
		}

		machine := kioskMachine
		if machine == "" {
			machine, _ = os.Hostname()
		}

		client := kiosk.NewClient(cfg.APIURL, cfg.Timeout, kiosk.WithMachineName(machine))
		return runKiosk(cmd.Context(), kiosk.NewBoard(client), os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	kioskCmd.Flags().StringVar(&kioskAPIURL, "api-url", "", "base URL of the timeclock API")
	kioskCmd.Flags().StringVar(&kioskMachine, "machine", "", "workstation label sent as X-PC-Name (defaults to hostname)")
}

// runKiosk reads commands until EOF or "quit":
//
//	login <name>   switch user and load today's punches
//	1..4 | KIND    press a punch button
func runKiosk(ctx context.Context, board *kiosk.Board, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	scanner := bufio.NewScanner(in)
	if err := board.Render(out); err != nil {
		return err
	}
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "login"):
			board.SetLogin(ctx, strings.TrimSpace(strings.TrimPrefix(line, "login")))
		default:
			kind, ok := parseButton(line)
			if !ok {
				fmt.Fprintf(out, "comando desconhecido: %s\n", line)
				break
			}
			board.Press(ctx, kind)
		}

		if err := board.Render(out); err != nil {
			return err
		}
		fmt.Fprint(out, "> ")
	}

	return scanner.Err()
}

func parseButton(s string) (punch.Kind, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(punch.Kinds) {
			return "", false
		}
		return punch.Kinds[n-1], true
	}
	return punch.ParseKind(strings.ToUpper(s))
}
