package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newExtractCommand(app *App) *cobra.Command {
	var cityHint string

	cmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Extract and geocode the address in one text",
		Long: `
Extracts and geocodes a single text. The arguments are joined with spaces;
without arguments the text is read from standard input. The result is printed
as JSON.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(app.stdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(b)
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return errors.New("no text given")
			}

			runner, err := app.NewRunner(cmd.Context())
			if err != nil {
				return fmt.Errorf("initializing pipeline: %w", err)
			}

			res := runner.Process(cmd.Context(), text, cityHint)

			enc := json.NewEncoder(app.stdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringVar(&cityHint, "city", "", "city used when the text names none")
	return cmd
}
