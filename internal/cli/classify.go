package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/vague/internal/detect"
)

var errEmptyText = errors.New("text cannot be empty")

var explain bool

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify text from arguments or stdin",
	Long: `Classify prints one JSON object per input.

With arguments, they are joined with spaces into a single input.
Without arguments, every non-blank line on stdin is classified separately.

Example:
  vague classify "I always mess everything up."
  vague classify --explain I am a failure
  cat journal.txt | vague classify`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs, err := collectInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		return classifyInputs(cmd.OutOrStdout(), inputs, explain)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().BoolVar(&explain, "explain", false, "include the matched signals")
}

// collectInputs returns the trimmed texts to classify
func collectInputs(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 0 {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return nil, errEmptyText
		}
		return []string{text}, nil
	}

	var inputs []string
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(inputs) == 0 {
		return nil, errEmptyText
	}
	return inputs, nil
}

func classifyInputs(w io.Writer, inputs []string, withSignals bool) error {
	enc := json.NewEncoder(w)
	for _, text := range inputs {
		var v any
		if withSignals {
			v = detect.Analyze(text)
		} else {
			v = detect.Detect(text)
		}
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
