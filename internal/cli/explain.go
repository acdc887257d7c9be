package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/legalease/internal/core/analysis"
)

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <clause text | ->",
		Short: "Explain a single clause in plain language",
		Long:  `Explain a clause passed as arguments, or read it from stdin when the only argument is "-".`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clause := strings.Join(args, " ")
			if len(args) == 1 && args[0] == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read clause: %w", err)
				}
				clause = string(raw)
			}

			explanation, err := analysis.ExplainClause(clause)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), explanation)
			return err
		},
	}
}
