package cli

import (
	"github.com/spf13/cobra"
)

// styleCommand creates the style command.
func (c *CLI) styleCommand() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the editor style as TOML",
		Long: `Print the default editor style as TOML. The output is a complete style
file: edit it and pass it to layout or serve with --style. With --from, the
given file is validated and printed merged over the defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := loadStyle(from)
			if err != nil {
				return err
			}
			return st.Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "style file to merge over the defaults")

	return cmd
}
