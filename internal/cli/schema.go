package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the sample database schema",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("schema", err)
	}
	defer cleanup()

	telemetryClient.TrackSchemaViewed("cli")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), sess.Schema())
	return nil
}
