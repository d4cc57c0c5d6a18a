package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// requireFlags errors when any of the named flags was left unset or empty.
// Checked at run time rather than via MarkFlagRequired so the error goes
// through cmdErr and reaches stdout as a JSON envelope like every other
// failure.
func requireFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		if f == nil || !flagSet(f) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		return fmt.Errorf("%s is required", missing[0])
	}
	return fmt.Errorf("%s are required", strings.Join(missing, " and "))
}

func flagSet(f *pflag.Flag) bool {
	return f.Changed && f.Value.String() != ""
}
