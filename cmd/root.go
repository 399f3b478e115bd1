package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

// NewRootCommand returns the fvecmat command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "fvecmat",
		Short: "Embed strings in a hashed feature space and store them as MAT-files.",
		Long: `fvecmat extracts n-gram features from files or lines of text, maps them
to a hashed vector space and writes the vectors as a MATLAB v5 MAT-file.

The output holds a 2xN cell array "data": data{1,i} is the source of the
i-th vector and data{2,i} the vector as a sparse column.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setAllConfig(viper.New(), cmd.Flags())
		},
	}
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")

	rc.AddCommand(newExtractCommand(stdin, stdout, stderr))
	rc.AddCommand(newDumpMapCommand(stdin, stdout, stderr))
	rc.AddCommand(newVersionCommand(stdout))

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(stdout, "fvecmat %s %s/%s\n", Version, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
