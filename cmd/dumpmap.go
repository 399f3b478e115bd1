package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/fvecmat/featmap"
)

func newDumpMapCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var raw bool

	dc := &cobra.Command{
		Use:   "dump-map <file>",
		Short: "Print a feature map saved by extract --map.file.",
		Long: `Print one line per dimension: the index in hex, a tab and the n-gram.
Non-printable bytes are escaped unless --raw is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			fm, err := featmap.Load(bufio.NewReader(f))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := bufio.NewWriter(stdout)
			for _, e := range fm.Entries() {
				text := string(e.Data)
				if !raw {
					text = strconv.Quote(text)
				}
				fmt.Fprintf(w, "%#08x\t%s\n", e.Hash, text)
			}
			return w.Flush()
		},
	}
	dc.Flags().BoolVar(&raw, "raw", false, "Print n-grams unescaped.")

	return dc
}
