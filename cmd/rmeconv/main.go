package main

import (
	"fmt"
	"os"

	"github.com/kpango/glg"
	"github.com/spf13/cobra"

	"github.com/vs-shirokii/rmeconv"
)

var usageLong = fmt.Sprintf(`Convert legacy Roughness-Metallic-Emission (RGB) textures into
Occlusion-Roughness-Metallic (RGB) + Emission (RGB) textures, the file
structure motivated by the glTF2 standard.

Launch it in the 'rt' folder that contains '%[1]s' and '%[2]s'.
'<name>.<ext>' (albedo) + '<name>_rme.<ext>' files are read from the
'%[1]s' folder, and '<name>_orm.png' + '<name>_e.png' files are created
in the '%[2]s' folder. Normal (_n) and albedo files found under '%[1]s'
are copied through as they are.`, rmeconv.DefaultFromDir, rmeconv.DefaultToDir)

var rootCmd = &cobra.Command{
	Use:           "rmeconv",
	Short:         "Convert legacy RME texture sets to ORM + Emission",
	Long:          usageLong,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, args []string) error {
	opts := rmeconv.DefaultBatchOptions()

	if _, err := os.Stat(opts.FromDir); err != nil {
		return fmt.Errorf("can't find the input folder %q", opts.FromDir)
	}

	if err := os.MkdirAll(opts.ToDir, 0o755); err != nil {
		return err
	}

	sum, err := rmeconv.Run(opts)
	if err != nil {
		return err
	}

	glg.Infof("copied %d files (%d already existed)", sum.Copied, sum.CopySkips)
	glg.Infof("written %d ORM and %d emission textures", sum.ORMWritten, sum.EmissionWritten)

	if sum.NoOps > 0 {
		glg.Infof("%d conversions were no-ops", sum.NoOps)
	}

	if sum.CopyFailures > 0 {
		glg.Warnf("%d files failed to copy", sum.CopyFailures)
	}

	if sum.Failures > 0 {
		glg.Warnf("%d files failed to convert", sum.Failures)
	}

	return nil
}

func main() {
	args := os.Args[1:]
	for i, a := range args {
		// cobra only understands --help and -h out of the box
		if a == "-help" || a == "--h" {
			args[i] = "--help"
		}
	}

	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
