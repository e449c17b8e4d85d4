package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "convert SRC DST",
		Short: "Copy the fields of SRC into the tag of DST",
		Long: "Reads SRC, converts its fields into the tagging scheme of DST and writes them " +
			"into DST. Fields DST cannot store are listed and skipped; fields absent from SRC " +
			"are left as they are in DST.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			opts := ctx.options()

			from, _, err := audiotag.ReadFromPath(src, opts...)
			if err != nil {
				return err
			}
			target, err := audiotag.Detect(dst, opts...)
			if err != nil {
				return err
			}
			into, _, err := audiotag.ReadFromPath(dst, opts...)
			if err != nil {
				return err
			}

			converted, err := audiotag.Convert(from, target)
			if err != nil {
				return err
			}
			dropped := audiotag.ApplyRecord(audiotag.ToRecord(converted), into)
			dropped = append(dropped, droppedBy(from, target)...)

			out := cmd.OutOrStdout()
			if len(dropped) > 0 {
				names := make([]string, len(dropped))
				for i, f := range dropped {
					names[i] = f.String()
				}
				fmt.Fprintf(out, "%s cannot store: %s\n", target, strings.Join(names, ", "))
			}
			if dryRun {
				printTag(out, dst, into)
				return nil
			}

			var wopts []audiotag.WriteOption
			if ctx.cfg.BackupSuffix != "" {
				wopts = append(wopts, audiotag.WithBackup(ctx.cfg.BackupSuffix))
			}
			if err := audiotag.WriteFile(into, dst, wopts...); err != nil {
				return err
			}
			fmt.Fprintf(out, "converted %s (%s) into %s (%s)\n", src, from.Type(), dst, target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the result without writing DST")
	return cmd
}

// droppedBy lists the writable fields present on tag that target cannot
// represent.
func droppedBy(tag audiotag.Tag, target audiotag.TagType) []audiotag.Field {
	blank, err := audiotag.New(target)
	if err != nil {
		return nil
	}
	var dropped []audiotag.Field
	for _, f := range audiotag.ToRecord(tag).Present() {
		if f.Writable() && !blank.Supports(f) {
			dropped = append(dropped, f)
		}
	}
	return dropped
}
