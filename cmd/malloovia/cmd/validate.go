package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/malloovia/malloovia/internal/logger"
	"github.com/malloovia/malloovia/pkg/config"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate PATH",
	Short: "Load a problem document and report whether it is well-formed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		doc, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}

		problems, err := config.Build(doc)
		if err != nil {
			return fmt.Errorf("%s is invalid: %w", path, err)
		}

		for id, p := range problems {
			logger.Log.Infow("problem is valid",
				"id", id,
				"apps", len(p.Apps()),
				"instance_classes", len(p.InstanceClasses()),
				"timeslots", p.T())
			if validateVerbose {
				for _, c := range p.InstanceClasses() {
					logger.Log.Infow("instance class", "problem", id, "class", c.ID(), "reserved", c.IsReserved(), "price", c.Price())
				}
			}
		}

		fmt.Printf("%s: %d problem(s), all valid\n", path, len(problems))
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "print each instance class found in every problem")
}
