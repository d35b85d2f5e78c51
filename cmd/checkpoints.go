package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xbeedee/weaver/pkg/config"
	"github.com/0xbeedee/weaver/pkg/story"
)

var (
	checkpointsModel     string
	checkpointsMultichar bool
	checkpointsDir       string
)

// NewCheckpointsCmd lists prior stories for a model/mode, newest first.
// This is the same set the --checkpoint flag selects its seed from.
func NewCheckpointsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoints",
		Short: "List prior stories usable as checkpoints for a model/mode",
		RunE:  runCheckpoints,
	}

	cmd.Flags().StringVarP(&checkpointsModel, "model", "m", "", "Model identifier the stories were produced with (required)")
	cmd.Flags().BoolVar(&checkpointsMultichar, "multichar", false, "List the multi-character store")
	cmd.Flags().StringVar(&checkpointsDir, "stories-dir", config.DefaultStoriesDir, "Root of the story store")
	cmd.MarkFlagRequired("model")

	return cmd
}

func runCheckpoints(cmd *cobra.Command, _ []string) error {
	loader := &story.Loader{BaseDir: checkpointsDir}
	stories, err := loader.Stories(checkpointsModel, checkpointsMultichar)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no stories found for %s\n", story.Dir(checkpointsDir, checkpointsModel, checkpointsMultichar))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WRITTEN\tPATH")
	for _, s := range stories {
		fmt.Fprintf(w, "%s\t%s\n", s.ModTime.Format(time.DateTime), s.Path)
	}
	return w.Flush()
}
