package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/phanxgames/animgraph"
	"github.com/phanxgames/animgraph/internal/scenefile"
)

var (
	scenePath string
	logLevel  string
	nodeName  string
	fps       float64
	jsonOut   bool

	logger hclog.Logger = hclog.NewNullLogger()
)

var rootCmd = &cobra.Command{
	Use:           "animgraph",
	Short:         "Inspect and evaluate animation value graphs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			logLevel = os.Getenv("ANIMGRAPH_LOG_LEVEL")
		}
		level := hclog.LevelFromString(logLevel)
		if level == hclog.NoLevel {
			level = hclog.Warn
		}
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "animgraph",
			Level:  level,
			Output: cmd.ErrOrStderr(),
		})
		animgraph.SetLogger(logger)
		animgraph.SetDebugMode(level <= hclog.Debug)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenePath, "scene", "", "Path to the scene file (default $ANIMGRAPH_SCENE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (default $ANIMGRAPH_LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().StringVar(&nodeName, "node", "", "Only report this node")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output JSON")
}

// loadScene reads the scene named by --scene or $ANIMGRAPH_SCENE.
func loadScene() (*scenefile.Scene, error) {
	path := scenePath
	if path == "" {
		path = os.Getenv("ANIMGRAPH_SCENE")
	}
	if path == "" {
		return nil, fmt.Errorf("no scene file (use --scene or set ANIMGRAPH_SCENE)")
	}
	logger.Debug("loading scene", "path", path)
	s, err := scenefile.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("scene loaded", "canvas", s.Canvas.Name, "nodes", len(s.Nodes), "layers", len(s.Canvas.Layers()))
	return s, nil
}

// selectNodes returns the nodes to report, by name: the --node flag if set,
// else every exported node.
func selectNodes(s *scenefile.Scene) ([]string, error) {
	if nodeName != "" {
		if _, ok := s.Node(nodeName); !ok {
			return nil, fmt.Errorf("no node named %q", nodeName)
		}
		return []string{nodeName}, nil
	}
	return s.Canvas.Exported(), nil
}

func parseTime(s string) (animgraph.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return animgraph.Time(f).Round(fps), nil
}

func timeStrings(set animgraph.TimeSet) []string {
	out := make([]string, 0, set.Len())
	for _, t := range set.Slice() {
		out = append(out, t.String())
	}
	return out
}
