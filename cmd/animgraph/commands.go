package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/phanxgames/animgraph"
	"github.com/phanxgames/animgraph/internal/scenefile"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var evalCmd = &cobra.Command{
	Use:   "eval <time>",
	Short: "Evaluate nodes at a time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := parseTime(args[0])
		if err != nil {
			return err
		}
		s, err := loadScene()
		if err != nil {
			return err
		}
		names, err := selectNodes(s)
		if err != nil {
			return err
		}

		values := map[string]animgraph.Value{}
		for _, name := range names {
			n, _ := s.Node(name)
			v, err := n.Evaluate(t)
			if err != nil {
				return fmt.Errorf("evaluate %s at %v: %w", name, t, err)
			}
			logger.Trace("evaluated", "node", name, "time", t, "value", v)
			values[name] = v
		}
		if jsonOut {
			return printJSON(cmd.OutOrStdout(), map[string]any{"time": float64(t), "values": values})
		}
		for _, name := range names {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%v\n", name, values[name])
		}
		return nil
	},
}

// timesCommand builds a command listing one kind of time set per node.
func timesCommand(use, short string, get func(animgraph.Node) animgraph.TimeSet) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadScene()
			if err != nil {
				return err
			}
			names, err := selectNodes(s)
			if err != nil {
				return err
			}
			out := map[string][]string{}
			for _, name := range names {
				n, _ := s.Node(name)
				out[name] = timeStrings(get(n))
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strings.Join(out[name], " "))
			}
			return nil
		},
	}
}

var timesCmd = timesCommand("times", "List waypoint and activepoint times", animgraph.Times)

var changeTimesCmd = timesCommand("change-times", "List the times at which values jump", animgraph.ValueChangeTimes)

var vocabType string

var vocabCmd = &cobra.Command{
	Use:   "vocab [variant]",
	Short: "Describe the links of a variant, or list variants",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			for _, name := range animgraph.Variants() {
				v, _ := animgraph.LookupVariant(name)
				var types []string
				for _, t := range animgraph.Types() {
					if v.CheckType(t) {
						types = append(types, t.Name())
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", name, v.LocalName, strings.Join(types, ","))
			}
			return nil
		}
		typ, ok := animgraph.TypeByName(vocabType)
		if !ok {
			return fmt.Errorf("unknown type %q", vocabType)
		}
		vocab, err := animgraph.VocabOf(args[0], typ)
		if err != nil {
			return err
		}
		if jsonOut {
			type param struct {
				Name        string `json:"name"`
				LocalName   string `json:"local_name"`
				Type        string `json:"type"`
				Description string `json:"description,omitempty"`
				Hint        string `json:"hint,omitempty"`
			}
			out := make([]param, len(vocab))
			for i, p := range vocab {
				out[i] = param{p.Name, p.LocalName, slotType(p, typ), p.Description, p.Hint}
			}
			return printJSON(cmd.OutOrStdout(), out)
		}
		for _, p := range vocab {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.Name, slotType(p, typ), p.Description)
		}
		return nil
	},
}

func slotType(p animgraph.ParamDesc, out *animgraph.Type) string {
	if p.Type == nil {
		return out.Name()
	}
	return p.Type.Name()
}

var intervalsCmd = &cobra.Command{
	Use:   "intervals <list-node>",
	Short: "Show when each entry of a dynamic list is active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene()
		if err != nil {
			return err
		}
		n, ok := s.Node(args[0])
		if !ok {
			return fmt.Errorf("no node named %q", args[0])
		}
		list, ok := n.(*animgraph.DynamicList)
		if !ok {
			return fmt.Errorf("%s is a %s node, not a dynamic list", args[0], n.VariantName())
		}
		for i := 0; i < list.LinkCount(); i++ {
			d := animgraph.LinkOf(list, i)
			var spans []string
			for _, iv := range d.ActiveIntervals() {
				spans = append(spans, iv.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", d, strings.Join(spans, " "))
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report empty links and empty tracks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene()
		if err != nil {
			return err
		}
		var result *multierror.Error
		for _, name := range s.Order {
			n, _ := s.Node(name)
			if err := animgraph.Validate(n); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", name, err))
			}
		}
		if err := result.ErrorOrNil(); err != nil {
			return err
		}
		logger.Info("scene is valid", "nodes", len(s.Nodes))
		return nil
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Print the scene in canonical form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene()
		if err != nil {
			return err
		}
		return scenefile.Write(cmd.OutOrStdout(), s.Canvas)
	},
}

func init() {
	evalCmd.Flags().Float64Var(&fps, "fps", 0, "Snap the time to frames at this rate")
	vocabCmd.Flags().StringVar(&vocabType, "type", "real", "Output type of the variant")

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(timesCmd)
	rootCmd.AddCommand(changeTimesCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(intervalsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fmtCmd)
}
