package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/paretogo/codec"
	"github.com/hupe1980/paretogo/entry"
	"github.com/hupe1980/paretogo/ideal"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// member is one Pareto front entry as read back from disk.
type member struct {
	File  string
	Hash  string
	Entry entry.Entry
}

// summary is the machine-readable analyze output.
type summary struct {
	NMembers int                `json:"n_members"`
	Ideal    map[string]float64 `json:"ideal"`
	Closest  closestSummary     `json:"closest"`
}

type closestSummary struct {
	Hash               string             `json:"hash"`
	Values             map[string]float64 `json:"values"`
	NormalizedDistance float64            `json:"normalized_distance"`
}

func init() {
	var (
		modeFlag    string
		weightsFlag string
		limitFlags  []string
		jsonFlag    bool
		pctFlag     float64
		epsFlag     float64
		configFlag  string
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir>",
		Short: "Rank a Pareto front against a freshly computed ideal point",
		Long: `Analyze reads every entry of a Pareto store (either the store root or
its pareto/ directory), applies optional objective limit filters, computes
the ideal point under the selected mode, and reports the entry closest to
it in min/max-normalized objective space.

The persisted distance prefixes in the storage names are ignored: they may
have been computed under a different mode or weights.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("mode") && cfg.Mode != "" {
				modeFlag = cfg.Mode
			}
			if !cmd.Flags().Changed("weights") && len(cfg.Weights) > 0 {
				weightsFlag = joinFloats(cfg.Weights)
			}
			if !cmd.Flags().Changed("limit") && len(cfg.Limits) > 0 {
				limitFlags = cfg.Limits
			}

			// InvalidMode is fatal at the CLI boundary.
			mode, err := ideal.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			weights, err := parseWeights(weightsFlag)
			if err != nil {
				return fmt.Errorf("parse weights: %w", err)
			}
			return runAnalyze(analyzeParams{
				dir:        args[0],
				mode:       mode,
				weights:    weights,
				limits:     limitFlags,
				jsonOutput: jsonFlag,
				percentile: pctFlag,
				epsilon:    epsFlag,
			})
		},
	}

	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "weighted",
		"ideal point mode: min (m), weighted (w), utopian (u), percentile (p), midrange (mi), geomedian (g)")
	cmd.Flags().StringVarP(&weightsFlag, "weights", "w", "",
		"comma-separated ideal point weights; a single value broadcasts to all objectives (default all zeros)")
	cmd.Flags().StringArrayVarP(&limitFlags, "limit", "l", nil,
		`objective limit filter, e.g. "w_0<1.0" (repeatable)`)
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output summary as JSON")
	cmd.Flags().Float64Var(&pctFlag, "percentile", 10, "column percentile for percentile mode")
	cmd.Flags().Float64Var(&epsFlag, "epsilon", 1e-3, "shift factor for utopian mode")
	cmd.Flags().StringVar(&configFlag, "config", "", "path to YAML config with default mode/weights/limits")

	rootCmd.AddCommand(cmd)
}

type analyzeParams struct {
	dir        string
	mode       ideal.Mode
	weights    []float64
	limits     []string
	jsonOutput bool
	percentile float64
	epsilon    float64
}

func runAnalyze(p analyzeParams) error {
	dir := entriesDir(p.dir)

	members, err := loadMembers(dir)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d Pareto members.\n", len(members))

	checks := parseLimits(p.limits)
	members = applyLimits(members, checks)

	if len(members) == 0 {
		fmt.Println("No valid Pareto points found.")
		return nil
	}

	wKeys := members[0].Entry.ObjectiveKeys()
	if len(wKeys) == 0 {
		return errors.New("no w_i objective keys found")
	}
	nameFor := metricNames(members[0].Entry, wKeys)

	// Only complete objective vectors take part in the analysis.
	var matrix [][]float64
	var complete []member
	for _, m := range members {
		row := make([]float64, len(wKeys))
		ok := true
		for i, key := range wKeys {
			v, present := m.Entry.Objective(key)
			if !present {
				ok = false
				break
			}
			row[i] = v
		}
		if ok {
			matrix = append(matrix, row)
			complete = append(complete, m)
		}
	}
	if len(matrix) == 0 {
		fmt.Println("No valid Pareto points found.")
		return nil
	}

	weights := p.weights
	if len(weights) == 0 {
		weights = ideal.Zeros(len(wKeys))
	}

	ip, err := ideal.Compute(matrix, p.mode, func(o *ideal.Options) {
		o.Weights = weights
		o.Percentile = p.percentile
		o.Epsilon = p.epsilon
	})
	if err != nil {
		return err
	}

	bounds := ideal.BoundsOf(matrix)
	idealNorm := bounds.Normalize(ip)

	closest, minDist := 0, math.Inf(1)
	dists := make([]float64, len(matrix))
	for i, row := range matrix {
		dists[i] = ideal.Distance(bounds.Normalize(row), idealNorm)
		if dists[i] < minDist {
			closest, minDist = i, dists[i]
		}
	}

	if p.jsonOutput {
		return printJSON(wKeys, ip, complete[closest], matrix[closest], minDist, len(complete))
	}
	printReport(p.mode, weights, wKeys, nameFor, ip, complete[closest], matrix[closest], minDist)
	return nil
}

// entriesDir accepts either the store root or its pareto/ directory.
func entriesDir(dir string) string {
	dir = strings.TrimRight(dir, "/")
	if filepath.Base(dir) != "pareto" {
		dir = filepath.Join(dir, "pareto")
	}
	return dir
}

// loadMembers reads and decodes all entry files. Decoding is read-only
// and outside the store's single-writer model, so files load in parallel.
func loadMembers(dir string) ([]member, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read entries dir: %w", err)
	}

	var files []string
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			files = append(files, de.Name())
		}
	}
	sort.Strings(files)

	members := make([]member, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range files {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			var e entry.Entry
			if err := codec.Default.Unmarshal(data, &e); err != nil {
				return fmt.Errorf("decode %s: %w", name, err)
			}
			members[i] = member{
				File:  name,
				Hash:  hashFromFile(name),
				Entry: e,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return members, nil
}

// hashFromFile extracts the content hash: the text after the last
// underscore, before the extension.
func hashFromFile(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}

func metricNames(e entry.Entry, wKeys []string) map[string]string {
	names := e.ScoringNames()
	out := make(map[string]string, len(wKeys))
	for i, key := range wKeys {
		if i < len(names) {
			out[key] = names[i]
		} else {
			out[key] = key
		}
	}
	return out
}

func printReport(mode ideal.Mode, weights []float64, wKeys []string, nameFor map[string]string, ip []float64, closest member, values []float64, dist float64) {
	pad := 0
	for _, key := range wKeys {
		if n := len(nameFor[key]); n > pad {
			pad = n
		}
	}

	header := fmt.Sprintf("Ideal point (%v)", mode)
	if mode == ideal.ModeWeighted {
		header = fmt.Sprintf("Ideal point (%v %v)", mode, weights)
	}
	fmt.Println(titleStyle.Render(header))
	for i, key := range wKeys {
		fmt.Printf("  %s (%-*s) = %s\n", key, pad, nameFor[key], valueStyle.Render(fmt.Sprintf("%.5f", ip[i])))
	}

	fmt.Println(titleStyle.Render("Closest to ideal: ") + closest.File +
		faintStyle.Render(fmt.Sprintf(" | norm_dist=%.5f", dist)))
	for i, key := range wKeys {
		fmt.Printf("  %s (%-*s) = %s\n", key, pad, nameFor[key], valueStyle.Render(fmt.Sprintf("%.5f", values[i])))
	}
}

func printJSON(wKeys []string, ip []float64, closest member, values []float64, dist float64, n int) error {
	out := summary{
		NMembers: n,
		Ideal:    make(map[string]float64, len(wKeys)),
		Closest: closestSummary{
			Hash:               closest.Hash,
			Values:             make(map[string]float64, len(wKeys)),
			NormalizedDistance: dist,
		},
	}
	for i, key := range wKeys {
		out.Ideal[key] = ip[i]
		out.Closest.Values[key] = values[i]
	}
	data, err := gojson.MarshalIndent(out, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func parseWeights(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func joinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
