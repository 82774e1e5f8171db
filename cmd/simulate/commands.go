package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simaogato/wealthflow-risk/internal/domain"
	"github.com/simaogato/wealthflow-risk/internal/logging"
	"github.com/simaogato/wealthflow-risk/internal/usecase/catalog"
	"github.com/simaogato/wealthflow-risk/internal/usecase/simulation"
)

type runOptions struct {
	initial       string
	monthly       string
	months        int
	configFile    string
	scenariosFile string
	seed          uint64
	simulations   int
	goal          string
	baseline      string
	confidence    float64
	period        int
	noVolatility  bool
	noInflation   bool
	noMonteCarlo  bool
	noBacktest    bool
	noCorrelation bool
	output        string
	logLevel      string
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:          "simulate",
		Short:        "Scenario simulation and risk analysis for a savings plan",
		SilenceUsage: true,
	}
	root.SetOut(out)

	root.AddCommand(newRunCmd(), newScenariosCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis and print the report",
		Example: `  simulate run --initial 10000 --monthly 500 --months 120
  simulate run --initial 10000 --monthly 500 --months 12 --seed 42 --goal 20000 --output table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.initial, "initial", "0", "initial capital")
	flags.StringVar(&opts.monthly, "monthly", "0", "monthly contribution")
	flags.IntVar(&opts.months, "months", 12, "horizon in months")
	flags.StringVar(&opts.configFile, "config", "", "JSON simulation config file; flags override it")
	flags.StringVar(&opts.scenariosFile, "scenarios-file", "", "YAML file with extra scenarios")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed (default: fresh seed per run)")
	flags.IntVar(&opts.simulations, "simulations", domain.DefaultNumberOfSimulations, "number of Monte Carlo paths")
	flags.StringVar(&opts.goal, "goal", "", "goal value for the Monte Carlo goal probability")
	flags.StringVar(&opts.baseline, "baseline", domain.DefaultBaselineScenarioID, "Monte Carlo baseline scenario id")
	flags.Float64Var(&opts.confidence, "confidence", domain.DefaultConfidenceLevel, "VaR confidence level in percent")
	flags.IntVar(&opts.period, "analysis-period", 0, "months replacing the horizon when positive")
	flags.BoolVar(&opts.noVolatility, "no-volatility", false, "disable the stochastic term")
	flags.BoolVar(&opts.noInflation, "no-inflation", false, "ignore inflation in purchasing-power loss")
	flags.BoolVar(&opts.noMonteCarlo, "no-monte-carlo", false, "skip the Monte Carlo engine")
	flags.BoolVar(&opts.noBacktest, "no-backtest", false, "skip the historical backtest")
	flags.BoolVar(&opts.noCorrelation, "no-correlation", false, "skip the correlation analysis")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or table")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	return cmd
}

func newScenariosCmd() *cobra.Command {
	var scenariosFile string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenario catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogService, err := loadCatalog(scenariosFile, nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tIMPACT\tINFLATION\tREF RATE\tVOLATILITY\tWEIGHT")
			for _, sc := range catalogService.ListScenarios() {
				p := sc.Parameters
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.1f\n",
					sc.ID, sc.Name, sc.Impact, p.Inflation, p.ReferenceRate, p.Volatility, sc.ProbabilityWeight)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&scenariosFile, "scenarios-file", "", "YAML file with extra scenarios")
	return cmd
}

func loadCatalog(path string, opts *runOptions) (*catalog.CatalogService, error) {
	var extensions []domain.EconomicScenario
	if path != "" {
		loaded, err := catalog.LoadScenarioFile(path)
		if err != nil {
			return nil, err
		}
		extensions = loaded
	}
	level := "warn"
	if opts != nil {
		level = opts.logLevel
	}
	return catalog.NewCatalogService(nil, logging.New(level, "text"), extensions...), nil
}

func runSimulation(cmd *cobra.Command, opts *runOptions) error {
	input, err := buildInput(opts)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	catalogService, err := loadCatalog(opts.scenariosFile, opts)
	if err != nil {
		return err
	}
	service := simulation.NewSimulationService(catalogService, nil, logging.New(opts.logLevel, "text"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := service.RunSimulation(ctx, input, cfg)
	if err != nil {
		return err
	}

	switch opts.output {
	case "table":
		return printTable(cmd.OutOrStdout(), report)
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}

func buildInput(opts *runOptions) (domain.SimulationInput, error) {
	initial, err := decimal.NewFromString(opts.initial)
	if err != nil {
		return domain.SimulationInput{}, fmt.Errorf("invalid --initial: %w", err)
	}
	monthly, err := decimal.NewFromString(opts.monthly)
	if err != nil {
		return domain.SimulationInput{}, fmt.Errorf("invalid --monthly: %w", err)
	}
	return domain.SimulationInput{
		InitialValue:        initial,
		MonthlyContribution: monthly,
		HorizonMonths:       opts.months,
	}, nil
}

// buildConfig starts from the config file (or defaults) and applies only the flags the user set
func buildConfig(cmd *cobra.Command, opts *runOptions) (domain.SimulationConfig, error) {
	cfg := domain.DefaultSimulationConfig()
	if opts.configFile != "" {
		data, err := os.ReadFile(opts.configFile)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err = domain.DecodeSimulationConfig(data)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := opts.seed
		cfg.Seed = &seed
	}
	if flags.Changed("simulations") {
		cfg.NumberOfSimulations = opts.simulations
	}
	if flags.Changed("goal") {
		goal, err := decimal.NewFromString(opts.goal)
		if err != nil {
			return cfg, fmt.Errorf("invalid --goal: %w", err)
		}
		cfg.GoalValue = &goal
	}
	if flags.Changed("baseline") {
		cfg.BaselineScenarioID = opts.baseline
	}
	if flags.Changed("confidence") {
		cfg.ConfidenceLevel = opts.confidence
	}
	if flags.Changed("analysis-period") {
		cfg.AnalysisPeriodMonths = opts.period
	}
	if opts.noVolatility {
		cfg.IncludeVolatility = false
	}
	if opts.noInflation {
		cfg.IncludeInflation = false
	}
	if opts.noMonteCarlo {
		cfg.IncludeMonteCarlo = false
	}
	if opts.noBacktest {
		cfg.IncludeBacktest = false
	}
	if opts.noCorrelation {
		cfg.IncludeCorrelation = false
	}
	return cfg, nil
}

func printTable(out io.Writer, report *domain.SimulationReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Seed\t%d\n", report.Seed)
	fmt.Fprintf(w, "Horizon\t%d months\n", report.Input.HorizonMonths)
	fmt.Fprintf(w, "Invested\t%s\n\n", report.Input.TotalInvested().StringFixed(2))

	fmt.Fprintln(w, "SCENARIO\tFINAL VALUE\tREAL RETURN %\tRISK\tVAR\tRECOMMENDATION")
	for _, r := range report.Results {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
			r.Scenario.Name, r.FinalValue, r.RealReturnPercent, r.RiskScore, r.ValueAtRisk, r.Recommendation)
	}

	st := report.StressTest
	fmt.Fprintf(w, "\nWorst case\t%s\t%.2f\n", st.WorstCase.Scenario.Name, st.WorstCase.FinalValue)
	fmt.Fprintf(w, "Best case\t%s\t%.2f\n", st.BestCase.Scenario.Name, st.BestCase.FinalValue)
	fmt.Fprintf(w, "Probability of loss\t%.2f%%\n", st.ProbabilityOfLossPercent)
	fmt.Fprintf(w, "Max drawdown\t%.2f%%\n", st.MaxDrawdownPercent)

	if mc := report.MonteCarlo; mc != nil {
		p := mc.Percentiles
		fmt.Fprintf(w, "\nMonte Carlo (%s, %d paths)\n", mc.BaselineScenarioID, mc.Simulations)
		fmt.Fprintf(w, "P5 / P50 / P95\t%.2f / %.2f / %.2f\n", p.P5, p.P50, p.P95)
		fmt.Fprintf(w, "Expected\t%.2f\n", mc.ExpectedValue)
		fmt.Fprintf(w, "Goal probability\t%.2f%%\n", mc.GoalProbabilityPercent)
	}

	if len(report.Backtest) > 0 {
		fmt.Fprintln(w, "\nPERIOD\tANNUALIZED %\tSHARPE\tDRAWDOWN %\tWIN RATE %")
		for _, b := range report.Backtest {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
				b.PeriodLabel, b.AnnualizedReturnPercent, b.SharpeRatio, b.MaxDrawdownPercent, b.WinRatePercent)
		}
	}

	if len(report.Correlations) > 0 {
		fmt.Fprintln(w, "\nPAIR\tCORRELATION\tBETA\tRISK")
		for _, c := range report.Correlations {
			fmt.Fprintf(w, "%s/%s\t%.2f\t%.2f\t%s\n", c.AssetA, c.AssetB, c.Correlation, c.Beta, c.RiskBucket)
		}
	}

	agg := report.AggregateMetrics
	fmt.Fprintf(w, "\nEfficiency\t%s (sharpe %.2f)\n", agg.EfficiencyLabel, agg.SharpeRatio)
	if len(report.MissingScenarioIDs) > 0 {
		fmt.Fprintf(w, "Missing scenarios\t%v\n", report.MissingScenarioIDs)
	}
	return w.Flush()
}
