package cmd

import (
	"github.com/huangsam/skillspot/core"
	"github.com/spf13/cobra"
)

// skillsCmd ranks skills across the whole dataset.
var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show the top skills ranked by demand.",
	Long: `Rank every skill in the dataset by posting count, hotness or growth.

Hotness combines four signals into a 0-100 score:
- Volume - how many postings ask for the skill
- Growth - how fast postings grew over the trailing window
- Salary premium - how much more the skill pays than the market median
- Demand gap - how far demand outpaces supply (when provided)

Each signal is normalized against all skills before weighting, so a skill
is only hot relative to the rest of the market. Run 'skillspot metrics'
for the exact formula.

Examples:
  # Most requested skills
  skillspot skills --limit 20

  # Hottest skills with the signal breakdown in JSON
  skillspot skills --sort hotness --output json

  # Fastest growing skills exported to CSV
  skillspot skills --sort growth --output csv --output-file growth.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("top skills query", core.ExecuteTopSkills),
}

// trendingCmd finds the skills growing faster than a threshold.
var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show skills whose demand is growing fastest.",
	Long: `Find skills whose monthly posting count grew by more than --min-growth percent
between the first and last month of the trailing --window.

Skills with no postings in the first month have no defined growth and are
left out. Results are labeled HOT, UP or RISING by hotness and growth.

Examples:
  # Skills that grew more than 10% over the last 6 months
  skillspot trending

  # Strong growth over a full year
  skillspot trending --window 12 --min-growth 50`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("trending query", core.ExecuteTrending),
}

// compareCmd puts skills side by side.
var compareCmd = &cobra.Command{
	Use:   "compare <skill> [skill...]",
	Short: "Compare skills side by side.",
	Long: `Compare demand, growth, salary and hotness for a chosen set of skills.

Hotness is scored within the compared set only, so the top skill of the set
always reaches the highest score. Skills may be given as separate arguments
or as a comma-separated list. Unknown skills are reported with zero values.

Examples:
  # Compare three languages
  skillspot compare go rust python

  # Same thing as a single list
  skillspot compare "go, rust, python" --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("skill comparison", core.ExecuteCompare),
}

// forecastCmd predicts future demand for a skill.
var forecastCmd = &cobra.Command{
	Use:   "forecast [skill]",
	Short: "Forecast monthly demand for a skill.",
	Long: `Send the real monthly posting history of a skill to the configured
forecaster and show the predicted counts with their bounds.

At least 6 months of history are required. The forecaster is called once
with a timeout of --forecast-timeout and is never retried.

Backends:
  linear - built-in least squares trend (default)
  exec   - run --forecast-command with the request on stdin
  nats   - request/reply on --forecast-subject
  none   - report that forecasting is unavailable

Examples:
  # Forecast Python demand for the next 6 months
  skillspot forecast python

  # Use an external model over NATS
  skillspot forecast --skill go --periods 12 --forecast-backend nats --nats-url nats://localhost:4222`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("forecast", core.ExecuteForecast),
}

// occupationsCmd ranks job titles the way skillsCmd ranks skills.
var occupationsCmd = &cobra.Command{
	Use:   "occupations",
	Short: "Show the top occupations ranked by demand.",
	Long: `Rank the job titles of active postings by posting count, hotness or growth.

Titles are grouped case-insensitively and shown in their most common spelling.
Hotness is scored across all titles with the same four signals as skills.
Unless demand gaps are loaded for titles, the demand gap is each title's share
of the busiest title.

Examples:
  # Most common roles
  skillspot occupations --limit 15

  # Hottest roles in JSON
  skillspot occupations --sort hotness --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("top occupations query", core.ExecuteOccupations),
}

// forecastTopCmd forecasts the busiest skills in one go.
var forecastTopCmd = &cobra.Command{
	Use:   "forecast-top",
	Short: "Forecast monthly demand for the most requested skills.",
	Long: `Forecast the --limit skills with the most postings (at most 20), calling the
forecaster for up to four skills at a time.

A skill that cannot be forecast, for example because it has less than 6
months of history, is reported as skipped and does not fail the batch.

Examples:
  # Next 6 months for the top 10 skills
  skillspot forecast-top --limit 10

  # A full year for the top 5 as YAML
  skillspot forecast-top --limit 5 --periods 12 --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("batch forecast", core.ExecuteForecastTop),
}

// salaryTrendCmd forecasts the median salary of a skill.
var salaryTrendCmd = &cobra.Command{
	Use:   "salary-trend [skill]",
	Short: "Forecast the median salary of a skill.",
	Long: `Build the monthly median annualized salary of a skill from its postings and
send it to the configured forecaster.

Months without a salary observation are skipped, so at least 6 months with
salaries are required. The summary line covers every salary of the skill.

Examples:
  skillspot salary-trend python
  skillspot salary-trend --skill go --periods 12 --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("salary trend", core.ExecuteSalaryTrend),
}
