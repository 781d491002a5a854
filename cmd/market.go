package cmd

import (
	"github.com/huangsam/skillspot/core"
	"github.com/spf13/cobra"
)

// salaryCmd describes the salary distribution.
var salaryCmd = &cobra.Command{
	Use:   "salary [skill]",
	Short: "Describe the salary distribution for a skill or location.",
	Long: `Summarize annualized salaries with mean, median, quartiles and a histogram.

Hourly, weekly and monthly pay is converted to a yearly figure first. Use
--skill and --location to narrow the observations; with neither, the whole
market is described. Fewer than two observations give an insufficient data
result rather than an error.

Examples:
  # Salaries for Python roles
  skillspot salary python

  # Salaries in Texas for SQL
  skillspot salary --skill sql --location TX`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("salary query", core.ExecuteSalary),
}

// cooccurCmd lists the skills asked for together with a skill.
var cooccurCmd = &cobra.Command{
	Use:   "cooccur [skill]",
	Short: "Show the skills most often requested together with a skill.",
	Long: `Count how many postings ask for each other skill alongside the given one.

Use --min-connections to hide weak pairings.

Examples:
  # What goes with Kubernetes?
  skillspot cooccur kubernetes --limit 10

  # Only strong pairings
  skillspot cooccur --skill python --min-connections 25`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("co-occurrence query", core.ExecuteCoOccurrence),
}

// networkCmd builds the skill co-occurrence graph.
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build the co-occurrence network of the most common skills.",
	Long: `Take the --max-nodes most requested skills and connect every pair that
appears in the same postings, weighted by the number of shared postings.

The JSON and YAML output can be fed into graph tools directly.

Examples:
  # Network of the top 20 skills
  skillspot network --output json

  # Smaller graph of well established skills
  skillspot network --max-nodes 10 --min-count 100`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("network query", core.ExecuteNetwork),
}

// overviewCmd summarizes the whole market.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize jobs, companies, skills, salaries and industries.",
	Long: `Print headline numbers for the dataset: total and active postings, work
types, company counts, skill coverage, salary medians and top industries.

Examples:
  skillspot overview
  skillspot overview --output yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("market overview", core.ExecuteOverview),
}

// locationsCmd ranks cities.
var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Rank cities by posting count.",
	Long: `Rank cities by the number of postings, with their remote share and median salary.

Examples:
  skillspot locations --limit 15`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("location insights", core.ExecuteLocations),
}

// companiesCmd ranks hiring companies.
var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Rank companies by active postings.",
	Long: `Rank companies by active postings with their size, followers and most requested skills.

Examples:
  skillspot companies --limit 25 --output csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("company insights", core.ExecuteCompanies),
}

// benefitsCmd ranks the benefits offered in postings.
var benefitsCmd = &cobra.Command{
	Use:   "benefits",
	Short: "Rank the benefits offered in postings.",
	Long: `Count how many postings offer each benefit. Shares are relative to the
postings that list at least one benefit. Benefits inferred from the posting
text rather than stated are counted too and reported separately.

Examples:
  skillspot benefits --limit 10`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor("benefits query", core.ExecuteBenefits),
}
