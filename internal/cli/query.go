package cli

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"github.com/spf13/cobra"

	"popdash/internal/chart"
	"popdash/internal/engine"
)

func (a *app) topCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank countries by population in a year.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			year, err := yearFlag(cmd, t)
			if err != nil {
				return err
			}
			rows, err := t.TopNByYear(year, a.countFlag(cmd))
			if err != nil {
				return err
			}
			table.Fprint(cmd.OutOrStdout(), chart.RankedTable(rows))
			return nil
		},
	}
	cmd.Flags().String("year", "", "population `year` (default 2023)")
	cmd.Flags().IntP("count", "n", 0, "number of countries (default $POPDASH_TOP_N)")
	return cmd
}

func (a *app) sharesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shares",
		Short: "Print each country's share of the total area.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			shares, err := t.AreaShares()
			if err != nil {
				return err
			}
			table.Fprint(cmd.OutOrStdout(), chart.SharesTable(shares))
			return nil
		},
	}
}

func (a *app) seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print a country's population by year.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			series, err := t.SeriesForCountry(countryFlag(cmd, t), nil)
			if err != nil {
				return err
			}
			table.Fprint(cmd.OutOrStdout(), chart.SeriesTable(series))
			return nil
		},
	}
	cmd.Flags().String("country", "", "country `name` (default first row)")
	return cmd
}

func (a *app) distributionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Print a country's population by year label, with summary statistics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			d, err := t.DistributionForCountry(countryFlag(cmd, t), nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			table.Fprint(out, chart.DistributionTable(d))
			s := d.Summary
			fmt.Fprintf(out, "\nmean %.0f  std dev %.0f  min %.0f  max %.0f\n", s.Mean, s.StdDev, s.Min, s.Max)
			return nil
		},
	}
	cmd.Flags().String("country", "", "country `name` (default first row)")
	return cmd
}

func (a *app) choroplethCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "choropleth",
		Short: "Print the map column of a year with the labelled top countries.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			year, err := yearFlag(cmd, t)
			if err != nil {
				return err
			}
			v, err := t.ChoroplethSeries(year, a.countFlag(cmd))
			if err != nil {
				return err
			}
			table.Fprint(cmd.OutOrStdout(), chart.ChoroplethTable(v))
			return nil
		},
	}
	cmd.Flags().String("year", "", "population `year` (default 2023)")
	cmd.Flags().IntP("count", "n", 0, "number of labelled countries (default $POPDASH_TOP_N)")
	return cmd
}

func yearFlag(cmd *cobra.Command, t *engine.Table) (int, error) {
	if s := getString(cmd, "year"); s != "" {
		return engine.ParseYear(s)
	}
	return t.DefaultSelection().Year, nil
}

func countryFlag(cmd *cobra.Command, t *engine.Table) string {
	if s := getString(cmd, "country"); s != "" {
		return s
	}
	return t.DefaultSelection().Country
}

// countFlag keeps an explicit --count even when invalid, so the query
// reports InvalidN.
func (a *app) countFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("count") {
		return getInt(cmd, "count")
	}
	return a.cfg.TopN
}
