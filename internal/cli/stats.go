package cli

import (
	"github.com/spf13/cobra"

	"trainload/internal/service"
)

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals, this month, the current streak and personal records.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				o, err := q.Overview(cmd.Context())
				if err != nil {
					return err
				}
				return out.Overview(o)
			})
		},
	}
}

func (a *app) weeklyCmd() *cobra.Command {
	var weeks int
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Summarize workouts, distance, time and TSS per week.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				summary, err := q.WeeklySummary(cmd.Context(), weeks)
				if err != nil {
					return err
				}
				return out.Weekly(summary)
			})
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "w", service.DefaultSummaryWeeks, "number of weeks ending with the current one")
	return cmd
}

func (a *app) calendarCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "List the days you trained.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				calendar, err := q.ContributionCalendar(cmd.Context(), days)
				if err != nil {
					return err
				}
				return out.Calendar(calendar)
			})
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "number of days ending today")
	return cmd
}
