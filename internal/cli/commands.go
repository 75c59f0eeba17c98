package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"trainload/internal/analysis"
	"trainload/internal/config"
	"trainload/internal/service"
	"trainload/internal/store"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example config file.",
		Long: `Write the default configuration to ~/.trainload/config.json (or the
--config path). An existing file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.CreateExample(a.configPath)
			if err != nil {
				return fmt.Errorf("creating example config: %w", err)
			}
			cmd.Printf("Config file: %s\n", path)
			cmd.Println("Set athlete.max_hr (or athlete.age) and athlete.resting_hr for accurate training load.")
			return nil
		},
	}
}

func (a *app) readinessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readiness",
		Short: "Show today's readiness, recovery status and training load.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				r, err := q.Readiness(cmd.Context())
				if err != nil {
					return err
				}
				return out.Readiness(r)
			})
		},
	}
}

func (a *app) trendCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily fitness, fatigue and form.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				trend, err := q.FitnessTrend(cmd.Context(), days)
				if err != nil {
					return err
				}
				return out.Trend(trend)
			})
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 14, "number of days ending today")
	return cmd
}

func (a *app) workoutsCmd() *cobra.Command {
	var opts store.ListOptions
	cmd := &cobra.Command{
		Use:   "workouts",
		Short: "List stored workouts, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}
			return a.withService(func(q *service.QueryService) error {
				page, err := q.ListWorkouts(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return out.Workouts(page)
			})
		},
	}
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", service.DefaultListLimit, "maximum number of workouts")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of workouts to skip")
	cmd.Flags().StringVarP(&opts.WorkoutType, "type", "t", "", "only list this workout type")
	return cmd
}

func (a *app) workoutCmd() *cobra.Command {
	var segmentMode string
	cmd := &cobra.Command{
		Use:   "workout <id>",
		Short: "Analyze one workout: zones, elevation and splits.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workout id %q", args[0])
			}
			mode, err := analysis.ParseSegmentMode(segmentMode)
			if err != nil {
				return err
			}
			out, err := a.reporter(cmd)
			if err != nil {
				return err
			}

			return a.withService(func(q *service.QueryService) error {
				detail, err := q.WorkoutDetail(cmd.Context(), id)
				if err != nil {
					return err
				}
				if mode != detail.Segments.Mode {
					report, err := q.Segments(cmd.Context(), id, mode)
					if err != nil {
						return err
					}
					detail.Segments = *report
				}
				return out.WorkoutDetail(detail)
			})
		},
	}
	cmd.Flags().StringVarP(&segmentMode, "splits", "s", string(analysis.SegmentByDistance), "split by distance or time")
	return cmd
}
