package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
	"github.com/vladimiradmaev/glucose-diary/internal/config"
	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/logger"
	"github.com/vladimiradmaev/glucose-diary/internal/reports"
	"github.com/vladimiradmaev/glucose-diary/internal/repository"
	"github.com/vladimiradmaev/glucose-diary/internal/services"
)

// Export formats
const (
	formatText  = "text"
	formatChart = "chart"
	formatExcel = "excel"
)

var validFormats = []string{formatText, formatChart, formatExcel}

type exportOptions struct {
	UserID int64
	Year   int
	Month  int
	Format string
	Output string
}

// monthlyTests is the part of the glucose service the exporter reads from
type monthlyTests interface {
	MonthlyTests(ctx context.Context, userID int64, year, month int) ([]domain.GlucoseTest, error)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export-report",
		Short: "Export a monthly glucose report",
		Long: `Export the glucose tests of one Jalali month for a user.

Formats:
  text   - plain text report (default)
  chart  - PNG line chart
  excel  - XLSX spreadsheet

Example:
  export-report --user 123456 --year 1403 --month 1 --format excel --out farvardin.xlsx`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				logger.Debug(".env file not found, using environment")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			conv, err := calendar.LoadConverter(cfg.Timezone)
			if err != nil {
				return fmt.Errorf("invalid timezone: %w", err)
			}

			repos, err := repository.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to open storage: %w", err)
			}
			defer repos.Close()

			svc := services.NewGlucoseService(repos.Tests, nil, conv)
			data, count, err := export(cmd.Context(), svc, reports.NewRenderer(conv), opts)
			if err != nil {
				return err
			}
			return write(cmd, opts.Output, data, count)
		},
	}

	cmd.Flags().Int64Var(&opts.UserID, "user", 0, "telegram user id")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Jalali year, e.g. 1403")
	cmd.Flags().IntVar(&opts.Month, "month", 0, "Jalali month (1-12)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", formatText, "report format ("+strings.Join(validFormats, ", ")+")")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}

func (o *exportOptions) validate() error {
	o.Format = strings.ToLower(o.Format)
	if !lo.Contains(validFormats, o.Format) {
		return fmt.Errorf("invalid format: %s (valid options: %s)", o.Format, strings.Join(validFormats, ", "))
	}
	if o.UserID == 0 {
		return fmt.Errorf("--user is required")
	}
	if o.Year <= 0 {
		return fmt.Errorf("invalid year: %d", o.Year)
	}
	if !calendar.ValidMonth(o.Month) {
		return fmt.Errorf("invalid month: %d (must be 1-12)", o.Month)
	}
	if o.Format != formatText && o.Output == "" {
		return fmt.Errorf("--out is required for %s output", o.Format)
	}
	return nil
}

// export renders the report and returns its bytes with the number of tests
func export(ctx context.Context, svc monthlyTests, r *reports.Renderer, opts exportOptions) ([]byte, int, error) {
	tests, err := svc.MonthlyTests(ctx, opts.UserID, opts.Year, opts.Month)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load tests: %w", err)
	}

	switch opts.Format {
	case formatText:
		label := fmt.Sprintf("%s (%s)", reports.LabelMonthly, calendar.MonthName(opts.Month))
		return []byte(r.Text(tests, label)), len(tests), nil
	case formatChart:
		return artifactBytes(r.Chart(tests), len(tests))
	case formatExcel:
		return artifactBytes(r.Spreadsheet(tests), len(tests))
	default:
		return nil, 0, fmt.Errorf("invalid format: %s", opts.Format)
	}
}

func artifactBytes(a reports.Artifact, count int) ([]byte, int, error) {
	switch a.Outcome {
	case reports.OutcomeReady:
		return a.Data, count, nil
	case reports.OutcomeEmpty:
		return nil, 0, fmt.Errorf("no tests recorded in this month")
	default:
		return nil, 0, fmt.Errorf("rendering failed: %w", a.Err)
	}
}

func write(cmd *cobra.Command, path string, data []byte, count int) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Export completed successfully:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Output file: %s\n", path)
	fmt.Fprintf(cmd.OutOrStdout(), "  Records exported: %d\n", count)
	fmt.Fprintf(cmd.OutOrStdout(), "  File size: %d bytes\n", len(data))
	return nil
}
