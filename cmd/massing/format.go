package main

import (
	"fmt"

	"github.com/ChicagoDave/massing/pkg/analytics"
	"github.com/ChicagoDave/massing/pkg/carbon"
	"github.com/ChicagoDave/massing/pkg/cost"
	"github.com/ChicagoDave/massing/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(e)
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			printResult(w)
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(res validation.Result) {
	fmt.Printf("  [%s] %s\n", res.Level, res.Message)
	if res.Field != "" && res.ActualValue != nil {
		fmt.Printf("    -> %s = %v\n", res.Field, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Printf("    expected: %s\n", res.Expected)
	}
	if res.ConflictWith != "" {
		fmt.Printf("    conflicts with: %s\n", res.ConflictWith)
	}
}

func printPanel(items []analytics.DataItem) {
	fmt.Println("Data")
	fmt.Println("----")
	for _, item := range items {
		if item.Value == nil {
			fmt.Printf("  %s\n", item.Label)
			continue
		}
		fmt.Printf("  %-36s %s\n", item.Label+":", formatValue(*item.Value, item.Suffix))
	}
}

func formatValue(v float64, suffix string) string {
	switch suffix {
	case "$":
		return "$" + formatMoney(v)
	case "":
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.1f %s", v, suffix)
	}
}

func printOutcome(o carbon.Outcome) {
	switch o.Status {
	case carbon.StatusAvailable:
		fmt.Printf("%-36s %.1f\n", analytics.LabelEmbodiedCarbon+":", o.Estimate.CO2ePerSquareMeter)
		fmt.Printf("%-36s %.1f\n", analytics.LabelWarmingPotential+":", o.Estimate.WarmingPotential)
	case carbon.StatusFailed:
		fmt.Printf("%s: %s\n", analytics.LabelEstimateFailed, o.Reason)
	default:
		fmt.Println(analytics.LabelNoToken)
	}
}

func printCostReport(r *cost.Report) {
	if r == nil {
		fmt.Println("No cost estimate available.")
		return
	}

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Println()

	b := r.Estimate
	rows := []struct {
		label string
		val   float64
	}{
		{"Substructure", b.Substructure},
		{"Structure", b.Structure},
		{"Glazing", b.Glazing},
		{"Facade", b.Facade},
		{"Fit-out", b.FitOut},
		{"TOTAL", b.Total},
	}
	for _, row := range rows {
		fmt.Printf("  %-18s %14s\n", row.label, formatMoney(row.val))
	}

	fmt.Println()
	fmt.Printf("  Total construction:     $%s\n", formatMoney(r.Summary.TotalConstruction))
	fmt.Printf("  Per m² GIA:             $%s\n", formatMoney(r.Summary.PerM2GIA))
	fmt.Printf("  Annual debt service:    $%s\n", formatMoney(r.Summary.AnnualDebtService))
}

func formatMoney(v float64) string {
	if v >= 1_000_000_000 {
		return fmt.Sprintf("%.2fB", v/1_000_000_000)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("%.2fM", v/1_000_000)
	}
	if v >= 1_000 {
		return fmt.Sprintf("%.0fK", v/1_000)
	}
	return fmt.Sprintf("%.0f", v)
}
