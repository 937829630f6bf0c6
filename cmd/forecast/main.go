// Command forecast prints a scenario projection as a terminal table.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"revforecast-api/internal/models"
	"revforecast-api/internal/presets"
	"revforecast-api/internal/projection"
	"revforecast-api/pkg/report"
)

func main() {
	presetName := flag.String("preset", "dashboard", "preset to start from")
	presetsFile := flag.String("presets", "", "YAML presets file (built-in set when empty)")
	start := flag.Float64("start", 0, "custom mix percentage in year 1")
	target := flag.Float64("target", 0, "custom mix percentage in the final year")
	years := flag.Int("years", 0, "projection horizon in years")
	compare := flag.Bool("compare", false, "also show the change against an unshifted mix")
	list := flag.Bool("list", false, "list presets and exit")
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)

	catalog, err := presets.Load(*presetsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load presets")
	}

	if *list {
		for _, p := range catalog.All() {
			fmt.Printf("%-18s %s\n", p.Name, p.Description)
		}
		return
	}

	preset, err := catalog.Get(*presetName)
	if err != nil {
		log.WithError(err).Fatal("Unknown preset")
	}
	req := preset.Request()

	// Flags left at their defaults keep the preset's values
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			req.Config.StartMixCustomPct = *start
			req.MixCurve = nil
		case "target":
			req.Config.TargetMixCustomPct = *target
			req.MixCurve = nil
		case "years":
			req.Config.HorizonYears = *years
			req.MixCurve = nil
		}
	})

	p, err := projection.ProjectRequest(req)
	if err != nil {
		log.WithError(err).Fatal("Projection failed")
	}

	fmt.Println(report.Table(p))
	if len(p.Warnings) > 0 {
		fmt.Println(report.Warnings(p))
	}

	if *compare {
		cmp, err := projection.CompareShift(req)
		if err != nil {
			log.WithError(err).Fatal("Comparison failed")
		}
		printComparison(cmp)
	}
}

func printComparison(cmp models.Comparison) {
	fmt.Println("Change against an unshifted mix:")
	for _, d := range cmp.Deltas {
		fmt.Printf("  year %d  revenue %s  profit %s\n",
			d.Year, report.Currency(d.RevenueDelta), report.Currency(d.ProfitDelta))
	}
	fmt.Printf("  total   revenue %s  profit %s\n",
		report.Currency(cmp.TotalRevenueDelta), report.Currency(cmp.TotalProfitDelta))
}
