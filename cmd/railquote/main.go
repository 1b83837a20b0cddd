// Command railquote prices a railing design without the GUI and writes the
// same documents the desktop app exports.
//
//	railquote -model flatbar-pipe -set totalL=4200 -set height=1000 -pdf quote.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/piwi3910/RailCraft/internal/engine"
	"github.com/piwi3910/RailCraft/internal/export"
	"github.com/piwi3910/RailCraft/internal/gcode"
	"github.com/piwi3910/RailCraft/internal/geometry"
	"github.com/piwi3910/RailCraft/internal/model"
	"github.com/piwi3910/RailCraft/internal/monitoring"
	"github.com/piwi3910/RailCraft/internal/pricetable"
	"github.com/piwi3910/RailCraft/internal/project"
	"github.com/piwi3910/RailCraft/internal/quote"
)

// paramFlags collects repeated -set name=value flags.
type paramFlags model.MapSource

func (p paramFlags) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (p paramFlags) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("want name=value, got %q", s)
	}
	p[strings.TrimSpace(name)] = value
	return nil
}

type options struct {
	configPath string
	variant    string
	workbook   string
	step       int
	priced     bool
	asJSON     bool
	quiet      bool
	params     paramFlags

	pdfPath    string
	labelsPath string
	xlsxPath   string
	dxfPath    string
	gcodePath  string
}

func parseFlags(args []string) (options, error) {
	opts := options{params: paramFlags{}}
	fs := flag.NewFlagSet("railquote", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "application config file")
	fs.StringVar(&opts.variant, "model", "", "model code (default from config): "+variantCodes())
	fs.StringVar(&opts.workbook, "workbook", "", "price workbook (.xlsx), overrides the config")
	fs.IntVar(&opts.step, "step", -1, "build step preset, -1 for the model's initial parts")
	fs.BoolVar(&opts.priced, "quote", true, "load the price table and print the quote")
	fs.BoolVar(&opts.asJSON, "json", false, "print the quote as JSON")
	fs.BoolVar(&opts.quiet, "q", false, "no diagnostic logging")
	fs.Var(opts.params, "set", "parameter as name=value (repeatable)")
	fs.StringVar(&opts.pdfPath, "pdf", "", "write the quote PDF")
	fs.StringVar(&opts.labelsPath, "labels", "", "write the cut label sheet PDF")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "write the BOM workbook")
	fs.StringVar(&opts.dxfPath, "dxf", "", "write the elevation DXF")
	fs.StringVar(&opts.gcodePath, "gcode", "", "write the base plate drilling program")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if !opts.priced && (opts.pdfPath != "" || opts.labelsPath != "" || opts.xlsxPath != "" || opts.asJSON) {
		return opts, fmt.Errorf("-pdf, -labels, -xlsx and -json need a quote")
	}
	return opts, nil
}

func variantCodes() string {
	codes := make([]string, len(model.Variants))
	for i, v := range model.Variants {
		codes[i] = string(v)
	}
	return strings.Join(codes, ", ")
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "railquote:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.quiet {
		monitoring.SetLogger(nil)
	} else {
		monitoring.SetLogger(log.New(os.Stderr, "", log.LstdFlags).Printf)
	}

	cfg, err := project.LoadAppConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.workbook != "" {
		cfg.PriceWorkbook = opts.workbook
	}

	v := cfg.DefaultVariant
	if opts.variant != "" {
		var ok bool
		if v, ok = model.ParseVariant(opts.variant); !ok {
			return fmt.Errorf("unknown model %q (want %s)", opts.variant, variantCodes())
		}
	}

	vis := model.NewVisibility(v)
	if opts.step >= 0 {
		vis = vis.WithStep(opts.step)
	}
	src := model.MapSource(opts.params)
	if _, ok := src[model.FieldColor]; !ok {
		src[model.FieldColor] = cfg.DefaultColor
	}
	d := model.ReadDesign(v, src, vis)

	scene, l := geometry.BuildDesign(d)
	monitoring.Logf("railquote: %s, %d sections, %d primitives", v, l.NumSections, scene.Len())

	if opts.dxfPath != "" {
		if err := export.ExportElevationDXF(opts.dxfPath, scene); err != nil {
			return err
		}
		monitoring.Logf("railquote: wrote %s", opts.dxfPath)
	}
	if opts.gcodePath != "" {
		plate, ok := gcode.PlateFor(d, l)
		if !ok {
			return fmt.Errorf("%s has no drilled base plates", v)
		}
		profiles, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
		if err != nil {
			monitoring.Logf("railquote: %v", err)
		}
		code := gcode.NewWithProfiles(cfg.Drill, profiles).GenerateBasePlate(plate)
		if err := os.WriteFile(opts.gcodePath, []byte(code), 0o644); err != nil {
			return err
		}
		monitoring.Logf("railquote: wrote %s", opts.gcodePath)
	}

	if !opts.priced {
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	client := pricetable.NewClient(pricetable.SourceFor(cfg, &http.Client{Timeout: 20 * time.Second}))
	table, err := client.Load(loadCtx)
	if err != nil {
		return err
	}
	q, err := quote.New(table).Calculate(d)
	if err != nil {
		return err
	}
	plan := engine.New(engine.SettingsFromConfig(cfg, q.StockLength)).PlanQuote(q)

	if opts.pdfPath != "" {
		if err := export.ExportQuotePDF(opts.pdfPath, q, &plan); err != nil {
			return err
		}
		monitoring.Logf("railquote: wrote %s", opts.pdfPath)
	}
	if opts.labelsPath != "" {
		if err := export.ExportCutLabels(opts.labelsPath, q.ID, plan); err != nil {
			return err
		}
		monitoring.Logf("railquote: wrote %s", opts.labelsPath)
	}
	if opts.xlsxPath != "" {
		if err := export.ExportBOMWorkbook(opts.xlsxPath, q, &plan); err != nil {
			return err
		}
		monitoring.Logf("railquote: wrote %s", opts.xlsxPath)
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Quote model.Quote   `json:"quote"`
			Plan  model.CutPlan `json:"cut_plan"`
		}{q, plan})
	}
	return printQuote(stdout, q, plan)
}

func printQuote(w io.Writer, q model.Quote, plan model.CutPlan) error {
	s := q.Summary
	fmt.Fprintf(w, "Quote %s  %s  %.0f x %.0f mm, %d sections, %d posts\n\n",
		q.ID, q.Model, s.Length, s.Height, s.Sections, s.PostCount)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Item\tStock\tLength\tQty\tCost\t")
	for _, l := range q.BOM {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%d\t%s\t\n", l.Label, l.StockCode, l.Length, l.Quantity, export.FormatWon(l.Cost))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := q.Pricing
	fmt.Fprintf(w, "\nMaterial  %s\nLabor     %s (%.0f min)\nOverhead  %s\nSupply    %s\nVAT       %s\nTotal     %s\n",
		export.FormatWon(p.MaterialCost), export.FormatWon(p.LaborCost), q.Process.LaborMinutes,
		export.FormatWon(p.OverheadCost), export.FormatWon(p.SupplyPrice),
		export.FormatWon(p.VAT), export.FormatWon(p.Total))

	fmt.Fprintf(w, "\nCut plan: %d bars, %.1f%% used", len(plan.Bars), plan.TotalEfficiency())
	if len(plan.Unplaced) > 0 {
		fmt.Fprintf(w, ", %d pieces longer than a bar", len(plan.Unplaced))
	}
	_, err := fmt.Fprintln(w)
	return err
}
