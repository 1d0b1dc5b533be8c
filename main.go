package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/profile"

	"github.com/df07/go-scattering/pkg/bxdf"
	"github.com/df07/go-scattering/pkg/config"
	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/furnace"
	"github.com/df07/go-scattering/pkg/material"
	"github.com/df07/go-scattering/pkg/scene"
)

// options holds the command line flags
type options struct {
	configPath string
	library    string
	materials  string
	samples    int
	workers    int
	seed       int64
	profile    string
	list       string
	lobesOnly  bool
	tolerance  float64
	help       bool
}

func parseFlags(args []string) (options, map[string]bool, error) {
	var opts options
	fs := flag.NewFlagSet("go-scattering", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "hjson config file")
	fs.StringVar(&opts.library, "library", "", "Material library (.pbrt); empty uses the built-in library")
	fs.StringVar(&opts.materials, "materials", "", "Comma-separated material names; empty inspects all")
	fs.IntVar(&opts.samples, "samples", 0, "Furnace samples per material and angle")
	fs.IntVar(&opts.workers, "workers", 0, "Number of workers (0 = one per CPU)")
	fs.Int64Var(&opts.seed, "seed", 0, "Random seed")
	fs.StringVar(&opts.profile, "profile", "", "Profile mode: 'cpu' or 'mem'")
	fs.StringVar(&opts.list, "list", "", "List material libraries in a directory and exit")
	fs.BoolVar(&opts.lobesOnly, "lobes", false, "Print lobes without running the furnace")
	fs.Float64Var(&opts.tolerance, "tolerance", 0.02, "Albedo above 1 allowed before reporting a violation")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if opts.help {
		fmt.Println("go-scattering: inspect material scattering functions")
		fmt.Println("Usage: go-scattering [options]")
		fmt.Println()
		fmt.Println("Options:")
		fs.SetOutput(os.Stdout)
		fs.PrintDefaults()
		fmt.Println()
		fmt.Println("Prints the lobes of each material, then estimates its directional")
		fmt.Println("albedo in a white furnace and reports values above 1.")
	}
	return opts, set, nil
}

// resolveConfig loads the config file, then applies flags that were set explicitly
func resolveConfig(opts options, set map[string]bool) (config.Config, error) {
	conf := config.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if conf, err = config.LoadConfig(opts.configPath); err != nil {
			return conf, err
		}
	}

	if set["library"] {
		conf.Library = opts.library
	}
	if set["materials"] {
		conf.Materials = splitNames(opts.materials)
	}
	if set["samples"] {
		conf.Samples = opts.samples
	}
	if set["workers"] {
		conf.Workers = opts.workers
	}
	if set["seed"] {
		conf.Seed = opts.seed
	}
	if set["profile"] {
		conf.Profile = opts.profile
	}
	return conf, conf.Validate()
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func loadLibrary(path string, logger core.Logger) (*scene.Library, error) {
	if path == "" {
		return scene.NewBuiltinLibrary(logger)
	}
	return scene.LoadLibrary(path, logger)
}

// selectMaterials returns the named materials, or all of them in library order
func selectMaterials(lib *scene.Library, names []string) ([]material.Material, error) {
	if len(names) == 0 {
		names = lib.Names()
	}
	materials := make([]material.Material, 0, len(names))
	for _, name := range names {
		mat, ok := lib.Material(name)
		if !ok {
			return nil, fmt.Errorf("material %q not found in library", name)
		}
		materials = append(materials, mat)
	}
	return materials, nil
}

// printLobes writes the lobes each material produces at normal incidence
func printLobes(w io.Writer, materials []material.Material) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Material", "Type", "Lobes", "Eta", "BSSRDF"})
	table.SetAutoWrapText(false)
	for _, mat := range materials {
		sf := mat.ComputeScatteringFunctions(furnace.Interaction(0), bxdf.Radiance, true)
		lobes := make([]string, 0, len(sf.BSDF.Kinds()))
		for _, kind := range sf.BSDF.Kinds() {
			lobes = append(lobes, kind.String())
		}
		if len(lobes) == 0 {
			lobes = append(lobes, "none")
		}
		bssrdf := "no"
		if sf.BSSRDF != nil {
			bssrdf = "yes"
		}
		table.Append([]string{
			mat.Name(),
			mat.Type().String(),
			strings.Join(lobes, " + "),
			fmt.Sprintf("%.3f", sf.BSDF.Eta),
			bssrdf,
		})
	}
	table.Render()
}

func printLibraries(w io.Writer, dir string) error {
	libraries, err := scene.ListLibraries(dir)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Group", "Description", "File"})
	table.SetAutoWrapText(false)
	for _, info := range libraries {
		table.Append([]string{info.ID, info.Name, info.Group, info.Description, info.FilePath})
	}
	table.Render()
	return nil
}

func run(args []string) int {
	opts, set, err := parseFlags(args)
	if err != nil {
		return 2
	}
	if opts.help {
		return 0
	}

	if set["list"] {
		if err := printLibraries(os.Stdout, opts.list); err != nil {
			fmt.Printf("Error listing libraries: %v\n", err)
			return 1
		}
		return 0
	}

	conf, err := resolveConfig(opts, set)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	switch conf.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	logger := core.NewDefaultLogger()
	startTime := time.Now()
	lib, err := loadLibrary(conf.Library, logger)
	if err != nil {
		fmt.Printf("Error loading library: %v\n", err)
		return 1
	}
	materials, err := selectMaterials(lib, conf.Materials)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded %d materials in %v\n", len(materials), time.Since(startTime))

	printLobes(os.Stdout, materials)
	if opts.lobesOnly {
		return 0
	}

	startTime = time.Now()
	report := furnace.Run(materials, furnace.Config{
		Samples: conf.Samples,
		Workers: conf.Workers,
		Seed:    conf.Seed,
		Angles:  conf.Angles,
		Logger:  logger,
	})
	fmt.Printf("Furnace completed in %v\n", time.Since(startTime))
	report.Table(os.Stdout)

	violations := report.Violations(opts.tolerance)
	for _, v := range violations {
		fmt.Printf("Warning: %s scatters %.4f at %.0f degrees\n", v.Material, v.Stats.Albedo().MaxComponent(), v.Theta)
	}
	if len(violations) > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}
