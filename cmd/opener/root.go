package main

import (
	"encoding/json"
	"fmt"

	"github.com/BerylCAtieno/sales-opener-agent/internal/logging"
	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/spf13/cobra"
)

type openerFlags struct {
	name        string
	role        string
	market      string
	language    string
	seed        int64
	profile     string
	separator   string
	noSignature bool
	noIntro     bool
	asJSON      bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	var f openerFlags

	cmd := &cobra.Command{
		Use:   "opener",
		Short: "Compose a persona-voiced opening message for a sales contact",
		Example: `  opener --name Tiago --role marmorista --market BR --seed 111
  opener --role distributor --market US --json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "contact name")
	flags.StringVar(&f.role, "role", string(models.RoleProspect), "contact role (prospect, marmorista, distribuidor, arquiteto, fabricator, ...)")
	flags.StringVar(&f.market, "market", models.DefaultMarket, "market code (BR, US, LATAM, EU, ...)")
	flags.StringVar(&f.language, "language", "", "language override (pt, en, es); defaults to the market's language")
	flags.Int64Var(&f.seed, "seed", 0, "seed for reproducible output; random when not set")
	flags.StringVar(&f.profile, "profile", "", "profile document (.json, .yaml); built-in profile when empty")
	flags.StringVar(&f.separator, "separator", persona.DefaultSeparator, "string placed between fragments")
	flags.BoolVar(&f.noSignature, "no-signature", false, "leave out the signature phrase")
	flags.BoolVar(&f.noIntro, "no-intro", false, "leave out the self-introduction for prospects")
	flags.BoolVar(&f.asJSON, "json", false, "print the message and its metadata as JSON")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "log composition details to stderr")

	return cmd
}

func run(cmd *cobra.Command, f openerFlags) error {
	level := "warn"
	if f.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts := []persona.Option{persona.WithSeparator(f.separator), persona.WithLogger(logger)}
	var gen *persona.Generator
	if f.profile != "" {
		gen, err = persona.NewGenerator(f.profile, opts...)
		if err != nil {
			return err
		}
	} else {
		p, err := persona.DefaultProfile()
		if err != nil {
			return err
		}
		gen = persona.NewGeneratorFromProfile(p, opts...)
	}

	genOpts := persona.GenerateOptions{
		SkipSignaturePhrase: f.noSignature,
		SkipProspectIntro:   f.noIntro,
	}
	if cmd.Flags().Changed("seed") {
		seed := f.seed
		genOpts.Seed = &seed
	}

	contact := models.Contact{
		Name:     f.name,
		Role:     models.Role(f.role),
		Market:   f.market,
		Language: f.language,
	}
	out, err := gen.Generate(contact, genOpts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}
	_, err = fmt.Fprintln(w, out.Message)
	return err
}
