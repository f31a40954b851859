package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trezcool/hackadmin/apps"
	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/filter"
)

func (cli *commandLine) classementCmd() *cobra.Command {
	var bucketName, term string
	cmd := &cobra.Command{
		Use:     "classement EPREUVE_ID",
		Aliases: []string{"ranking"},
		Short:   "Show the team ranking of an exam",
		Args:    cobra.ExactArgs(1),
		RunE: cli.authed(func(cmd *cobra.Command, args []string) error {
			var bucket filter.Bucket
			if bucketName != "" {
				var ok bool
				if bucket, ok = filter.ParseBucket(bucketName); !ok {
					return apps.NewArgumentError(fmt.Sprintf("unknown bucket %q", bucketName))
				}
			}

			ranked, err := cli.dash.Ranking(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cli.fillMembers(cmd, ranked)

			opts := filter.BucketOptions(ranked)
			applicable := len(opts) > 0 && opts[0].Enabled

			if bucket != "" {
				if !applicable {
					cli.note("buckets need a positive total, showing every team")
				}
				ranked = filter.ByBucket(ranked, bucket)
			}
			if term != "" {
				ranked = filter.Search(ranked, term, func(r filter.Ranked[classement.Equipe]) []string {
					return classement.SearchFields(r.Entry)
				})
			}

			if err = printItems(cli, ranked, rankingColumns); err != nil {
				return err
			}
			if applicable {
				counts := make([]string, 0, len(opts))
				for _, o := range opts {
					counts = append(counts, fmt.Sprintf("%s: %d", o.Bucket, o.Count))
				}
				cli.note("\n%s", strings.Join(counts, "  "))
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&bucketName, "bucket", "b", "", "only show one score bucket: excellent, bon, moyen or faible")
	cmd.Flags().StringVarP(&term, "search", "s", "", "search in team names and members")
	return cmd
}

var rankingColumns = []column[filter.Ranked[classement.Equipe]]{
	{"RANG", func(r filter.Ranked[classement.Equipe]) string { return itoa(r.Rank) }},
	{"EQUIPE", func(r filter.Ranked[classement.Equipe]) string { return r.Entry.Nom }},
	{"SCORE", func(r filter.Ranked[classement.Equipe]) string {
		return fmt.Sprintf("%g/%g", r.Entry.Score, r.Entry.TotalPossible)
	}},
	{"CATEGORIE", func(r filter.Ranked[classement.Equipe]) string {
		b, ok := filter.Classify(r.Entry.Score, r.Entry.TotalPossible)
		if !ok {
			return "-"
		}
		return string(b)
	}},
	{"MEMBRES", func(r filter.Ranked[classement.Equipe]) string {
		return orDash(truncate(strings.Join(r.Entry.Membres, ", "), 60))
	}},
}

// fillMembers completes the teams the ranking sent without members from the student list.
func (cli *commandLine) fillMembers(cmd *cobra.Command, ranked []filter.Ranked[classement.Equipe]) {
	missing := false
	for _, r := range ranked {
		if len(r.Entry.Membres) == 0 {
			missing = true
			break
		}
	}
	if !missing {
		return
	}
	if _, err := cli.dash.LoadEtudiants(cmd.Context()); err != nil {
		cli.logger.Warn("could not load etudiants, team members are unknown", err)
		return
	}
	for i := range ranked {
		if len(ranked[i].Entry.Membres) > 0 {
			continue
		}
		for _, e := range cli.dash.TeamMembers(ranked[i].Entry) {
			ranked[i].Entry.Membres = append(ranked[i].Entry.Membres, e.FullName())
		}
	}
}

func (cli *commandLine) etudiantsCmd() *cobra.Command {
	var term, equipe string
	cmd := &cobra.Command{
		Use:     "etudiants",
		Aliases: []string{"etudiant"},
		Short:   "List the registered students",
		Args:    cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			etudiants, err := cli.dash.LoadEtudiants(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("equipe") {
				etudiants = cli.dash.TeamMembers(classement.Equipe{Nom: equipe})
			}
			etudiants = filter.Search(etudiants, term, classement.EtudiantSearchFields)
			return printItems(cli, etudiants, []column[classement.Etudiant]{
				{"ID", func(e classement.Etudiant) string { return e.ID }},
				{"NOM", func(e classement.Etudiant) string { return e.FullName() }},
				{"EMAIL", func(e classement.Etudiant) string { return e.Email }},
				{"EQUIPE", func(e classement.Etudiant) string { return orDash(e.Equipe) }},
			})
		}),
	}
	cmd.Flags().StringVarP(&term, "search", "s", "", "search in names and emails")
	cmd.Flags().StringVar(&equipe, "equipe", "", "only show the members of a team")
	return cmd
}

// status is the summary printed by the status command.
type status struct {
	Counts  map[string]int      `json:"counts" yaml:"counts"`
	Errors  map[string]string   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Orphans map[string][]string `json:"orphans,omitempty" yaml:"orphans,omitempty"`
}

func (cli *commandLine) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load every list and report counts, failures and dangling references",
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			d := cli.dash
			loadErr := d.LoadAll(cmd.Context())
			if loadErr != nil {
				cli.logger.Warn("some lists failed to load", core.Message(loadErr))
			}

			domaines := 0
			if r := d.Domaines(); r != nil {
				domaines = r.Len()
			}
			st := status{
				Counts: map[string]int{
					"annonces":        d.Annonces.Len(),
					"epreuves":        d.Epreuves.Len(),
					"domaines":        domaines,
					"programmes":      d.Programmes.Len(),
					"sous-programmes": d.SousProgrammes.Len(),
					"etudiants":       len(d.Etudiants()),
				},
				Errors:  d.Errors(),
				Orphans: map[string][]string{},
			}
			if loadErr != nil && len(st.Errors) == 0 {
				st.Errors["load"] = core.Message(loadErr)
			}

			o := d.Orphans()
			for _, sp := range o.SousProgrammes {
				st.Orphans["sous-programmes"] = append(st.Orphans["sous-programmes"], sp.ID)
			}
			for _, e := range o.Epreuves {
				st.Orphans["epreuves"] = append(st.Orphans["epreuves"], e.ID)
			}
			for _, e := range o.Etudiants {
				st.Orphans["etudiants"] = append(st.Orphans["etudiants"], e.ID)
			}

			if cli.format != formatTable {
				return cli.encode(st)
			}
			cli.printStatus(st)
			return nil
		}),
	}
}

func (cli *commandLine) printStatus(st status) {
	fmt.Fprintln(cli.out, "Loaded:")
	for _, name := range sortedKeys(st.Counts) {
		fmt.Fprintf(cli.out, "  %-16s %d\n", name, st.Counts[name])
	}
	if len(st.Errors) > 0 {
		fmt.Fprintln(cli.out, "Failed:")
		for _, name := range sortedKeys(st.Errors) {
			fmt.Fprintf(cli.out, "  %-16s %s\n", name, st.Errors[name])
		}
	}
	if len(st.Orphans) > 0 {
		fmt.Fprintln(cli.out, "Dangling references:")
		for _, name := range sortedKeys(st.Orphans) {
			fmt.Fprintf(cli.out, "  %-16s %s\n", name, strings.Join(st.Orphans[name], ", "))
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
