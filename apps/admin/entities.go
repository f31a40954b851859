package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/contenu"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
)

func (cli *commandLine) entityCmds() []*cobra.Command {
	d := cli.dash
	loadDomaines := func(ctx context.Context) error {
		_, err := d.Services().Epreuves.ListDomaines(ctx)
		return err
	}

	annonces := &resourceCmd[annonce.Annonce, annonce.NewAnnonce]{
		use:     "annonces",
		aliases: []string{"annonce"},
		short:   "Manage announcements",
		store:   d.Annonces,
		search:  annonce.SearchFields,
		from:    annonce.FromAnnonce,
		columns: []column[annonce.Annonce]{
			{"ID", func(a annonce.Annonce) string { return a.ID }},
			{"TITRE", func(a annonce.Annonce) string { return a.Titre }},
			{"PUBLICATION", func(a annonce.Annonce) string { return orDash(a.DatePublication) }},
			{"CIBLE", func(a annonce.Annonce) string { return orDash(a.Cible) }},
		},
		fields: []field[annonce.NewAnnonce]{
			stringField("titre", "title", func(p *annonce.NewAnnonce) *string { return &p.Titre }),
			stringField("description", "description", func(p *annonce.NewAnnonce) *string { return &p.Description }),
			stringField("date", "publication date (YYYY-MM-DD)", func(p *annonce.NewAnnonce) *string { return &p.DatePublication }),
			stringField("cible", "audience: tous, etudiants or equipes", func(p *annonce.NewAnnonce) *string { return &p.Cible }),
		},
	}

	epreuves := &resourceCmd[epreuve.Epreuve, epreuve.NewEpreuve]{
		use:     "epreuves",
		aliases: []string{"epreuve"},
		short:   "Manage exams",
		store:   d.Epreuves,
		search:  epreuve.SearchFields,
		from: func(e epreuve.Epreuve) epreuve.NewEpreuve {
			return epreuve.FromEpreuve(e, d.Domaines())
		},
		prepare: loadDomaines,
		columns: []column[epreuve.Epreuve]{
			{"ID", func(e epreuve.Epreuve) string { return e.ID }},
			{"TITRE", func(e epreuve.Epreuve) string { return e.Titre }},
			{"DEBUT", func(e epreuve.Epreuve) string { return e.DateDebut }},
			{"FIN", func(e epreuve.Epreuve) string { return e.DateFin }},
			{"DUREE", func(e epreuve.Epreuve) string { return itoa(e.Duree) + " min" }},
			{"DOMAINE", func(e epreuve.Epreuve) string { return cli.domaineName(e.DomaineID) }},
		},
		fields: []field[epreuve.NewEpreuve]{
			stringField("titre", "title", func(p *epreuve.NewEpreuve) *string { return &p.Titre }),
			stringField("description", "description", func(p *epreuve.NewEpreuve) *string { return &p.Description }),
			stringField("debut", "start date (YYYY-MM-DD)", func(p *epreuve.NewEpreuve) *string { return &p.DateDebut }),
			stringField("fin", "end date (YYYY-MM-DD)", func(p *epreuve.NewEpreuve) *string { return &p.DateFin }),
			intField("duree", "duration in minutes", func(p *epreuve.NewEpreuve) *int { return &p.Duree }),
			stringField("domaine", "domain id, see `epreuves domaines`", func(p *epreuve.NewEpreuve) *string { return &p.DomaineID }),
			stringField("image", "path of a jpeg, png or webp image", func(p *epreuve.NewEpreuve) *string { return &p.ImagePath }),
		},
	}
	epreuvesCmd := epreuves.command(cli)
	epreuvesCmd.AddCommand(cli.domainesCmd())

	questions := &resourceCmd[question.Question, question.NewQuestion]{
		use:     "questions",
		aliases: []string{"question"},
		short:   "Manage the questions of an exam",
		store:   d.Questions,
		parent:  "epreuve",
		search:  question.SearchFields,
		columns: []column[question.Question]{
			{"ID", func(q question.Question) string { return q.ID }},
			{"INTITULE", func(q question.Question) string { return truncate(q.Intitule, 60) }},
			{"TEMPS", func(q question.Question) string { return itoa(q.Temps) + " s" }},
			{"POINTS", func(q question.Question) string { return itoa(q.Points) }},
		},
		fields: []field[question.NewQuestion]{
			stringField("intitule", "question text", func(p *question.NewQuestion) *string { return &p.Intitule }),
			intField("temps", "time limit in seconds", func(p *question.NewQuestion) *int { return &p.Temps }),
			intField("points", "points", func(p *question.NewQuestion) *int { return &p.Points }),
		},
	}

	propositions := &resourceCmd[question.Proposition, question.NewProposition]{
		use:     "propositions",
		aliases: []string{"proposition"},
		short:   "Manage the answers of a question",
		store:   d.Propositions,
		parent:  "question",
		from:    question.FromProposition,
		columns: []column[question.Proposition]{
			{"ID", func(p question.Proposition) string { return p.ID }},
			{"LIBELLE", func(p question.Proposition) string { return truncate(p.Libelle, 60) }},
			{"CORRECTE", func(p question.Proposition) string { return yesNo(p.EstCorrecte) }},
		},
		fields: []field[question.NewProposition]{
			stringField("libelle", "answer text", func(p *question.NewProposition) *string { return &p.Libelle }),
			boolField("correcte", "whether the answer is correct", func(p *question.NewProposition) *bool { return &p.EstCorrecte }),
		},
		view: func(_ string, props []question.Proposition) []question.Proposition {
			if len(props) > 0 && !question.HasCorrectAnswer(props) {
				cli.note("warning: no proposition is flagged correct")
			}
			return props
		},
	}

	programmes := &resourceCmd[programme.Programme, programme.NewProgramme]{
		use:     "programmes",
		aliases: []string{"programme"},
		short:   "Manage the event programme",
		store:   d.Programmes,
		search:  programme.SearchFields,
		from:    programme.FromProgramme,
		columns: []column[programme.Programme]{
			{"ID", func(p programme.Programme) string { return p.ID }},
			{"TITRE", func(p programme.Programme) string { return p.Titre }},
			{"DEBUT", func(p programme.Programme) string { return orDash(p.DateDebut) }},
			{"FIN", func(p programme.Programme) string { return orDash(p.DateFin) }},
		},
		fields: []field[programme.NewProgramme]{
			stringField("titre", "title", func(p *programme.NewProgramme) *string { return &p.Titre }),
			stringField("description", "description", func(p *programme.NewProgramme) *string { return &p.Description }),
			stringField("debut", "start date (YYYY-MM-DD)", func(p *programme.NewProgramme) *string { return &p.DateDebut }),
			stringField("fin", "end date (YYYY-MM-DD)", func(p *programme.NewProgramme) *string { return &p.DateFin }),
		},
	}

	sousProgrammes := &resourceCmd[programme.SousProgramme, programme.NewSousProgramme]{
		use:     "sous-programmes",
		aliases: []string{"sous-programme", "slots"},
		short:   "Manage the time slots of a programme",
		store:   d.SousProgrammes,
		parent:  "programme",
		search:  programme.SousProgrammeSearchFields,
		from:    programme.FromSousProgramme,
		columns: []column[programme.SousProgramme]{
			{"ID", func(sp programme.SousProgramme) string { return sp.ID }},
			{"PROGRAMME", func(sp programme.SousProgramme) string { return orDash(sp.ProgrammeID) }},
			{"TITRE", func(sp programme.SousProgramme) string { return sp.Titre }},
			{"HORAIRE", func(sp programme.SousProgramme) string { return sp.HeureDebut + "-" + sp.HeureFin }},
			{"LIEU", func(sp programme.SousProgramme) string { return orDash(sp.Lieu) }},
		},
		fields: []field[programme.NewSousProgramme]{
			stringField("titre", "title", func(p *programme.NewSousProgramme) *string { return &p.Titre }),
			stringField("description", "description", func(p *programme.NewSousProgramme) *string { return &p.Description }),
			stringField("debut", "start hour (HH:MM)", func(p *programme.NewSousProgramme) *string { return &p.HeureDebut }),
			stringField("fin", "end hour (HH:MM)", func(p *programme.NewSousProgramme) *string { return &p.HeureFin }),
			stringField("lieu", "room", func(p *programme.NewSousProgramme) *string { return &p.Lieu }),
		},
		view: func(programmeID string, all []programme.SousProgramme) []programme.SousProgramme {
			if programmeID == "" {
				return all
			}
			return d.SousProgrammesFor(programmeID)
		},
	}

	tabs := &resourceCmd[contenu.Tab, contenu.NewTab]{
		use:     "tabs",
		aliases: []string{"tab"},
		short:   "Manage the content tabs of an exam",
		store:   d.Tabs,
		parent:  "epreuve",
		from:    contenu.FromTab,
		columns: []column[contenu.Tab]{
			{"ID", func(t contenu.Tab) string { return t.ID }},
			{"ORDRE", func(t contenu.Tab) string { return itoa(t.Ordre) }},
			{"TITRE", func(t contenu.Tab) string { return t.Titre }},
		},
		fields: []field[contenu.NewTab]{
			stringField("titre", "title", func(p *contenu.NewTab) *string { return &p.Titre }),
			intField("ordre", "position of the tab", func(p *contenu.NewTab) *int { return &p.Ordre }),
		},
		view: func(_ string, tabs []contenu.Tab) []contenu.Tab { return contenu.SortTabs(tabs) },
	}

	blocs := &resourceCmd[contenu.Bloc, contenu.NewBloc]{
		use:     "blocs",
		aliases: []string{"bloc"},
		short:   "Manage the content blocks of a tab",
		store:   d.Blocs,
		parent:  "tab",
		search:  contenu.SearchFields,
		from:    contenu.FromBloc,
		columns: []column[contenu.Bloc]{
			{"ID", func(b contenu.Bloc) string { return b.ID }},
			{"TYPE", func(b contenu.Bloc) string { return b.TypeBloc }},
			{"TITRE", func(b contenu.Bloc) string { return orDash(b.Titre) }},
			{"CONTENU", func(b contenu.Bloc) string { return truncate(b.Contenu, 50) }},
		},
		fields: []field[contenu.NewBloc]{
			stringField("titre", "title", func(p *contenu.NewBloc) *string { return &p.Titre }),
			stringField("contenu", "content", func(p *contenu.NewBloc) *string { return &p.Contenu }),
			stringField("type", "texte, image, video, code or lien", func(p *contenu.NewBloc) *string { return &p.TypeBloc }),
		},
	}

	return []*cobra.Command{
		annonces.command(cli),
		epreuvesCmd,
		questions.command(cli),
		propositions.command(cli),
		programmes.command(cli),
		sousProgrammes.command(cli),
		tabs.command(cli),
		blocs.command(cli),
	}
}

func (cli *commandLine) domainesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domaines",
		Short: "List the exam domains and the codes they resolve to",
		Args:  cobra.NoArgs,
		RunE: cli.authed(func(cmd *cobra.Command, _ []string) error {
			if _, err := cli.dash.Services().Epreuves.ListDomaines(cmd.Context()); err != nil {
				return err
			}
			domains := cli.dash.Domaines()
			return printItems(cli, domains.Domaines(), []column[epreuve.Domaine]{
				{"ID", func(dom epreuve.Domaine) string { return dom.ID }},
				{"NOM", func(dom epreuve.Domaine) string { return dom.Nom }},
				{"CODE", func(dom epreuve.Domaine) string {
					res, err := domains.Resolve(dom.ID)
					if err != nil {
						return "-"
					}
					if res.Positional {
						return strconv.Itoa(res.Code) + " (position)"
					}
					return strconv.Itoa(res.Code)
				}},
			})
		}),
	}
}

// domaineName is the name of the domain an exam code resolves to, or the raw code.
func (cli *commandLine) domaineName(code int) string {
	if code == 0 {
		return "-"
	}
	if domains := cli.dash.Domaines(); domains != nil {
		if dom, ok := domains.ByCode(code); ok {
			return dom.Nom
		}
	}
	return "#" + itoa(code)
}
