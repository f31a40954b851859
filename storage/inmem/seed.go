package inmemdb

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/epreuve"
)

// SeedOptions describes the reference data a fresh sandbox starts with.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	// ExposeDomainCodes sends the explicit domain codes to clients.
	// Without them, clients fall back to the domain list position.
	ExposeDomainCodes bool
}

var (
	seedDomaines = []string{"Développement Web", "Intelligence Artificielle", "Cybersécurité", "Data Science"}
	seedEquipes  = []string{"Les Pionniers", "Binary Hawks", "Null Pointers"}
	seedMembers  = [][2]string{
		{"Kabila", "Awa"}, {"Mbuyi", "Jean"}, // Les Pionniers
		{"Tshala", "Grace"}, {"Ilunga", "Paul"}, // Binary Hawks
		{"Mutombo", "Sarah"}, // Null Pointers
	}
)

// Seed inserts the admin account, the domains and the students of the sandbox.
// Domain integer ids follow the list order, starting at 1.
func Seed(db *DB, opts SeedOptions) error {
	if opts.AdminEmail != "" {
		rec, err := NewAdminRecord(auth.Admin{Nom: "Admin", Email: opts.AdminEmail}, opts.AdminPassword)
		if err != nil {
			return errors.Wrap(err, "seeding admin")
		}
		if err = db.Admins.Insert(rec); err != nil {
			return errors.Wrap(err, "seeding admin")
		}
	}

	for i, nom := range seedDomaines {
		rec := DomaineRecord{Domaine: epreuve.Domaine{ID: NewID(), Nom: nom}, IntID: i + 1}
		if opts.ExposeDomainCodes {
			code := rec.IntID
			rec.Domaine.Code = &code
		}
		if err := db.Domaines.Insert(rec); err != nil {
			return errors.Wrap(err, "seeding domaines")
		}
	}

	teamOf := []int{0, 0, 1, 1, 2}
	for i, m := range seedMembers {
		e := classement.Etudiant{
			ID:     NewID(),
			Nom:    m[0],
			Prenom: m[1],
			Email:  strings.ToLower(m[1]+"."+m[0]) + "@etu.hackathon.local",
			Equipe: seedEquipes[teamOf[i]],
		}
		if err := db.Etudiants.Insert(e); err != nil {
			return errors.Wrap(err, "seeding etudiants")
		}
	}
	return nil
}

// SeedRanking scores every seeded team on an exam. scores are in team order.
func SeedRanking(db *DB, epreuveID string, total float64, scores ...float64) error {
	for i, nom := range seedEquipes {
		if i >= len(scores) {
			break
		}
		var membres []string
		for _, e := range db.Etudiants.Where(func(e classement.Etudiant) bool { return e.Equipe == nom }) {
			membres = append(membres, e.FullName())
		}
		rec := EquipeRecord{
			Equipe: classement.Equipe{
				ID:            NewID(),
				Nom:           nom,
				Membres:       membres,
				Score:         scores[i],
				TotalPossible: total,
			},
			EpreuveID: epreuveID,
		}
		if err := db.Equipes.Insert(rec); err != nil {
			return errors.Wrap(err, "seeding ranking")
		}
	}
	return nil
}
