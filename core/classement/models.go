package classement

import (
	"strings"
)

// Equipe is a ranking entry of an exam.
type Equipe struct {
	ID            string   `json:"id" yaml:"id"`
	Nom           string   `json:"nom" yaml:"nom"`
	Membres       []string `json:"membres" yaml:"membres"`
	Score         float64  `json:"score" yaml:"score"`
	TotalPossible float64  `json:"total_possible" yaml:"total_possible"`
}

func (e Equipe) GetID() string             { return e.ID }
func (e Equipe) GetScore() float64         { return e.Score }
func (e Equipe) GetTotalPossible() float64 { return e.TotalPossible }

func SearchFields(e Equipe) []string {
	return append([]string{e.Nom}, e.Membres...)
}

// Etudiant is a registered student. Equipe is the team name, not an id.
type Etudiant struct {
	ID     string `json:"id" yaml:"id"`
	Nom    string `json:"nom" yaml:"nom"`
	Prenom string `json:"prenom" yaml:"prenom"`
	Email  string `json:"email" yaml:"email"`
	Equipe string `json:"equipe,omitempty" yaml:"equipe,omitempty"`
}

func (e Etudiant) GetID() string { return e.ID }

func (e Etudiant) FullName() string {
	return strings.TrimSpace(e.Prenom + " " + e.Nom)
}

func EtudiantSearchFields(e Etudiant) []string {
	return []string{e.Nom, e.Prenom, e.Email}
}
