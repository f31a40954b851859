package inmemdb

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/contenu"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
)

type (
	// AdminRecord is an admin account with its password hash.
	AdminRecord struct {
		auth.Admin
		PasswordHash []byte
	}

	// DomaineRecord always knows the domain integer id, even when Domaine.Code is not exposed.
	DomaineRecord struct {
		epreuve.Domaine
		IntID int
	}

	// EquipeRecord is a team scored on one exam.
	EquipeRecord struct {
		classement.Equipe
		EpreuveID string
	}

	DB struct {
		Admins         *Table[AdminRecord]
		Annonces       *Table[annonce.Annonce]
		Domaines       *Table[DomaineRecord]
		Epreuves       *Table[epreuve.Epreuve]
		Questions      *Table[question.Question]
		Propositions   *Table[question.Proposition]
		Programmes     *Table[programme.Programme]
		SousProgrammes *Table[programme.SousProgramme]
		Tabs           *Table[contenu.Tab]
		Blocs          *Table[contenu.Bloc]
		Etudiants      *Table[classement.Etudiant]
		Equipes        *Table[EquipeRecord]
	}
)

func NewDB() *DB {
	return &DB{
		Admins:         NewTable[AdminRecord](),
		Annonces:       NewTable[annonce.Annonce](),
		Domaines:       NewTable[DomaineRecord](),
		Epreuves:       NewTable[epreuve.Epreuve](),
		Questions:      NewTable[question.Question](),
		Propositions:   NewTable[question.Proposition](),
		Programmes:     NewTable[programme.Programme](),
		SousProgrammes: NewTable[programme.SousProgramme](),
		Tabs:           NewTable[contenu.Tab](),
		Blocs:          NewTable[contenu.Bloc](),
		Etudiants:      NewTable[classement.Etudiant](),
		Equipes:        NewTable[EquipeRecord](),
	}
}

// Reset truncates every table.
func (db *DB) Reset() {
	db.Admins.Truncate()
	db.Annonces.Truncate()
	db.Domaines.Truncate()
	db.Epreuves.Truncate()
	db.Questions.Truncate()
	db.Propositions.Truncate()
	db.Programmes.Truncate()
	db.SousProgrammes.Truncate()
	db.Tabs.Truncate()
	db.Blocs.Truncate()
	db.Etudiants.Truncate()
	db.Equipes.Truncate()
}

func NewID() string {
	return uuid.New().String()
}

func NewAdminRecord(adm auth.Admin, pwd string) (AdminRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return AdminRecord{}, errors.Wrap(err, "hashing password")
	}
	if adm.ID == "" {
		adm.ID = NewID()
	}
	adm.Email = strings.ToLower(strings.TrimSpace(adm.Email))
	return AdminRecord{Admin: adm, PasswordHash: hash}, nil
}

func (rec AdminRecord) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(pwd))
}

// AdminByEmail returns ErrNotFound for unknown emails.
func (db *DB) AdminByEmail(email string) (AdminRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	found := db.Admins.Where(func(rec AdminRecord) bool { return rec.Email == email })
	if len(found) == 0 {
		return AdminRecord{}, ErrNotFound
	}
	return found[0], nil
}

// DomaineByCode returns ErrNotFound for unknown codes.
func (db *DB) DomaineByCode(code int) (DomaineRecord, error) {
	found := db.Domaines.Where(func(rec DomaineRecord) bool { return rec.IntID == code })
	if len(found) == 0 {
		return DomaineRecord{}, ErrNotFound
	}
	return found[0], nil
}

// DeleteEpreuve deletes an exam with its questions, propositions, tabs, blocs and scores.
func (db *DB) DeleteEpreuve(id string) error {
	if err := db.Epreuves.Delete(id); err != nil {
		return err
	}
	for _, qid := range db.Questions.DeleteWhere(func(q question.Question) bool { return q.EpreuveID == id }) {
		db.deleteQuestionChildren(qid)
	}
	for _, tid := range db.Tabs.DeleteWhere(func(t contenu.Tab) bool { return t.EpreuveID == id }) {
		db.deleteTabChildren(tid)
	}
	db.Equipes.DeleteWhere(func(rec EquipeRecord) bool { return rec.EpreuveID == id })
	return nil
}

func (db *DB) DeleteQuestion(id string) error {
	if err := db.Questions.Delete(id); err != nil {
		return err
	}
	db.deleteQuestionChildren(id)
	return nil
}

func (db *DB) deleteQuestionChildren(id string) {
	db.Propositions.DeleteWhere(func(p question.Proposition) bool { return p.QuestionID == id })
}

func (db *DB) DeleteTab(id string) error {
	if err := db.Tabs.Delete(id); err != nil {
		return err
	}
	db.deleteTabChildren(id)
	return nil
}

func (db *DB) deleteTabChildren(id string) {
	db.Blocs.DeleteWhere(func(b contenu.Bloc) bool { return b.TabID == id })
}

// DeleteProgramme keeps the sub-programmes, detached.
func (db *DB) DeleteProgramme(id string) error {
	if err := db.Programmes.Delete(id); err != nil {
		return err
	}
	for _, sp := range db.SousProgrammes.Where(func(sp programme.SousProgramme) bool { return sp.ProgrammeID == id }) {
		sp.ProgrammeID = ""
		_ = db.SousProgrammes.Update(sp)
	}
	return nil
}
