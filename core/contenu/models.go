package contenu

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

// Kinds of content blocks.
const (
	BlocTexte = "texte"
	BlocImage = "image"
	BlocVideo = "video"
	BlocCode  = "code"
	BlocLien  = "lien"
)

// Tab is a content page of an exam.
type Tab struct {
	ID        string `json:"id" yaml:"id"`
	EpreuveID string `json:"id_epreuve" yaml:"id_epreuve"`
	Titre     string `json:"titre" yaml:"titre"`
	Ordre     int    `json:"ordre" yaml:"ordre"`
}

func (t Tab) GetID() string { return t.ID }

type NewTab struct {
	Titre string `json:"titre" validate:"required,notblank,max=255"`
	Ordre int    `json:"ordre" validate:"gte=0"`
}

func FromTab(t Tab) NewTab {
	return NewTab{Titre: t.Titre, Ordre: t.Ordre}
}

func (nt *NewTab) Validate(validate *validator.Validate) error {
	nt.Titre = core.CleanString(nt.Titre)
	return validate.Struct(nt)
}

// SortTabs orders tabs by Ordre, keeping the server order for equal values.
func SortTabs(tabs []Tab) []Tab {
	out := append([]Tab(nil), tabs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordre < out[j].Ordre })
	return out
}

// Bloc is a content block of a tab.
type Bloc struct {
	ID       string `json:"id" yaml:"id"`
	TabID    string `json:"id_tab" yaml:"id_tab"`
	Titre    string `json:"titre" yaml:"titre"`
	Contenu  string `json:"contenu" yaml:"contenu"`
	TypeBloc string `json:"type_bloc" yaml:"type_bloc"`
}

func (b Bloc) GetID() string { return b.ID }

func SearchFields(b Bloc) []string {
	return []string{b.Titre, b.Contenu}
}

type NewBloc struct {
	Titre    string `json:"titre" validate:"omitempty,max=255"`
	Contenu  string `json:"contenu" validate:"required,notblank"`
	TypeBloc string `json:"type_bloc" validate:"required,oneof=texte image video code lien"`
}

func FromBloc(b Bloc) NewBloc {
	return NewBloc{Titre: b.Titre, Contenu: b.Contenu, TypeBloc: b.TypeBloc}
}

func (nb *NewBloc) Validate(validate *validator.Validate) error {
	nb.Titre = core.CleanString(nb.Titre)
	nb.Contenu = core.CleanString(nb.Contenu)
	nb.TypeBloc = core.CleanString(nb.TypeBloc, true /* lower */)
	if nb.TypeBloc == "" {
		nb.TypeBloc = BlocTexte
	}
	return validate.Struct(nb)
}
