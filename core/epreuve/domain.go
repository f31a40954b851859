package epreuve

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

var ErrUnknownDomaine = errors.New("unknown domaine")

// Resolution is the integer code a domain UUID maps to.
// Positional is set when the domain carries no explicit code and its position
// in the fetched list was used instead.
type Resolution struct {
	Code       int
	Positional bool
}

// DomainResolver maps the domain UUIDs the admin picks from to the integer
// codes the exam endpoints expect. It is built once per domain fetch and is
// read-only afterwards.
type DomainResolver struct {
	logger  core.Logger
	byID    map[string]Resolution
	byCode  map[int]Domaine
	domains []Domaine
}

func NewDomainResolver(domaines []Domaine, logger core.Logger) *DomainResolver {
	if logger == nil {
		logger = core.NopLogger{}
	}
	r := &DomainResolver{
		logger:  logger,
		byID:    make(map[string]Resolution, len(domaines)),
		byCode:  make(map[int]Domaine, len(domaines)),
		domains: append([]Domaine(nil), domaines...),
	}
	for i, d := range domaines {
		res := Resolution{Code: i + 1, Positional: true}
		if d.Code != nil {
			res = Resolution{Code: *d.Code}
		}
		r.byID[d.ID] = res
		if _, taken := r.byCode[res.Code]; !taken {
			r.byCode[res.Code] = d
		}
	}
	return r
}

// Resolve returns the code of the domain id.
func (r *DomainResolver) Resolve(id string) (Resolution, error) {
	res, ok := r.byID[id]
	if !ok {
		return Resolution{}, errors.Wrapf(ErrUnknownDomaine, "domaine %q", id)
	}
	if res.Positional {
		r.logger.Warn("domaine has no code, using its list position", map[string]interface{}{"domaine": id, "code": res.Code})
	}
	return res, nil
}

// ByCode looks a domain up by the code exams carry.
func (r *DomainResolver) ByCode(code int) (Domaine, bool) {
	d, ok := r.byCode[code]
	return d, ok
}

// Domaines returns the resolved domains sorted by code.
func (r *DomainResolver) Domaines() []Domaine {
	out := append([]Domaine(nil), r.domains...)
	sort.SliceStable(out, func(i, j int) bool {
		return r.byID[out[i].ID].Code < r.byID[out[j].ID].Code
	})
	return out
}

// Len is the number of known domains.
func (r *DomainResolver) Len() int { return len(r.domains) }
