package domain

// Collection is the store collection holding projects.
const Collection = "proyectos"

// Well-known project fields. Everything else in a project is caller-defined.
const (
	FieldID        = "_id"
	FieldPieces    = "piezas"
	FieldStartDate = "fechaInicio"
	FieldDate      = "fecha"
)

// Project is a schema-free project document. It is storage-agnostic and used
// across repository, service and HTTP layers.
type Project map[string]interface{}

func (p Project) ID() string {
	id, _ := p[FieldID].(string)
	return id
}

// Pieces returns the piece list and whether the field exists at all.
func (p Project) Pieces() ([]interface{}, bool) {
	v, ok := p[FieldPieces]
	if !ok {
		return nil, false
	}
	pieces, _ := v.([]interface{})
	return pieces, true
}

// SearchFilter is the optional-criteria search. Nil fields impose no constraint.
type SearchFilter struct {
	HasPieces *bool
	Date      *string
}

// AppendOutcome tells apart the results of appending pieces to a project.
type AppendOutcome int

const (
	AppendNotFound AppendOutcome = iota
	AppendNoChange
	Appended
)

func (o AppendOutcome) String() string {
	switch o {
	case Appended:
		return "appended"
	case AppendNoChange:
		return "no_change"
	default:
		return "not_found"
	}
}
