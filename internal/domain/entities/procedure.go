package entities

// Region identifies the anatomical region a procedure applies to
type Region string

const (
	RegionJoelho         Region = "joelho"
	RegionOmbro          Region = "ombro"
	RegionCotovelo       Region = "cotovelo"
	RegionMaoPunho       Region = "mao_punho"
	RegionQuadril        Region = "quadril"
	RegionTornozeloPe    Region = "tornozelo_pe"
	RegionColuna         Region = "coluna"
	RegionMembroInferior Region = "membro_inferior"
	RegionMembroSuperior Region = "membro_superior"
	RegionOutros         Region = "outros"
)

// ProcedureType classifies how a procedure is performed
type ProcedureType string

const (
	TypeCirurgico    ProcedureType = "cirurgico"
	TypeAmbulatorial ProcedureType = "ambulatorial"
	TypeDiagnostico  ProcedureType = "diagnostico"
)

// ProcedureCodes carries the three parallel Brazilian code systems.
// Any of them may be empty for a given procedure.
type ProcedureCodes struct {
	CBHPM string `json:"cbhpm"`
	TUSS  string `json:"tuss"`
	SUS   string `json:"sus"`
}

// ProcedureValues carries the fee value per code system, in BRL
type ProcedureValues struct {
	CBHPM float64 `json:"cbhpm"`
	TUSS  float64 `json:"tuss"`
	SUS   float64 `json:"sus"`
}

// Procedure is one immutable catalog record. The catalog is produced by the
// offline conversion step and is read-only at runtime.
type Procedure struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Codes          ProcedureCodes  `json:"codes"`
	Values         ProcedureValues `json:"values"`
	Region         Region          `json:"region"`
	Type           ProcedureType   `json:"type"`
	Porte          string          `json:"porte"`
	AnestheticPort string          `json:"anestheticPort"`
	UCO            float64         `json:"uco"`
	SurgicalTime   *int            `json:"surgicalTime,omitempty"`
	Description    string          `json:"description"`
	CIDs           []string        `json:"cids"`
	Keywords       []string        `json:"keywords"`
}
