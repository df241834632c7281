// Package classify assigns a procedure type and anatomical region to a
// procedure from its free-text name and description. Rules are ordered and
// first-match-wins; running the classifier twice on the same input always
// yields the same pair.
package classify

import (
	"regexp"
	"strings"

	"github.com/tabelamed/backend/internal/domain/entities"
)

// Fold lowercases text and strips the accents used in Portuguese so the
// ASCII word-boundary patterns below match accented and plain spellings
// alike.
func Fold(text string) string {
	return strings.Map(foldRune, strings.ToLower(text))
}

func foldRune(r rune) rune {
	switch r {
	case 'á', 'à', 'â', 'ã', 'ä':
		return 'a'
	case 'é', 'è', 'ê', 'ë':
		return 'e'
	case 'í', 'ì', 'î', 'ï':
		return 'i'
	case 'ó', 'ò', 'ô', 'õ', 'ö':
		return 'o'
	case 'ú', 'ù', 'û', 'ü':
		return 'u'
	case 'ç':
		return 'c'
	case 'ñ':
		return 'n'
	}
	return r
}

var surgicalPatterns = compileAll(
	`artroscopia`,
	`artroplastia`,
	`artrodese`,
	`osteossintese`,
	`osteotomia`,
	`tenorrafia`,
	`tenotomia`,
	`tenoplastia`,
	`fasciotomia`,
	`meniscectomia`,
	`sinovectomia`,
	`ligamentoplastia`,
	`amputacao`,
	`ressec`,
	`exerese`,
	`enxerto`,
	`implante`,
	`protese`,
	`reconstrucao`,
	`fixacao`,
	`sutura`,
	`reducao (?:cruenta|incruenta)`,
	`retirada de material`,
	`transposicao`,
	`desbridamento`,
	`cirurgi`,
)

var diagnosticPatterns = compileAll(
	`radiografia`,
	`\braios? x\b`,
	`ultrassonografia`,
	`ecografia`,
	`ressonancia`,
	`tomografia`,
	`cintilografia`,
	`densitometria`,
	`eletroneuromiografia`,
	`artrografia`,
	`mielografia`,
	`biopsia`,
	`puncao`,
	`cultura`,
	`doppler`,
	`\bexames?\b`,
)

var ambulatoryPatterns = compileAll(
	`consulta`,
	`retorno`,
	`curativo`,
	`infiltracao`,
	`imobilizacao`,
	`\bgesso\b`,
	`\btala\b`,
	`fisioterapia`,
	`\bbloqueio\b`,
	`acompanhamento`,
	`orientacao`,
)

// regionRule maps ordered anatomical patterns to a region. Qualified bone
// segments (femur distal, tibia proximal, femur proximal) sit in their
// joint's rule so the later generic-limb rules only claim unqualified
// mentions.
type regionRule struct {
	region   entities.Region
	patterns []*regexp.Regexp
}

var regionRules = []regionRule{
	{entities.RegionJoelho, compileAll(
		`joelho`, `menisc`, `patel`, `ligamento cruzado`,
		`femur distal`, `femoral distal`, `tibia proximal`, `tibial proximal`,
	)},
	{entities.RegionOmbro, compileAll(
		`ombro`, `manguito rotador`, `clavicula`, `acromio`,
		`glenoumeral`, `glenoide`, `escapula`, `umero proximal`, `umeral proximal`,
	)},
	{entities.RegionCotovelo, compileAll(
		`cotovelo`, `olecrano`, `epicondil`, `umero distal`, `umeral distal`,
		`cabeca do radio`,
	)},
	{entities.RegionMaoPunho, compileAll(
		`\bmaos?\b`, `punho`, `\bdedos?\b`, `falange`, `metacarp`, `\bcarpo\b`,
		`escafoide`, `tunel do carpo`,
	)},
	{entities.RegionQuadril, compileAll(
		`quadril`, `femur proximal`, `femoral proximal`, `colo do femur`,
		`colo femoral`, `acetabulo`, `coxofemoral`, `trocanter`,
	)},
	{entities.RegionTornozeloPe, compileAll(
		`tornozelo`, `\bpes?\b`, `calcaneo`, `metatars`, `maleol`, `halux`,
		`\btarso\b`, `tendao de aquiles`, `aquileu`,
	)},
	{entities.RegionColuna, compileAll(
		`coluna`, `vertebr`, `lombar`, `cervical`, `toracic`, `escoliose`,
		`\bdisco\b`, `\bsacro\b`, `coccix`,
	)},
	{entities.RegionMembroInferior, compileAll(
		`\bfemur\b`, `\btibia\b`, `\bfibula\b`, `\bperna\b`, `\bcoxa\b`,
		`membro inferior`,
	)},
	{entities.RegionMembroSuperior, compileAll(
		`\bumero\b`, `\bradio\b`, `\bulna\b`, `antebraco`, `\bbraco\b`,
		`membro superior`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Type classifies folded text into a procedure type. Surgical terms win
// over diagnostic ones, diagnostic over ambulatory, and anything that
// matches no rule set falls back to ambulatory.
func Type(text string) entities.ProcedureType {
	folded := Fold(text)
	switch {
	case anyMatch(surgicalPatterns, folded):
		return entities.TypeCirurgico
	case anyMatch(diagnosticPatterns, folded):
		return entities.TypeDiagnostico
	case anyMatch(ambulatoryPatterns, folded):
		return entities.TypeAmbulatorial
	default:
		return entities.TypeAmbulatorial
	}
}

// Region classifies folded text into an anatomical region, defaulting to
// outros when nothing matches.
func Region(text string) entities.Region {
	folded := Fold(text)
	for _, rule := range regionRules {
		if anyMatch(rule.patterns, folded) {
			return rule.region
		}
	}
	return entities.RegionOutros
}

// Classify assigns both labels from the concatenated name and description
func Classify(name, description string) (entities.ProcedureType, entities.Region) {
	text := name
	if description != "" {
		text = name + " " + description
	}
	return Type(text), Region(text)
}

// Keywords derives lowercase search keywords from a procedure name and its
// code identifiers: folded name tokens longer than two characters plus the
// non-empty codes, deduplicated in encounter order.
func Keywords(name string, codes entities.ProcedureCodes) []string {
	seen := make(map[string]struct{})
	keywords := []string{}

	for _, token := range strings.Fields(Fold(name)) {
		token = strings.Trim(token, ".,;:()[]/-")
		if len(token) <= 2 {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	for _, code := range []string{codes.CBHPM, codes.TUSS, codes.SUS} {
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		keywords = append(keywords, code)
	}

	return keywords
}
