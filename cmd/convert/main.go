// Command convert turns the raw semicolon-separated procedure spreadsheet
// export into the catalog JSON file served to the API. It runs once,
// offline; rerunning it on the same input produces the same output.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tabelamed/backend/internal/classify"
	"github.com/tabelamed/backend/internal/domain/entities"
)

// Expected input columns, per row:
// name; cbhpm code; cbhpm value; tuss code; tuss value; sus code;
// sus value; porte; anesthetic port; uco; surgical time; description; cids
const expectedColumns = 13

func main() {
	input := flag.String("in", "", "path to the semicolon-separated source spreadsheet")
	output := flag.String("out", "procedimentos.json", "path to write the catalog JSON")
	flag.Parse()

	if *input == "" {
		log.Fatal("missing required -in flag")
	}

	in, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer in.Close()

	procedures, err := convert(in)
	if err != nil {
		log.Fatalf("conversion failed: %v", err)
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer out.Close()

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(procedures); err != nil {
		log.Fatalf("failed to write catalog: %v", err)
	}

	log.Printf("Wrote %d procedures to %s", len(procedures), *output)
}

func convert(r io.Reader) ([]entities.Procedure, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	procedures := []entities.Procedure{}
	for i, row := range rows {
		// Header row
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "nome") {
			continue
		}
		if len(row) < expectedColumns {
			log.Printf("Skipping row %d: expected %d columns, got %d", i+1, expectedColumns, len(row))
			continue
		}

		proc, err := convertRow(row, len(procedures))
		if err != nil {
			log.Printf("Skipping row %d: %v", i+1, err)
			continue
		}
		procedures = append(procedures, *proc)
	}

	return procedures, nil
}

func convertRow(row []string, index int) (*entities.Procedure, error) {
	name := strings.TrimSpace(row[0])
	if name == "" {
		return nil, fmt.Errorf("empty procedure name")
	}

	codes := entities.ProcedureCodes{
		CBHPM: strings.TrimSpace(row[1]),
		TUSS:  strings.TrimSpace(row[3]),
		SUS:   strings.TrimSpace(row[5]),
	}
	values := entities.ProcedureValues{
		CBHPM: parseMoney(row[2]),
		TUSS:  parseMoney(row[4]),
		SUS:   parseMoney(row[6]),
	}

	description := strings.TrimSpace(row[11])
	procType, region := classify.Classify(name, description)

	var surgicalTime *int
	if minutes, err := strconv.Atoi(strings.TrimSpace(row[10])); err == nil && minutes > 0 {
		surgicalTime = &minutes
	}

	cids := []string{}
	for _, cid := range strings.Split(row[12], ",") {
		cid = strings.TrimSpace(cid)
		if cid != "" {
			cids = append(cids, strings.ToUpper(cid))
		}
	}

	return &entities.Procedure{
		ID:             procedureID(codes, index),
		Name:           name,
		Codes:          codes,
		Values:         values,
		Region:         region,
		Type:           procType,
		Porte:          strings.TrimSpace(row[7]),
		AnestheticPort: strings.TrimSpace(row[8]),
		UCO:            parseMoney(row[9]),
		SurgicalTime:   surgicalTime,
		Description:    description,
		CIDs:           cids,
		Keywords:       classify.Keywords(name, codes),
	}, nil
}

// procedureID derives a stable id so reruns over the same spreadsheet keep
// ids unchanged. Code-bearing rows key on their first code; codeless rows
// fall back to their output position.
func procedureID(codes entities.ProcedureCodes, index int) string {
	switch {
	case codes.TUSS != "":
		return codes.TUSS
	case codes.CBHPM != "":
		return "cbhpm-" + codes.CBHPM
	case codes.SUS != "":
		return "sus-" + codes.SUS
	default:
		return fmt.Sprintf("proc-%05d", index+1)
	}
}

// parseMoney accepts both decimal-comma and decimal-point amounts,
// tolerating thousands separators
func parseMoney(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
