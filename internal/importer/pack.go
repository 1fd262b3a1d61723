package importer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/wordbridge/internal/concept"
)

// Pack is a vocabulary pack as read from disk.
type Pack struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Source      concept.Source `json:"source"`
	Words       []Word         `json:"words"`
	FuzzyGroups []FuzzyGroup   `json:"fuzzy_groups,omitempty"`
}

// Word is one clear-concept entry. Distances are optional; missing ones are
// computed by the scorer.
type Word struct {
	English      string               `json:"english"`
	PartOfSpeech concept.PartOfSpeech `json:"part_of_speech"`
	Translations []string             `json:"translations"`
	Definition   string               `json:"definition"`
	Example      string               `json:"example,omitempty"`
	Level        concept.Level        `json:"level,omitempty"`

	Meaning       *float64 `json:"meaning_distance,omitempty"`
	Visual        *float64 `json:"visual_distance,omitempty"`
	Pronunciation *float64 `json:"pronunciation_distance,omitempty"`
	Strokes       int      `json:"strokes,omitempty"`
}

// FuzzyGroup is a cluster of English terms mapping to overlapping translations.
type FuzzyGroup struct {
	ID               string      `json:"id"`
	EnglishWords     []string    `json:"english_words"`
	TranslationWords []string    `json:"translation_words"`
	Analysis         string      `json:"cultural_analysis"`
	Pairs            []GroupPair `json:"word_pairs"`
}

// GroupPair is one scored pair inside a fuzzy group.
type GroupPair struct {
	English      string               `json:"english"`
	PartOfSpeech concept.PartOfSpeech `json:"part_of_speech"`
	Translation  string               `json:"translation"`
	Definition   string               `json:"definition"`
	Meaning      *float64             `json:"meaning_distance,omitempty"`
	Strokes      int                  `json:"strokes,omitempty"`
}

// Meta names a pack read from a tabular file, which carries no header of its own.
type Meta struct {
	Name    string
	Version string
	Source  concept.Source
}

// Tabular column order for CSV and XLSX packs.
const (
	colEnglish = iota
	colTranslations
	colPartOfSpeech
	colDefinition
	colExample
	colLevel
	colMeaning
	colStrokes
)

// ReadFile reads a pack, choosing the format by file extension.
// meta is ignored for JSON packs.
func ReadFile(path string, meta Meta) (*Pack, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open pack: %w", err)
		}
		defer f.Close()
		return ReadJSON(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open pack: %w", err)
		}
		defer f.Close()
		return ReadCSV(f, meta)
	case ".xlsx":
		return ReadXLSX(path, "", meta)
	default:
		return nil, fmt.Errorf("unsupported pack format %q", filepath.Ext(path))
	}
}

// ReadJSON decodes a JSON pack.
func ReadJSON(r io.Reader) (*Pack, error) {
	var p Pack
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	return &p, nil
}

// ReadCSV reads a tabular pack. A leading header row starting with
// "english" is skipped.
func ReadCSV(r io.Reader, meta Meta) (*Pack, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return fromRows(rows, meta)
}

// ReadXLSX reads a tabular pack from a workbook. An empty sheet name reads
// the first sheet.
func ReadXLSX(path, sheet string, meta Meta) (*Pack, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(rows, meta)
}

func fromRows(rows [][]string, meta Meta) (*Pack, error) {
	p := &Pack{Name: meta.Name, Version: meta.Version, Source: meta.Source}
	for i, row := range rows {
		if i == 0 && strings.EqualFold(cell(row, colEnglish), "english") {
			continue
		}
		if cell(row, colEnglish) == "" {
			continue
		}
		w, err := wordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		p.Words = append(p.Words, w)
	}
	return p, nil
}

func wordFromRow(row []string) (Word, error) {
	w := Word{
		English:      cell(row, colEnglish),
		Translations: SplitTranslations(cell(row, colTranslations)),
		PartOfSpeech: concept.PartOfSpeech(cell(row, colPartOfSpeech)),
		Definition:   cell(row, colDefinition),
		Example:      cell(row, colExample),
		Level:        concept.Level(strings.ToUpper(cell(row, colLevel))),
	}
	if v := cell(row, colMeaning); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Word{}, fmt.Errorf("meaning distance %q: %w", v, err)
		}
		w.Meaning = &m
	}
	if v := cell(row, colStrokes); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Word{}, fmt.Errorf("strokes %q: %w", v, err)
		}
		w.Strokes = n
	}
	return w, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// SplitTranslations splits a translation cell on ";", "," or "、".
func SplitTranslations(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '、'
	})
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
