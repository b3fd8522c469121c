// Package parser turns one class spreadsheet into a batch of student names.
package parser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// headerScanRows is how many leading rows are searched for the class name.
const headerScanRows = 5

var classPattern = regexp.MustCompile(`(?i)GRADE\s+(\d+)\s*-\s*([A-Z])`)

var (
	ErrClassNotFound = errors.New(`class not found in header or file name (expected "GRADE <n> - <section>")`)
	ErrNoSheets      = errors.New("workbook does not contain any sheets")
)

// ParseError reports a file that produced no batch.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsedStudentEntry is one name row. FamilyName is everything after the
// first whitespace separated token.
type ParsedStudentEntry struct {
	FullName   string `json:"full_name"`
	FirstName  string `json:"first_name"`
	FamilyName string `json:"family_name"`
	ClassName  string `json:"class_name"`
	GradeLevel string `json:"grade_level"`
}

// ParsedClassBatch is the content of one uploaded file.
type ParsedClassBatch struct {
	FileName   string               `json:"file_name"`
	ClassName  string               `json:"class_name"`
	GradeLevel string               `json:"grade_level"`
	Students   []ParsedStudentEntry `json:"students"`
}

// ParseFile reads the first sheet of an xlsx workbook.
func ParseFile(fileName string, r io.Reader) (*ParsedClassBatch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{File: fileName, Err: fmt.Errorf("failed to open excel file: %w", err)}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &ParseError{File: fileName, Err: ErrNoSheets}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &ParseError{File: fileName, Err: fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)}
	}

	return ParseRows(fileName, rows)
}

// ParseRows extracts the class identity and student names from raw rows.
func ParseRows(fileName string, rows [][]string) (*ParsedClassBatch, error) {
	className, gradeLevel, headerRow, ok := findClassInRows(rows)
	if !ok {
		className, gradeLevel, ok = matchClass(filepath.Base(fileName))
		if !ok {
			return nil, &ParseError{File: fileName, Err: ErrClassNotFound}
		}
		headerRow = -1
	}

	batch := &ParsedClassBatch{
		FileName:   fileName,
		ClassName:  className,
		GradeLevel: gradeLevel,
	}

	for _, row := range rows[headerRow+1:] {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || looksLikeHeader(name) {
			continue
		}
		batch.Students = append(batch.Students, splitName(name, className, gradeLevel))
	}

	return batch, nil
}

func findClassInRows(rows [][]string) (className, gradeLevel string, rowIndex int, ok bool) {
	limit := headerScanRows
	if len(rows) < limit {
		limit = len(rows)
	}
	for i := 0; i < limit; i++ {
		for _, cell := range rows[i] {
			if className, gradeLevel, ok = matchClass(cell); ok {
				return className, gradeLevel, i, true
			}
		}
	}
	return "", "", 0, false
}

// matchClass returns the canonical "GRADE <n> - <S>" name and "Grade <n>".
func matchClass(s string) (className, gradeLevel string, ok bool) {
	m := classPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	grade, err := strconv.Atoi(m[1])
	if err != nil {
		return "", "", false
	}
	section := strings.ToUpper(m[2])
	return fmt.Sprintf("GRADE %d - %s", grade, section), fmt.Sprintf("Grade %d", grade), true
}

func looksLikeHeader(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "grade") || strings.Contains(lower, "class")
}

func splitName(fullName, className, gradeLevel string) ParsedStudentEntry {
	tokens := strings.Fields(fullName)
	entry := ParsedStudentEntry{
		FullName:   fullName,
		ClassName:  className,
		GradeLevel: gradeLevel,
	}
	if len(tokens) > 0 {
		entry.FirstName = tokens[0]
		entry.FamilyName = strings.Join(tokens[1:], " ")
	}
	return entry
}
