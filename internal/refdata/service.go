// backend/internal/refdata/service.go
package refdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"skillprofile-system/internal/models"
)

// LoadResult reports one reference-data reload. Bad rows are skipped with a
// warning; only a structurally unreadable file fails the load.
type LoadResult struct {
	Loaded   int      `json:"loaded"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// LoadCourseSkillMapFile reloads the course-to-skill mapping table from a CSV
// file with header course_code,skill_name,map_weight.
func (s *Service) LoadCourseSkillMapFile(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening course skill map: %w", err)
	}
	defer file.Close()

	return s.LoadCourseSkillMap(file)
}

// LoadCourseSkillMap parses and stores mapping rows. Out-of-range weights and
// incomplete rows are rejected row by row, not fatal to the whole load.
func (s *Service) LoadCourseSkillMap(reader io.Reader) (*LoadResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading course skill map header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"course_code", "skill_name", "map_weight"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("course skill map is missing column %q", required)
		}
	}

	result := &LoadResult{}
	var mappings []models.CourseSkillMap
	line := 1

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		courseCode := strings.TrimSpace(record[columns["course_code"]])
		skillName := strings.TrimSpace(record[columns["skill_name"]])
		rawWeight := strings.TrimSpace(record[columns["map_weight"]])

		if courseCode == "" || skillName == "" {
			result.Skipped++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: missing course_code or skill_name", line))
			continue
		}

		weight, err := strconv.ParseFloat(rawWeight, 64)
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: invalid map_weight %q", line, rawWeight))
			continue
		}
		if weight < 0 || weight > 1 {
			result.Skipped++
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("line %d: map_weight %.3f out of range [0,1]", line, weight))
			continue
		}

		mappings = append(mappings, models.CourseSkillMap{
			CourseCode: courseCode,
			SkillName:  skillName,
			MapWeight:  weight,
		})
	}

	if err := s.repo.ReplaceCourseSkillMap(mappings); err != nil {
		return nil, err
	}

	result.Loaded = len(mappings)
	log.Printf("Course skill map reloaded: %d rows loaded, %d skipped", result.Loaded, result.Skipped)
	return result, nil
}

func (s *Service) CountMappings() (int64, error) {
	return s.repo.CountMappings()
}
