// Package namelist loads name lists used to generate mock rosters.
package namelist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Default names used when no name file is given.
var (
	DefaultFirstNames = []string{
		"Amani", "Baraka", "Chloe", "Daniel", "Esther", "Fatuma", "Grace", "Hassan",
		"Imani", "Jonas", "Kevin", "Lea", "Musa", "Neema", "Olivier", "Pendo",
		"Rehema", "Samuel", "Tumaini", "Zawadi",
	}
	DefaultLastNames = []string{
		"Bahati", "Kabongo", "Lukusa", "Mbuyi", "Ngalula", "Ilunga", "Tshibangu",
		"Mutombo", "Kalala", "Mwamba", "Nsimba", "Kasongo",
	}
)

// LoadNames reads one name per line from the provided file path. Blank
// lines, "#" comments and names rejected by Valid are skipped.
func LoadNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only name list.
			_ = cerr
		}
	}()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !Valid(line) {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("name list is empty")
	}
	return names, nil
}
