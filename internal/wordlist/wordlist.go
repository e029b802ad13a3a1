// Package wordlist loads word lists from files and the embedded set.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/speedforce/internal/model"
)

//go:embed data/*.txt
var embedded embed.FS

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file)
}

// Embedded returns the built-in word list for a difficulty.
func Embedded(d model.Difficulty) ([]string, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown difficulty %q", d)
	}
	file, err := embedded.Open("data/" + string(d) + ".txt")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded word list: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()
	return readWords(file)
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
