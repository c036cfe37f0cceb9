package moderation

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"

	"chat-hub/errors"
)

//go:embed censored/*.txt
var censoredFS embed.FS

// LoadEmbeddedWords reads every embedded word list, one word per line,
// skipping blanks and # comments, and deduplicates across languages.
func LoadEmbeddedWords() ([]string, error) {
	entries, err := fs.ReadDir(censoredFS, "censored")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var words []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := censoredFS.Open("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(data)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
		if err = scanner.Err(); err != nil {
			_ = data.Close()
			return nil, err
		}
		_ = data.Close()
	}

	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}
