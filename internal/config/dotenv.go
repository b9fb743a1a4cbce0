package config

import (
	"bufio"
	"os"
	"strings"
)

// LoadDotEnv seeds the environment from a .env file for local runs,
// where the Supabase keys and agent URLs would otherwise have to be
// exported by hand. Variables already set in the environment win, and a
// missing file is not an error worth acting on.
func LoadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err // main ignores a missing file
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		value = strings.Trim(value, `"'`)

		// Real environment takes precedence
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return scanner.Err()
}
