package config

import (
	"os"
	"path/filepath"
	"strings"
)

// envFileNames are read in order; a key from an earlier file is never replaced by a later one.
var envFileNames = []string{".env.local", ".env"}

type envPair struct {
	key, value string
}

// envDirs lists the directories searched for env files: the working directory, then the
// directory holding the binary when it differs.
func envDirs() []string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if dir := filepath.Dir(exe); len(dirs) == 0 || dir != dirs[0] {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// loadEnvFiles exports the pairs found in every env file under envDirs. Variables present
// in the process environment keep their value.
func loadEnvFiles() {
	for _, dir := range envDirs() {
		for _, name := range envFileNames {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				continue
			}
			setMissing(parseEnvFile(string(data)))
		}
	}
}

func setMissing(pairs []envPair) {
	for _, p := range pairs {
		if _, ok := os.LookupEnv(p.key); ok {
			continue
		}
		_ = os.Setenv(p.key, p.value)
	}
}

// parseEnvFile reads KEY=VALUE lines. Blank lines, # comments and lines without a key are
// skipped. A leading "export " is allowed. Values wrapped in matching single or double quotes
// are taken literally; unquoted values end at " #".
func parseEnvFile(text string) []envPair {
	var pairs []envPair
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "export "); ok {
			line = strings.TrimLeft(rest, " \t")
		}
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		pairs = append(pairs, envPair{key: key, value: envValue(strings.TrimSpace(line[eq+1:]))})
	}
	return pairs
}

func envValue(v string) string {
	if n := len(v); n >= 2 && (v[0] == '"' || v[0] == '\'') && v[n-1] == v[0] {
		return v[1 : n-1]
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}
