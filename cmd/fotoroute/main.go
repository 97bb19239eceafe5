package main

import (
	"os"
	"path/filepath"
	"strings"

	"fotoroute/internal/cli"
)

// sourceFlagFor maps a bare source argument to the flag that selects it.
func sourceFlagFor(arg string) string {
	a := strings.TrimSpace(arg)
	if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
		return "--url"
	}
	switch strings.ToLower(filepath.Ext(a)) {
	case ".json", ".yaml", ".yml":
		return "--file"
	}
	if st, err := os.Stat(a); err == nil && st.IsDir() {
		return "--dir"
	}
	return ""
}

func rewriteBareSourceArgs(argv []string) []string {
	// Convenience: `fotoroute ~/Pictures/trip` works like `fotoroute --dir ~/Pictures/trip`,
	// and likewise for route files and server URLs.
	//
	// Only the first positional token is considered, and only when it is not a subcommand.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config": true,
		"--url":    true,
		"--token":  true,
		"--dir":    true,
		"--file":   true,
		"--log":    true,
		"--format": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}

		flag := sourceFlagFor(a)
		if flag == "" {
			return argv
		}
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, flag)
		out = append(out, argv[i:]...)
		return out
	}
	return argv
}

func main() {
	os.Args = rewriteBareSourceArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
