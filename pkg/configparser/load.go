package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and exports its leaves as environment variables.
// Nested keys are joined with "_" and upper-cased: http.port -> HTTP_PORT.
// Variables already present in the environment win.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	vars, err := flattenYaml(file)
	if err != nil {
		return err
	}

	for _, kv := range vars {
		if os.Getenv(kv[0]) != "" {
			continue
		}
		if err := os.Setenv(kv[0], kv[1]); err != nil {
			return fmt.Errorf("could not set env var %s: %w", kv[0], err)
		}
	}

	return nil
}

// flattenYaml understands the subset used by config files: nested maps
// indented by two spaces, scalar values, comments and ${VAR:-default}.
func flattenYaml(r io.Reader) ([][2]string, error) {
	var (
		out            [][2]string
		prefixStack    []string
		previousIndent int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent < previousIndent {
			levelsToPop := (previousIndent - indent) / 2
			for i := 0; i < levelsToPop && len(prefixStack) > 0; i++ {
				prefixStack = prefixStack[:len(prefixStack)-1]
			}
		}
		previousIndent = indent

		// section header
		if strings.HasSuffix(content, ":") && !strings.Contains(content, ": ") {
			prefixStack = append(prefixStack, strings.TrimSuffix(content, ":"))
			continue
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripComment(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		value = expandDefault(strings.Trim(value, `"'`))

		fullKey := strings.ToUpper(strings.Join(append(append([]string{}, prefixStack...), key), "_"))
		out = append(out, [2]string{fullKey, value})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	return out, nil
}

func stripComment(value string) string {
	if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
		return value
	}
	if i := strings.Index(value, " #"); i >= 0 {
		return strings.TrimSpace(value[:i])
	}
	return value
}

// expandDefault resolves ${VAR:-default} against the current environment.
func expandDefault(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	name, def, ok := strings.Cut(value[2:len(value)-1], ":-")
	if !ok {
		return value
	}
	if envValue := os.Getenv(strings.TrimSpace(name)); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(def)
}
