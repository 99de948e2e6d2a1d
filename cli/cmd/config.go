package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hdlfmt/svfmt/style"
)

// LoadStyle loads a style.FormatStyle from styleFile (relative to
// directory unless absolute). An absent file is not an error, it just
// means "use defaults", since most invocations won't have a project-level
// override.
func LoadStyle() (style.FormatStyle, error) {
	result := style.Default()

	path := styleFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(directory, path)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return result, nil
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return style.FormatStyle{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return style.FormatStyle{}, err
	}
	return result, nil
}
