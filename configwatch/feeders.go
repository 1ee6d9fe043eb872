package configwatch

import (
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/appshell"
	"github.com/GoCodeAlone/appshell/feeders"
)

func feedersForFiles(files []string) []appshell.Feeder {
	out := make([]appshell.Feeder, 0, len(files))
	for _, f := range files {
		switch strings.ToLower(filepath.Ext(f)) {
		case ".toml":
			out = append(out, feeders.NewTomlFeeder(f))
		default:
			out = append(out, feeders.NewYamlFeeder(f))
		}
	}
	return out
}
