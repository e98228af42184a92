package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanChoice is CleanString for the value of a select filter: "All" in any case means no filter.
// Only for fields whose valid values can never be ALL (ids, year levels, sems, remarks).
func CleanChoice(s string) string {
	s = CleanString(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Getwd returns the closest directory above the working one that holds go.mod, or the working directory.
func Getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if fi, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil && !fi.IsDir() {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
